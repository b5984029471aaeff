package world

import (
	"github.com/annel0/voxel-world/internal/util"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Generator заполняет чанк блоками. Реализация должна быть детерминированной
// и безопасной для вызова из нескольких горутин.
type Generator interface {
	Generate(cc vec.ChunkCoords) BlockMap
}

// GeneratorFunc позволяет использовать функцию как Generator
type GeneratorFunc func(cc vec.ChunkCoords) BlockMap

// Generate вызывает f(cc)
func (f GeneratorFunc) Generate(cc vec.ChunkCoords) BlockMap {
	return f(cc)
}

// Константы генерации рельефа
const (
	detailScale      = 100.0 // Длина волны детального шума
	continentalScale = 500.0 // Длина волны континентального шума
	maxAltitude      = 100.0 // Максимальная высота рельефа
	detailOctaves    = 6
)

// PerlinGenerator строит рельеф из двух полей шума Перлина:
// высота = детальный шум * континентальный шум^2 * 100
type PerlinGenerator struct {
	Seed        int64
	detail      *util.Noise
	continental *util.Noise
}

// NewPerlinGenerator создаёт генератор рельефа с указанным сидом
func NewPerlinGenerator(seed int64) *PerlinGenerator {
	return &PerlinGenerator{
		Seed:        seed,
		detail:      util.NewNoise(seed, detailOctaves, detailScale),
		continental: util.NewNoise(seed+1, 1, continentalScale),
	}
}

// Altitude возвращает высоту поверхности в глобальной колонне (x, z)
func (g *PerlinGenerator) Altitude(x, z int32) int32 {
	v1 := g.detail.Noise2D(float64(x), float64(z))
	v2 := g.continental.Noise2D(float64(x), float64(z))
	alt := int32(v1 * v2 * v2 * maxAltitude)
	if alt >= vec.WorldHeight {
		alt = vec.WorldHeight - 1
	}
	return alt
}

// Generate заполняет колонны от 0 до высоты поверхности включительно
func (g *PerlinGenerator) Generate(cc vec.ChunkCoords) BlockMap {
	blocks := make(BlockMap, vec.ChunkSize*vec.ChunkSize*16)
	origin := cc.Origin()

	for bx := int32(0); bx < vec.ChunkSize; bx++ {
		for bz := int32(0); bz < vec.ChunkSize; bz++ {
			altitude := g.Altitude(origin.X+bx, origin.Z+bz)
			for y := int32(0); y <= altitude; y++ {
				blocks[vec.MustLocalToIndex(bx, y, bz)] = materialAt(altitude, y)
			}
		}
	}
	return blocks
}

// materialAt выбирает материал по высоте колонны и глубине под поверхностью
func materialAt(altitude, y int32) block.Block {
	deep := (altitude - y) * altitude
	switch {
	case altitude <= 10:
		// Побережье
		if deep <= 30 {
			return block.Sand
		}
		return block.Stone
	case altitude <= 35:
		// Равнины
		switch {
		case deep == 0:
			return block.Grass
		case deep <= 30:
			return block.Dirt
		default:
			return block.Stone
		}
	default:
		// Горы
		if deep <= 40 {
			return block.Stone
		}
		return block.Brick
	}
}

// FlatGenerator заполняет слои [0, Height) одним материалом
type FlatGenerator struct {
	Height   int32
	Material block.Block
}

// Generate заполняет плоский слой
func (g FlatGenerator) Generate(cc vec.ChunkCoords) BlockMap {
	height := g.Height
	if height > vec.WorldHeight {
		height = vec.WorldHeight
	}
	material := g.Material
	if !material.IsValid() {
		material = block.Stone
	}

	blocks := make(BlockMap, vec.ChunkSize*vec.ChunkSize*int(max(height, 0)))
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < vec.ChunkSize; x++ {
			for z := int32(0); z < vec.ChunkSize; z++ {
				blocks[vec.MustLocalToIndex(x, y, z)] = material
			}
		}
	}
	return blocks
}
