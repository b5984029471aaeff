package vec

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ChunkSize - ширина и глубина чанка в блоках
	ChunkSize = 16
	// WorldHeight - высота мира (и любого чанка) в блоках
	WorldHeight = 256

	chunkShift = 4
	localMask  = ChunkSize - 1
)

// ChunkCoords - координаты столбца 16x16 блоков бесконечной высоты
type ChunkCoords struct {
	X int32
	Z int32
}

// String для логов
func (c ChunkCoords) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// Neighbor возвращает соседний чанк в горизонтальном направлении.
// Для Up и Down возвращается сам чанк: чанки не имеют вертикальных соседей.
func (c ChunkCoords) Neighbor(d Direction) ChunkCoords {
	offset := d.Offset()
	return ChunkCoords{X: c.X + offset.X, Z: c.Z + offset.Z}
}

// Neighbors возвращает четыре соседних чанка (север, юг, восток, запад)
func (c ChunkCoords) Neighbors() [4]ChunkCoords {
	var result [4]ChunkCoords
	for i, d := range CardinalDirections {
		result[i] = c.Neighbor(d)
	}
	return result
}

// InRange проверяет, что другой чанк находится не дальше radius (евклидово расстояние)
func (c ChunkCoords) InRange(other ChunkCoords, radius int32) bool {
	dx := int64(c.X) - int64(other.X)
	dz := int64(c.Z) - int64(other.Z)
	r := int64(radius)
	return dx*dx+dz*dz <= r*r
}

// DistanceSq возвращает квадрат расстояния между чанками
func (c ChunkCoords) DistanceSq(other ChunkCoords) int64 {
	dx := int64(c.X) - int64(other.X)
	dz := int64(c.Z) - int64(other.Z)
	return dx*dx + dz*dz
}

// Range возвращает все чанки квадрата со стороной 2*radius+1 вокруг c,
// построчно по Z, затем по X
func (c ChunkCoords) Range(radius int32) []ChunkCoords {
	if radius < 0 {
		return nil
	}
	side := int(2*radius + 1)
	result := make([]ChunkCoords, 0, side*side)
	for z := c.Z - radius; z <= c.Z+radius; z++ {
		for x := c.X - radius; x <= c.X+radius; x++ {
			result = append(result, ChunkCoords{X: x, Z: z})
		}
	}
	return result
}

// Origin возвращает глобальную позицию блока с минимальными координатами в чанке (y = 0)
func (c ChunkCoords) Origin() Vec3 {
	return Vec3{X: c.X << chunkShift, Y: 0, Z: c.Z << chunkShift}
}

// ChunkCoordsFromPosition возвращает чанк, содержащий точку (высота не учитывается)
func ChunkCoordsFromPosition(p mgl32.Vec3) ChunkCoords {
	return ChunkCoords{
		X: floor32(p[0]) >> chunkShift,
		Z: floor32(p[2]) >> chunkShift,
	}
}
