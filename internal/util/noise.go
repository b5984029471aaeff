package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise оборачивает генератор шума Перлина с фиксированным сидом и масштабом
type Noise struct {
	perlin *perlin.Perlin
	scale  float64
}

// NewNoise создаёт генератор шума. scale задаёт длину волны в блоках.
func NewNoise(seed int64, octaves int32, scale float64) *Noise {
	alpha := 2.0 // Сглаживание шума
	beta := 2.0  // Частота шума
	if octaves <= 0 {
		octaves = 1
	}
	if scale <= 0 {
		scale = 1
	}
	return &Noise{
		perlin: perlin.NewPerlin(alpha, beta, octaves, seed),
		scale:  scale,
	}
}

// Noise2D возвращает значение шума для координат (от 0 до 1)
func (n *Noise) Noise2D(x, y float64) float64 {
	// Получаем значение шума (примерно от -1 до 1)
	v := n.perlin.Noise2D(x/n.scale, y/n.scale)

	// Преобразуем в диапазон от 0 до 1
	return Clamp01((v + 1.0) / 2.0)
}

// Clamp01 ограничивает значение отрезком [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
