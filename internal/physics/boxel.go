package physics

import "github.com/go-gl/mathgl/mgl32"

// Boxel - выровненный по осям параллелепипед в координатах мира.
// Position - минимальный угол.
type Boxel struct {
	Position   mgl32.Vec3
	Dimensions mgl32.Vec3
}

// NewBoxel строит коробку размера dims так, что точка pos оказывается
// на смещении center от минимального угла
func NewBoxel(dims, center, pos mgl32.Vec3) Boxel {
	return Boxel{
		Position:   pos.Sub(center),
		Dimensions: dims,
	}
}

// Min возвращает минимальный угол
func (b Boxel) Min() mgl32.Vec3 {
	return b.Position
}

// Max возвращает максимальный угол
func (b Boxel) Max() mgl32.Vec3 {
	return b.Position.Add(b.Dimensions)
}

// Translate возвращает коробку, сдвинутую на offset
func (b Boxel) Translate(offset mgl32.Vec3) Boxel {
	return Boxel{Position: b.Position.Add(offset), Dimensions: b.Dimensions}
}

// Intersects проверяет пересечение двух коробок (касание не считается)
func (b Boxel) Intersects(other Boxel) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := other.Min(), other.Max()
	for i := 0; i < 3; i++ {
		if bMax[i] <= oMin[i] || oMax[i] <= bMin[i] {
			return false
		}
	}
	return true
}
