package physics

import (
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func solidAt(cells ...vec.Vec3) SolidFunc {
	set := make(map[vec.Vec3]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}
	return func(p vec.Vec3) bool { return set[p] }
}

func TestNewBoxelCentersOnPosition(t *testing.T) {
	box := NewBoxel(mgl32.Vec3{0.6, 1.8, 0.6}, mgl32.Vec3{0.3, 1.6, 0.3}, mgl32.Vec3{5, 10, 5})
	assert.InDelta(t, 4.7, box.Min().X(), 1e-5)
	assert.InDelta(t, 8.4, box.Min().Y(), 1e-5)
	assert.InDelta(t, 10.2, box.Max().Y(), 1e-5)
}

func TestCollisionPositiveX(t *testing.T) {
	box := Boxel{Position: mgl32.Vec3{0.2, 1, 0.2}, Dimensions: mgl32.Vec3{0.6, 1.8, 0.6}}
	solid := solidAt(vec.Vec3{X: 1, Y: 1, Z: 0})

	tx := FindCollisionX(box, mgl32.Vec3{0.5, 0, 0}, solid)
	assert.InDelta(t, 0.4, tx, 1e-4)
}

func TestCollisionNegativeX(t *testing.T) {
	box := Boxel{Position: mgl32.Vec3{1.2, 1, 0.2}, Dimensions: mgl32.Vec3{0.6, 1.8, 0.6}}
	solid := solidAt(vec.Vec3{X: 0, Y: 2, Z: 0})

	tx := FindCollisionX(box, mgl32.Vec3{-0.5, 0, 0}, solid)
	assert.InDelta(t, 0.4, tx, 1e-4)
}

func TestCollisionFreePathIsOne(t *testing.T) {
	box := Boxel{Position: mgl32.Vec3{0.2, 1, 0.2}, Dimensions: mgl32.Vec3{0.6, 1.8, 0.6}}
	solid := solidAt(vec.Vec3{X: 5, Y: 1, Z: 0})

	assert.Equal(t, float32(1), FindCollisionX(box, mgl32.Vec3{0.5, 0, 0}, solid))
	assert.Equal(t, float32(1), FindCollisionY(box, mgl32.Vec3{0, 0.5, 0}, solid))
	// Нулевое смещение по оси - всегда 1
	assert.Equal(t, float32(1), FindCollisionZ(box, mgl32.Vec3{0.5, 0, 0}, solid))
}

func TestCollisionLandingOnFloor(t *testing.T) {
	// Коробка стоит на полу y=0 (верх блока - плоскость y=1)
	box := Boxel{Position: mgl32.Vec3{0.2, 1, 0.2}, Dimensions: mgl32.Vec3{0.6, 1.8, 0.6}}
	solid := solidAt(vec.Vec3{X: 0, Y: 0, Z: 0})

	ty := FindCollisionY(box, mgl32.Vec3{0, -0.01, 0}, solid)
	assert.Equal(t, float32(0), ty)

	// Горизонтальное движение вдоль пола не блокируется
	tx := FindCollisionX(box, mgl32.Vec3{0.1, 0, 0}, solid)
	assert.Equal(t, float32(1), tx)
}

func TestCollisionResultBounded(t *testing.T) {
	box := Boxel{Position: mgl32.Vec3{0.9995, 0, 0}, Dimensions: mgl32.Vec3{1, 1, 1}}
	solid := func(vec.Vec3) bool { return true }

	for _, move := range []mgl32.Vec3{{3, 0, 0}, {-3, 0, 0}, {0, 2, 0}, {0, -2, 0}, {0, 0, 0.7}, {0, 0, -0.7}} {
		for _, f := range []func(Boxel, mgl32.Vec3, SolidFunc) float32{FindCollisionX, FindCollisionY, FindCollisionZ} {
			v := f(box, move, solid)
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
		}
	}
}

func TestBoxelIntersects(t *testing.T) {
	a := Boxel{Position: mgl32.Vec3{0, 0, 0}, Dimensions: mgl32.Vec3{1, 1, 1}}
	assert.True(t, a.Intersects(a.Translate(mgl32.Vec3{0.5, 0.5, 0.5})))
	assert.False(t, a.Intersects(a.Translate(mgl32.Vec3{1, 0, 0})))
}
