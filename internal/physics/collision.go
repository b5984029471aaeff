package physics

import (
	"math"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
)

// CollisionEpsilon - допуск, позволяющий коробке скользить вдоль граней,
// которых она касается
const CollisionEpsilon float32 = 1e-3

// SolidFunc сообщает, занята ли глобальная позиция твёрдым блоком.
// Позиции вне мира и в незагруженных чанках должны считаться пустыми.
type SolidFunc func(pos vec.Vec3) bool

// Отображение осей: ведущая ось и две поперечные
type axisMap struct {
	x, y, z int
}

var (
	axesX = axisMap{0, 1, 2}
	axesY = axisMap{1, 0, 2}
	axesZ = axisMap{2, 0, 1}
)

// FindCollisionX возвращает долю смещения по X (от 0 до 1), которую коробка
// проходит до первого столкновения. 1 - столкновения нет.
func FindCollisionX(box Boxel, move mgl32.Vec3, solid SolidFunc) float32 {
	return findCollision(axesX, box, move, solid)
}

// FindCollisionY - то же для оси Y
func FindCollisionY(box Boxel, move mgl32.Vec3, solid SolidFunc) float32 {
	return findCollision(axesY, box, move, solid)
}

// FindCollisionZ - то же для оси Z
func FindCollisionZ(box Boxel, move mgl32.Vec3, solid SolidFunc) float32 {
	return findCollision(axesZ, box, move, solid)
}

func findCollision(axes axisMap, box Boxel, move mgl32.Vec3, solid SolidFunc) float32 {
	const e = CollisionEpsilon
	minTime := float32(1)
	v := move[axes.x]

	switch {
	case v > 0:
		// Ведущая грань - максимальная
		begin := box.Position[axes.x] + box.Dimensions[axes.x]
		end := begin + v
		for x := ceil32(begin - e); x <= floor32(end+e); x++ {
			t := (float32(x) - begin) / (end - begin)
			if t < minTime && tranchHits(axes, x, t, box, move, solid) {
				minTime = t
			}
		}
	case v < 0:
		// Ведущая грань - минимальная, проверяется блок слева от плоскости
		begin := box.Position[axes.x]
		end := begin + v
		for x := ceil32(end - e); x <= floor32(begin+e); x++ {
			t := (float32(x) - begin) / (end - begin)
			if t < minTime && tranchHits(axes, x-1, t, box, move, solid) {
				minTime = t
			}
		}
	}

	return clampUnit(minTime)
}

// tranchHits проверяет слой блоков x, покрываемый проекцией коробки,
// сдвинутой на долю t смещения
func tranchHits(axes axisMap, x int32, t float32, box Boxel, move mgl32.Vec3, solid SolidFunc) bool {
	const e = CollisionEpsilon
	posMin := box.Position.Add(move.Mul(t))
	posMax := posMin.Add(box.Dimensions)

	yBegin, yEnd := floor32(posMin[axes.y]+e), ceil32(posMax[axes.y]-e)
	zBegin, zEnd := floor32(posMin[axes.z]+e), ceil32(posMax[axes.z]-e)

	for y := yBegin; y < yEnd; y++ {
		for z := zBegin; z < zEnd; z++ {
			var cell vec.Vec3
			cell = cell.WithAxis(axes.x, x).WithAxis(axes.y, y).WithAxis(axes.z, z)
			if solid(cell) {
				return true
			}
		}
	}
	return false
}

func clampUnit(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func floor32(f float32) int32 {
	return int32(math.Floor(float64(f)))
}

func ceil32(f float32) int32 {
	return int32(math.Ceil(float64(f)))
}
