package world

import (
	"github.com/annel0/voxel-world/internal/physics"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultReach - дальность выбора блока
const DefaultReach float32 = 10

// RayTravel возвращает обход блоков вдоль луча. Хранилище не читается.
func (w *World) RayTravel(origin, ray mgl32.Vec3, limit float32) *physics.RayTravel {
	return physics.NewRayTravel(origin, ray, limit)
}

// FindCollisionX возвращает долю смещения по X до первого твёрдого блока
func (w *World) FindCollisionX(box physics.Boxel, move mgl32.Vec3) float32 {
	return physics.FindCollisionX(box, move, w.IsSolidAt)
}

// FindCollisionY возвращает долю смещения по Y до первого твёрдого блока
func (w *World) FindCollisionY(box physics.Boxel, move mgl32.Vec3) float32 {
	return physics.FindCollisionY(box, move, w.IsSolidAt)
}

// FindCollisionZ возвращает долю смещения по Z до первого твёрдого блока
func (w *World) FindCollisionZ(box physics.Boxel, move mgl32.Vec3) float32 {
	return physics.FindCollisionZ(box, move, w.IsSolidAt)
}

// PickResult - первый твёрдый блок на луче
type PickResult struct {
	Block    vec.BlockCoords
	Face     vec.Direction // грань, через которую вошёл луч
	Material block.Block
	Distance float32
}

// PlacementTarget возвращает позицию перед выбранной гранью.
// false, если она выходит за границы мира.
func (r PickResult) PlacementTarget() (vec.BlockCoords, bool) {
	return r.Block.Step(r.Face)
}

// PickBlock находит первый твёрдый блок вдоль луча не дальше reach блоков
func (w *World) PickBlock(origin, dir mgl32.Vec3, reach float32) (PickResult, bool) {
	if dir.Len() == 0 {
		return PickResult{}, false
	}
	rt := physics.NewRayTravel(origin, dir.Normalize(), reach)
	for {
		hit, ok := rt.Next()
		if !ok {
			return PickResult{}, false
		}
		if !hit.InWorld {
			continue
		}
		if b, solid, _ := w.GetBlock(hit.Coords); solid {
			return PickResult{
				Block:    hit.Coords,
				Face:     hit.Face,
				Material: b,
				Distance: hit.Distance,
			}, true
		}
	}
}
