package physics

import (
	"math"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
)

// RayEpsilon смещает точку выборки за пересечённую плоскость,
// чтобы она гарантированно попала внутрь следующего блока
const RayEpsilon float32 = 1e-4

// RayHit - очередной блок, пересечённый лучом
type RayHit struct {
	Coords   vec.BlockCoords
	Face     vec.Direction // грань блока, через которую вошёл луч
	Distance float32       // параметр луча в момент входа (в длинах ray)
	InWorld  bool          // false - точка вне вертикальных границ мира, Coords не заполнены
}

// Пересечение плоскостей одной оси
type rayTraveler struct {
	face vec.Direction
	next float32
	step float32
}

// RayTravel перечисляет блоки, пересекаемые лучом, в порядке удаления (DDA).
// Не потокобезопасен, предназначен для одного вызывающего.
type RayTravel struct {
	travelers []rayTraveler
	origin    mgl32.Vec3
	ray       mgl32.Vec3
	limit     float32
	done      bool
}

// Грани входа для положительного и отрицательного направления по каждой оси
var axisFaces = [3][2]vec.Direction{
	{vec.West, vec.East},
	{vec.Down, vec.Up},
	{vec.North, vec.South},
}

// NewRayTravel создаёт обход луча origin + ray*t для t <= limit
func NewRayTravel(origin, ray mgl32.Vec3, limit float32) *RayTravel {
	rt := &RayTravel{
		travelers: make([]rayTraveler, 0, 3),
		origin:    origin,
		ray:       ray,
		limit:     limit,
	}

	for axis := 0; axis < 3; axis++ {
		r, o := ray[axis], origin[axis]
		switch {
		case r > 0:
			rt.travelers = append(rt.travelers, rayTraveler{
				face: axisFaces[axis][0],
				step: 1 / r,
				next: (ceilF(o) - o) / r,
			})
		case r < 0:
			abs := -r
			rt.travelers = append(rt.travelers, rayTraveler{
				face: axisFaces[axis][1],
				step: 1 / abs,
				next: (o - floorF(o)) / abs,
			})
		}
		// Ось без движения не участвует
	}

	return rt
}

// Next возвращает следующий пересечённый блок. false - обход завершён.
func (rt *RayTravel) Next() (RayHit, bool) {
	if rt.done || len(rt.travelers) == 0 {
		return RayHit{}, false
	}

	// Ближайшее пересечение целочисленной плоскости
	nearest := 0
	for i := 1; i < len(rt.travelers); i++ {
		if rt.travelers[i].next < rt.travelers[nearest].next {
			nearest = i
		}
	}
	tr := &rt.travelers[nearest]

	distance := tr.next + RayEpsilon
	if distance > rt.limit {
		rt.done = true
		return RayHit{}, false
	}
	tr.next += tr.step

	hit := RayHit{Face: tr.face, Distance: distance}
	coords, err := vec.BlockCoordsFromPosition(rt.origin.Add(rt.ray.Mul(distance)))
	if err == nil {
		hit.Coords = coords
		hit.InWorld = true
	}
	return hit, true
}

// Collect собирает все оставшиеся пересечения
func (rt *RayTravel) Collect() []RayHit {
	var hits []RayHit
	for {
		hit, ok := rt.Next()
		if !ok {
			return hits
		}
		hits = append(hits, hit)
	}
}

func floorF(f float32) float32 { return float32(math.Floor(float64(f))) }

func ceilF(f float32) float32 { return float32(math.Ceil(float64(f))) }
