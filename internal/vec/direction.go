package vec

// Direction - одна из шести граней куба
type Direction uint8

const (
	North Direction = iota // -Z
	South                  // +Z
	East                   // +X
	West                   // -X
	Up                     // +Y
	Down                   // -Y
)

// AllDirections - все шесть направлений
var AllDirections = [6]Direction{North, South, East, West, Up, Down}

// CardinalDirections - горизонтальные направления (соседние чанки)
var CardinalDirections = [4]Direction{North, South, East, West}

var directionOffsets = [6]Vec3{
	North: {X: 0, Y: 0, Z: -1},
	South: {X: 0, Y: 0, Z: 1},
	East:  {X: 1, Y: 0, Z: 0},
	West:  {X: -1, Y: 0, Z: 0},
	Up:    {X: 0, Y: 1, Z: 0},
	Down:  {X: 0, Y: -1, Z: 0},
}

// Статическое освещение граней (без распространения света)
var directionLight = [6]float32{
	North: 0.7,
	South: 0.1,
	East:  0.1,
	West:  0.4,
	Up:    1.0,
	Down:  0.0,
}

// Углы грани относительно минимального угла блока, по порядку обхода для двух треугольников
var faceVertices = [6][4]Vec3{
	North: {{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	West:  {{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}},
	South: {{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}},
	East:  {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	Up:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	Down:  {{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {1, 0, 1}},
}

// Opposite возвращает противоположное направление
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	default:
		return Up
	}
}

// Offset возвращает единичный вектор смещения
func (d Direction) Offset() Vec3 {
	return directionOffsets[d]
}

// Light возвращает постоянную освещённость грани
func (d Direction) Light() float32 {
	return directionLight[d]
}

// FaceVertices возвращает 4 угла грани для построения геометрии
func (d Direction) FaceVertices() [4]Vec3 {
	return faceVertices[d]
}

// DirectionFromOffset находит направление по единичному смещению
func DirectionFromOffset(offset Vec3) (Direction, bool) {
	for _, d := range AllDirections {
		if directionOffsets[d].Equals(offset) {
			return d, true
		}
	}
	return 0, false
}

// String возвращает имя направления
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}
