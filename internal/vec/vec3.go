package vec

import "github.com/go-gl/mathgl/mgl32"

// Vec3 представляет трехмерный вектор с целочисленными координатами
// (глобальная позиция блока в мире)
type Vec3 struct {
	X int32
	Y int32
	Z int32
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Axis возвращает компоненту по номеру оси (0 - X, 1 - Y, 2 - Z)
func (v Vec3) Axis(axis int) int32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithAxis возвращает копию вектора с заменённой компонентой
func (v Vec3) WithAxis(axis int, value int32) Vec3 {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// Float преобразует вектор в mgl32.Vec3
func (v Vec3) Float() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// FloorVec3 возвращает целочисленную позицию, содержащую точку
func FloorVec3(p mgl32.Vec3) Vec3 {
	return Vec3{
		X: floor32(p[0]),
		Y: floor32(p[1]),
		Z: floor32(p[2]),
	}
}

func floor32(f float32) int32 {
	i := int32(f)
	if float32(i) > f {
		i--
	}
	return i
}
