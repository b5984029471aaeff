package vec

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrOutOfWorld возвращается для позиций вне вертикальных границ мира
var ErrOutOfWorld = errors.New("position out of world")

// BlockCoords однозначно определяет блок: чанк + индекс внутри чанка
type BlockCoords struct {
	Chunk ChunkCoords
	Index BlockIndex
}

// String для логов
func (bc BlockCoords) String() string {
	g := bc.Global()
	return fmt.Sprintf("(%d,%d,%d)", g.X, g.Y, g.Z)
}

// TryGlobalToBlockCoords переводит глобальную позицию в координаты блока.
// Чанк вычисляется арифметическим сдвигом (floor), поэтому отрицательные X/Z
// корректно попадают в чанк слева.
func TryGlobalToBlockCoords(p Vec3) (BlockCoords, error) {
	if p.Y < 0 || p.Y >= WorldHeight {
		return BlockCoords{}, fmt.Errorf("%w: y=%d", ErrOutOfWorld, p.Y)
	}
	return BlockCoords{
		Chunk: ChunkCoords{X: p.X >> chunkShift, Z: p.Z >> chunkShift},
		Index: packIndex(p.X&localMask, p.Y, p.Z&localMask),
	}, nil
}

// Global возвращает глобальную позицию блока
func (bc BlockCoords) Global() Vec3 {
	local := bc.Index.Local()
	return Vec3{
		X: bc.Chunk.X<<chunkShift + local.X,
		Y: local.Y,
		Z: bc.Chunk.Z<<chunkShift + local.Z,
	}
}

// Step возвращает соседний блок в направлении d.
// false, если сосед выходит за вертикальные границы мира.
func (bc BlockCoords) Step(d Direction) (BlockCoords, bool) {
	next, err := TryGlobalToBlockCoords(bc.Global().Add(d.Offset()))
	if err != nil {
		return BlockCoords{}, false
	}
	return next, true
}

// Position возвращает минимальный угол блока как вектор с плавающей точкой
func (bc BlockCoords) Position() mgl32.Vec3 {
	return bc.Global().Float()
}

// BlockCoordsFromPosition возвращает блок, содержащий точку
func BlockCoordsFromPosition(p mgl32.Vec3) (BlockCoords, error) {
	return TryGlobalToBlockCoords(FloorVec3(p))
}
