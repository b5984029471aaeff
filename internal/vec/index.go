package vec

import (
	"errors"
	"fmt"
)

// ErrOutOfChunk возвращается, если локальная координата не помещается в чанк
var ErrOutOfChunk = errors.New("local coordinates out of chunk")

// BlockIndexCount - количество позиций блоков в одном чанке (16*16*256)
const BlockIndexCount = ChunkSize * ChunkSize * WorldHeight

// BlockIndex - упакованная позиция блока внутри чанка.
//
// Схема упаковки: [y:8][z:4][x:4], т.е. index = x | z<<4 | y<<8
type BlockIndex uint16

// Local распаковывает индекс в локальные координаты (x, y, z)
func (i BlockIndex) Local() Vec3 {
	return Vec3{
		X: int32(i & localMask),
		Y: int32(i >> 8),
		Z: int32((i >> chunkShift) & localMask),
	}
}

// String для логов
func (i BlockIndex) String() string {
	l := i.Local()
	return fmt.Sprintf("[%d,%d,%d]", l.X, l.Y, l.Z)
}

// TryLocalToIndex упаковывает локальные координаты блока в индекс
func TryLocalToIndex(x, y, z int32) (BlockIndex, error) {
	if x < 0 || x >= ChunkSize || z < 0 || z >= ChunkSize || y < 0 || y >= WorldHeight {
		return 0, fmt.Errorf("%w: (%d,%d,%d)", ErrOutOfChunk, x, y, z)
	}
	return packIndex(x, y, z), nil
}

// MustLocalToIndex - как TryLocalToIndex, но паникует при выходе за границы.
// Используется для констант и в генераторах, где координаты заведомо корректны.
func MustLocalToIndex(x, y, z int32) BlockIndex {
	bi, err := TryLocalToIndex(x, y, z)
	if err != nil {
		panic(err)
	}
	return bi
}

func packIndex(x, y, z int32) BlockIndex {
	return BlockIndex(uint16(x) | uint16(z)<<chunkShift | uint16(y)<<8)
}
