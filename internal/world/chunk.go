package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// ChunkStage - положение чанка в конвейере None -> Loaded -> Meshed.
// Стадия чанка только растёт.
type ChunkStage uint8

const (
	StageNone   ChunkStage = iota // чанка нет в хранилище
	StageLoaded                   // блоки сгенерированы
	StageMeshed                   // вычислены видимые грани
)

// Previous возвращает предшествующую стадию. false для StageNone.
func (s ChunkStage) Previous() (ChunkStage, bool) {
	if s == StageNone {
		return StageNone, false
	}
	return s - 1, true
}

// String возвращает имя стадии
func (s ChunkStage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageLoaded:
		return "loaded"
	case StageMeshed:
		return "meshed"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// ParseChunkStage разбирает имя стадии
func ParseChunkStage(s string) (ChunkStage, error) {
	switch s {
	case "none":
		return StageNone, nil
	case "loaded":
		return StageLoaded, nil
	case "meshed":
		return StageMeshed, nil
	default:
		return StageNone, fmt.Errorf("неизвестная стадия чанка %q", s)
	}
}

// BlockMap - занятые позиции чанка. Отсутствие ключа означает воздух.
type BlockMap map[vec.BlockIndex]block.Block

// FaceKey - грань блока: позиция внутри чанка и направление
type FaceKey struct {
	Index vec.BlockIndex
	Dir   vec.Direction
}

// FaceMap - видимые грани чанка и материал блока, которому они принадлежат
type FaceMap map[FaceKey]block.Block

// ChunkState - содержимое чанка на текущей стадии.
// Реализации: *LoadedChunk и *MeshedChunk.
type ChunkState interface {
	Stage() ChunkStage
	BlockMap() BlockMap
}

// LoadedChunk - сгенерированные блоки без граней
type LoadedChunk struct {
	Blocks BlockMap
}

func (c *LoadedChunk) Stage() ChunkStage  { return StageLoaded }
func (c *LoadedChunk) BlockMap() BlockMap { return c.Blocks }

// MeshedChunk - блоки и множество видимых граней
type MeshedChunk struct {
	Blocks BlockMap
	Faces  FaceMap
}

func (c *MeshedChunk) Stage() ChunkStage  { return StageMeshed }
func (c *MeshedChunk) BlockMap() BlockMap { return c.Blocks }

// Clone возвращает копию карты блоков
func (m BlockMap) Clone() BlockMap {
	out := make(BlockMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone возвращает копию карты граней
func (m FaceMap) Clone() FaceMap {
	out := make(FaceMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
