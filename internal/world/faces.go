package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Операции изменения блока
const (
	EditPlace  = "place"
	EditRemove = "remove"
)

// PlaceBlock ставит блок b в пустую позицию и обновляет грани затронутых блоков.
// Возвращает чанки, множество граней которых изменилось.
// Занятая позиция - не ошибка: ничего не меняется.
func (w *World) PlaceBlock(bc vec.BlockCoords, b block.Block) ([]vec.ChunkCoords, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlock, uint8(b))
	}
	return w.editBlock(bc, EditPlace, func(blocks BlockMap) bool {
		if _, occupied := blocks[bc.Index]; occupied {
			return false
		}
		blocks[bc.Index] = b
		return true
	})
}

// RemoveBlock удаляет блок и открывает грани соседей.
// Удаление воздуха - не ошибка: ничего не меняется.
func (w *World) RemoveBlock(bc vec.BlockCoords) ([]vec.ChunkCoords, error) {
	return w.editBlock(bc, EditRemove, func(blocks BlockMap) bool {
		if _, occupied := blocks[bc.Index]; !occupied {
			return false
		}
		delete(blocks, bc.Index)
		return true
	})
}

func (w *World) editBlock(bc vec.BlockCoords, op string, apply func(BlockMap) bool) ([]vec.ChunkCoords, error) {
	var stage ChunkStage
	changed := false
	found := w.store.Mutate(bc.Chunk, func(st ChunkState) {
		stage = st.Stage()
		if m, ok := st.(*MeshedChunk); ok {
			changed = apply(m.Blocks)
		}
	})

	switch {
	case !found:
		w.metrics.EditRejected("not_loaded")
		return nil, fmt.Errorf("%s %s: %w", op, bc, ErrChunkNotLoaded)
	case stage != StageMeshed:
		w.metrics.EditRejected("not_meshed")
		return nil, fmt.Errorf("%s %s: %w", op, bc, ErrChunkNotMeshed)
	case !changed:
		return nil, nil
	}

	chunks := w.refreshAround(bc)
	for _, cc := range chunks {
		w.notifyRender(ChunkEvent{Chunk: cc, Visible: true})
	}

	w.metrics.BlockEdit(op)
	w.logger.Debug("%s %s: обновлено чанков %d", op, bc, len(chunks))
	w.publishBlockEdit(bc, op, len(chunks))
	return chunks, nil
}

// refreshAround пересчитывает грани изменённой позиции и её соседей (до 7 позиций)
// и возвращает без повторов чанки, в которых грани изменились
func (w *World) refreshAround(bc vec.BlockCoords) []vec.ChunkCoords {
	positions := make([]vec.BlockCoords, 0, 7)
	positions = append(positions, bc)
	for _, d := range vec.AllDirections {
		if n, ok := bc.Step(d); ok {
			positions = append(positions, n)
		}
	}

	var chunks []vec.ChunkCoords
	for _, p := range positions {
		if !w.refreshBlockFaces(p) {
			continue
		}
		dup := false
		for _, cc := range chunks {
			if cc == p.Chunk {
				dup = true
				break
			}
		}
		if !dup {
			chunks = append(chunks, p.Chunk)
		}
	}
	return chunks
}

// refreshBlockFaces приводит множество граней позиции bc в соответствие с
// занятостью соседей. true, если хотя бы одна грань добавлена или удалена.
// Чанки вне стадии meshed пропускаются: их грани будут вычислены при переходе.
func (w *World) refreshBlockFaces(bc vec.BlockCoords) bool {
	// Видимость считается до взятия блокировки чанка bc, чтобы не держать
	// две блокировки чанков одновременно
	var exposed [6]bool
	for _, d := range vec.AllDirections {
		exposed[d] = w.faceExposed(bc, d, nil)
	}

	changed := false
	w.store.Mutate(bc.Chunk, func(st ChunkState) {
		m, ok := st.(*MeshedChunk)
		if !ok {
			return
		}
		b, occupied := m.Blocks[bc.Index]
		for _, d := range vec.AllDirections {
			key := FaceKey{Index: bc.Index, Dir: d}
			cur, present := m.Faces[key]
			switch want := occupied && exposed[d]; {
			case want && (!present || cur != b):
				m.Faces[key] = b
				changed = true
			case !want && present:
				delete(m.Faces, key)
				changed = true
			}
		}
	})
	return changed
}
