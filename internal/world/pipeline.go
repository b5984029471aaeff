package world

import (
	"fmt"
	"strconv"

	"github.com/annel0/voxel-world/internal/vec"
)

// RequestChunkStage доводит чанк до стадии target.
// Сначала сам чанк и четыре его соседа доводятся до предыдущей стадии,
// затем выполняется один локальный переход. Повторный вызов ничего не делает.
// Блокирует вызывающего до завершения перехода.
func (w *World) RequestChunkStage(cc vec.ChunkCoords, target ChunkStage) {
	if w.store.Stage(cc) >= target {
		return
	}

	prev, ok := target.Previous()
	if !ok {
		return
	}
	if prev > StageNone {
		w.RequestChunkStage(cc, prev)
		for _, n := range cc.Neighbors() {
			w.RequestChunkStage(n, prev)
		}
	}

	w.transition(cc, target)
}

func flightKey(cc vec.ChunkCoords, target ChunkStage) string {
	return strconv.Itoa(int(cc.X)) + ":" + strconv.Itoa(int(cc.Z)) + ":" + strconv.Itoa(int(target))
}

// transition выполняет переход в target ровно один раз: конкурентные запросы
// одного перехода ждут общего результата, а стадия перепроверяется внутри.
func (w *World) transition(cc vec.ChunkCoords, target ChunkStage) {
	_, _, _ = w.flights.Do(flightKey(cc, target), func() (interface{}, error) {
		if w.store.Stage(cc) >= target {
			return nil, nil
		}
		switch target {
		case StageLoaded:
			w.loadChunk(cc)
		case StageMeshed:
			w.meshChunk(cc)
		default:
			panic(fmt.Sprintf("world: неизвестная стадия %s для чанка %s", target, cc))
		}
		return nil, nil
	})
}

// loadChunk: None -> Loaded
func (w *World) loadChunk(cc vec.ChunkCoords) {
	blocks := w.generator.Generate(cc)
	if blocks == nil {
		blocks = make(BlockMap)
	}
	if !w.store.InsertIfAbsent(cc, &LoadedChunk{Blocks: blocks}) {
		return
	}

	w.loaded.Inc()
	w.metrics.ChunkGenerated()
	w.reportStages()
	w.logger.Trace("чанк %s загружен: %d блоков", cc, len(blocks))
	w.publishChunkStage(cc, StageLoaded)
}

// meshChunk: Loaded -> Meshed. Вызывается только когда чанк и его соседи загружены.
func (w *World) meshChunk(cc vec.ChunkCoords) {
	var blocks BlockMap
	w.store.View(cc, func(st ChunkState) {
		if loaded, ok := st.(*LoadedChunk); ok {
			blocks = loaded.Blocks
		}
	})
	if blocks == nil {
		panic(fmt.Sprintf("world: построение граней чанка %s не в стадии loaded", cc))
	}

	// Блоки загруженного чанка не изменяются до перехода в meshed,
	// поэтому карта читается без блокировки
	faces := make(FaceMap, len(blocks)/4)
	for idx, b := range blocks {
		bc := vec.BlockCoords{Chunk: cc, Index: idx}
		for _, d := range vec.AllDirections {
			if w.faceExposed(bc, d, blocks) {
				faces[FaceKey{Index: idx, Dir: d}] = b
			}
		}
	}

	w.store.Replace(cc, func(st ChunkState) ChunkState {
		loaded, ok := st.(*LoadedChunk)
		if !ok {
			panic(fmt.Sprintf("world: чанк %s сменил стадию во время построения граней", cc))
		}
		return &MeshedChunk{Blocks: loaded.Blocks, Faces: faces}
	})

	w.loaded.Dec()
	w.meshed.Inc()

	// Правки соседей, сделанные пока чанк был в стадии loaded, не обновляли его грани
	if n := w.refreshBorder(cc); n > 0 {
		w.logger.Debug("чанк %s: после построения обновлено %d граничных блоков", cc, n)
	}

	w.metrics.ChunkMeshed()
	w.reportStages()
	w.logger.Trace("чанк %s: %d видимых граней", cc, len(faces))
	w.publishChunkStage(cc, StageMeshed)
}

// refreshBorder пересчитывает грани блоков чанка cc, соседствующих с чанками
// в стадии meshed, и возвращает число блоков, грани которых изменились
func (w *World) refreshBorder(cc vec.ChunkCoords) int {
	meshedSide := make(map[vec.ChunkCoords]bool, 4)
	for _, n := range cc.Neighbors() {
		meshedSide[n] = w.store.Stage(n) == StageMeshed
	}

	var border []vec.BlockCoords
	w.store.View(cc, func(st ChunkState) {
		for idx := range st.BlockMap() {
			bc := vec.BlockCoords{Chunk: cc, Index: idx}
			for _, d := range vec.CardinalDirections {
				if n, ok := bc.Step(d); ok && meshedSide[n.Chunk] {
					border = append(border, bc)
					break
				}
			}
		}
	})

	changed := 0
	for _, bc := range border {
		if w.refreshBlockFaces(bc) {
			changed++
		}
	}
	return changed
}

// faceExposed сообщает, видна ли грань d блока bc: соседняя позиция существует,
// её чанк загружен и она пуста. own - блоки чанка bc, если они уже известны
// вызывающему (тогда соседи внутри чанка читаются без блокировки).
func (w *World) faceExposed(bc vec.BlockCoords, d vec.Direction, own BlockMap) bool {
	n, ok := bc.Step(d)
	if !ok {
		return false
	}
	if own != nil && n.Chunk == bc.Chunk {
		_, occupied := own[n.Index]
		return !occupied
	}
	_, occupied, loaded := w.GetBlock(n)
	return loaded && !occupied
}
