package world

import (
	"encoding/binary"
	"sync"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/atomic"
)

const storeShards = 64

// chunkEntry хранит текущее состояние одного чанка под собственной блокировкой
type chunkEntry struct {
	mu    sync.RWMutex
	state ChunkState
}

type storeShard struct {
	mu     sync.RWMutex
	chunks map[vec.ChunkCoords]*chunkEntry
}

// ChunkStore - конкурентная карта координат чанка в его состояние.
// Блокировка шарда держится только на время поиска/вставки записи,
// поэтому разные чанки изменяются параллельно. Записи никогда не удаляются.
type ChunkStore struct {
	shards [storeShards]storeShard
	size   atomic.Int64
}

// NewChunkStore создаёт пустое хранилище
func NewChunkStore() *ChunkStore {
	s := &ChunkStore{}
	for i := range s.shards {
		s.shards[i].chunks = make(map[vec.ChunkCoords]*chunkEntry)
	}
	return s
}

func (s *ChunkStore) shard(cc vec.ChunkCoords) *storeShard {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(cc.X))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(cc.Z))
	return &s.shards[xxhash.Sum64(buf[:])%storeShards]
}

func (s *ChunkStore) entry(cc vec.ChunkCoords) *chunkEntry {
	sh := s.shard(cc)
	sh.mu.RLock()
	e := sh.chunks[cc]
	sh.mu.RUnlock()
	return e
}

// Stage возвращает текущую стадию чанка (StageNone, если его нет)
func (s *ChunkStore) Stage(cc vec.ChunkCoords) ChunkStage {
	e := s.entry(cc)
	if e == nil {
		return StageNone
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Stage()
}

// View вызывает fn под разделяемой блокировкой чанка.
// false, если чанка нет. fn не должна сохранять ссылки на карты состояния.
func (s *ChunkStore) View(cc vec.ChunkCoords, fn func(ChunkState)) bool {
	e := s.entry(cc)
	if e == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.state)
	return true
}

// Mutate вызывает fn под исключительной блокировкой чанка для изменения на месте.
// false, если чанка нет.
func (s *ChunkStore) Mutate(cc vec.ChunkCoords, fn func(ChunkState)) bool {
	e := s.entry(cc)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
	return true
}

// Replace атомарно заменяет состояние чанка результатом fn.
// Ключ не удаляется, так что наблюдатель никогда не видит чанк отсутствующим.
func (s *ChunkStore) Replace(cc vec.ChunkCoords, fn func(ChunkState) ChunkState) bool {
	e := s.entry(cc)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if next := fn(e.state); next != nil {
		e.state = next
	}
	return true
}

// InsertIfAbsent добавляет чанк, если его ещё нет. true, если вставка произошла.
func (s *ChunkStore) InsertIfAbsent(cc vec.ChunkCoords, state ChunkState) bool {
	sh := s.shard(cc)

	sh.mu.RLock()
	_, exists := sh.chunks[cc]
	sh.mu.RUnlock()
	if exists {
		return false
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	// Проверяем еще раз под write lock
	if _, exists := sh.chunks[cc]; exists {
		return false
	}
	sh.chunks[cc] = &chunkEntry{state: state}
	s.size.Inc()
	return true
}

// Len возвращает количество чанков
func (s *ChunkStore) Len() int {
	return int(s.size.Load())
}

// Keys возвращает координаты всех чанков (снимок без порядка)
func (s *ChunkStore) Keys() []vec.ChunkCoords {
	keys := make([]vec.ChunkCoords, 0, s.Len())
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for cc := range sh.chunks {
			keys = append(keys, cc)
		}
		sh.mu.RUnlock()
	}
	return keys
}

// CountByStage возвращает количество чанков на каждой стадии
func (s *ChunkStore) CountByStage() map[ChunkStage]int {
	counts := make(map[ChunkStage]int, 3)
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		entries := make([]*chunkEntry, 0, len(sh.chunks))
		for _, e := range sh.chunks {
			entries = append(entries, e)
		}
		sh.mu.RUnlock()

		for _, e := range entries {
			e.mu.RLock()
			counts[e.state.Stage()]++
			e.mu.RUnlock()
		}
	}
	return counts
}
