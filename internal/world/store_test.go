package world

import (
	"sync"
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkStoreInsertAndReplace(t *testing.T) {
	s := NewChunkStore()
	cc := vec.ChunkCoords{X: -3, Z: 7}

	assert.Equal(t, StageNone, s.Stage(cc))
	assert.False(t, s.View(cc, func(ChunkState) {}))

	blocks := BlockMap{vec.MustLocalToIndex(1, 2, 3): block.Dirt}
	require.True(t, s.InsertIfAbsent(cc, &LoadedChunk{Blocks: blocks}))
	assert.False(t, s.InsertIfAbsent(cc, &LoadedChunk{}))
	assert.Equal(t, StageLoaded, s.Stage(cc))
	assert.Equal(t, 1, s.Len())

	require.True(t, s.Replace(cc, func(st ChunkState) ChunkState {
		return &MeshedChunk{Blocks: st.BlockMap(), Faces: FaceMap{}}
	}))
	assert.Equal(t, StageMeshed, s.Stage(cc))
	assert.Equal(t, 1, s.Len())

	s.View(cc, func(st ChunkState) {
		assert.Equal(t, block.Dirt, st.BlockMap()[vec.MustLocalToIndex(1, 2, 3)])
	})
}

func TestChunkStoreConcurrentInsert(t *testing.T) {
	s := NewChunkStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := int32(-10); x < 10; x++ {
				for z := int32(-10); z < 10; z++ {
					if s.InsertIfAbsent(vec.ChunkCoords{X: x, Z: z}, &LoadedChunk{Blocks: BlockMap{}}) {
						mu.Lock()
						inserted++
						mu.Unlock()
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, inserted)
	assert.Equal(t, 400, s.Len())
	assert.Len(t, s.Keys(), 400)
	assert.Equal(t, map[ChunkStage]int{StageLoaded: 400}, s.CountByStage())
}

func TestChunkStoreReplaceNeverHidesKey(t *testing.T) {
	s := NewChunkStore()
	cc := vec.ChunkCoords{X: 1, Z: 1}
	require.True(t, s.InsertIfAbsent(cc, &LoadedChunk{Blocks: BlockMap{}}))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				assert.NotEqual(t, StageNone, s.Stage(cc))
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		s.Replace(cc, func(st ChunkState) ChunkState {
			if st.Stage() == StageLoaded {
				return &MeshedChunk{Blocks: st.BlockMap(), Faces: FaceMap{}}
			}
			return &LoadedChunk{Blocks: st.BlockMap()}
		})
	}
	close(done)
	wg.Wait()
}

func TestChunkStagePrevious(t *testing.T) {
	prev, ok := StageMeshed.Previous()
	assert.True(t, ok)
	assert.Equal(t, StageLoaded, prev)

	_, ok = StageNone.Previous()
	assert.False(t, ok)

	for _, s := range []ChunkStage{StageNone, StageLoaded, StageMeshed} {
		parsed, err := ParseChunkStage(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}
