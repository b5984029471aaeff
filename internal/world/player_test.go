package world

import (
	"sync"
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// walkingWorld - пол высотой 1 и стена x=2 (y=1..3) в чанке (0,0)
func walkingWorld(t *testing.T) *World {
	t.Helper()
	w := newTestWorld(t, GeneratorFunc(func(cc vec.ChunkCoords) BlockMap {
		blocks := FlatGenerator{Height: 1, Material: block.Stone}.Generate(cc)
		if cc == (vec.ChunkCoords{}) {
			for y := int32(1); y <= 3; y++ {
				for z := int32(0); z < vec.ChunkSize; z++ {
					blocks[vec.MustLocalToIndex(2, y, z)] = block.Brick
				}
			}
		}
		return blocks
	}))
	w.RequestChunkStage(vec.ChunkCoords{}, StageLoaded)
	w.PushPlayer(Player{Position: mgl32.Vec3{0.5, 3.1, 0.5}, ActiveMaterial: block.Brick})
	return w
}

func feet(p Player) float32 {
	return p.HitBox().Min().Y()
}

func TestPlayerFallsAndLands(t *testing.T) {
	w := walkingWorld(t)

	var p Player
	for i := 0; i < 60; i++ {
		p = w.StepPlayer(MoveIntent{})
	}

	assert.InDelta(t, 1.0, feet(p), 1e-3)
	assert.True(t, p.OnGround)
	assert.InDelta(t, 0.5, p.Position.X(), 1e-6)
}

func TestPlayerJumps(t *testing.T) {
	w := walkingWorld(t)
	for i := 0; i < 60; i++ {
		w.StepPlayer(MoveIntent{})
	}
	ground := feet(w.PullPlayer())

	// Прыжок возможен только с земли
	p := w.StepPlayer(MoveIntent{Ascend: true})
	assert.False(t, p.OnGround)
	assert.Greater(t, feet(p), ground)

	peak := feet(p)
	for i := 0; i < 10; i++ {
		p = w.StepPlayer(MoveIntent{Ascend: true})
		if feet(p) > peak {
			peak = feet(p)
		}
	}
	assert.Greater(t, peak, ground+0.5)

	for i := 0; i < 60; i++ {
		p = w.StepPlayer(MoveIntent{})
	}
	assert.InDelta(t, ground, feet(p), 1e-3)
}

func TestPlayerStopsAtWall(t *testing.T) {
	w := walkingWorld(t)

	var p Player
	for i := 0; i < 100; i++ {
		p = w.StepPlayer(MoveIntent{Direction: mgl32.Vec3{1, 0, 0}})
	}

	// Правая грань коробки упирается в плоскость x=2
	assert.InDelta(t, 2.0, p.HitBox().Max().X(), 1e-3)
	assert.InDelta(t, 1.0, feet(p), 1e-3)
}

func TestPlayerWalksAlongWall(t *testing.T) {
	w := walkingWorld(t)

	var p Player
	for i := 0; i < 40; i++ {
		p = w.StepPlayer(MoveIntent{Direction: mgl32.Vec3{1, 0, 1}, Sprint: true})
	}

	// X заблокирован стеной, Z продолжает расти
	assert.LessOrEqual(t, p.HitBox().Max().X(), float32(2.001))
	assert.Greater(t, p.Position.Z(), float32(2))
}

func TestPlayerFlyIgnoresCollisions(t *testing.T) {
	w := walkingWorld(t)
	w.SetFlight(true)

	p := w.StepPlayer(MoveIntent{Direction: mgl32.Vec3{1, 0, 0}, Ascend: true})
	assert.InDelta(t, 1.5, p.Position.X(), 1e-6)
	assert.InDelta(t, 4.1, p.Position.Y(), 1e-5)

	p = w.StepPlayer(MoveIntent{Direction: mgl32.Vec3{1, 0, 0}})
	// Внутри стены: в полёте столкновения не проверяются
	assert.InDelta(t, 2.5, p.Position.X(), 1e-6)

	p = w.StepPlayer(MoveIntent{Descend: true})
	assert.InDelta(t, 3.1, p.Position.Y(), 1e-5)
}

func TestPlayerConcurrentAccess(t *testing.T) {
	w := walkingWorld(t)
	var wg sync.WaitGroup

	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				w.StepPlayer(MoveIntent{Direction: mgl32.Vec3{0, 0, 1}})
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				p := w.PullPlayer()
				assert.False(t, p.Fly)
			}
		}()
	}
	wg.Wait()
}
