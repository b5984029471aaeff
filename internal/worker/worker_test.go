package worker

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logging.Logger {
	return logging.NewWriterLogger("test", &bytes.Buffer{}, logging.ERROR)
}

func newFlatWorld(t *testing.T, spawn mgl32.Vec3) *world.World {
	t.Helper()
	opts := world.DefaultOptions()
	opts.Logger = quietLogger()
	opts.Spawn = spawn
	opts.Fly = false
	return world.NewWorld(world.FlatGenerator{Height: 1, Material: block.Stone}, opts)
}

func drain(w *world.World) []world.ChunkEvent {
	var events []world.ChunkEvent
	for {
		select {
		case ev := <-w.RenderEvents():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func blockAt(t *testing.T, w *world.World, x, y, z int32) (block.Block, bool) {
	t.Helper()
	bc, err := vec.TryGlobalToBlockCoords(vec.Vec3{X: x, Y: y, Z: z})
	require.NoError(t, err)
	b, ok, _ := w.GetBlock(bc)
	return b, ok
}

func TestPhysicsBreakAndPlace(t *testing.T) {
	w := newFlatWorld(t, mgl32.Vec3{0.5, 2.6, 0.5})
	w.RequestChunkStage(vec.ChunkCoords{}, world.StageMeshed)

	var next InputState
	p := NewPhysics(w, InputFunc(func() InputState { return next }), PhysicsConfig{})
	p.SetLogger(quietLogger())

	// Взгляд вперёд-вниз по Z: первый твёрдый блок на луче - (0,0,2)
	next = InputState{Look: mgl32.Vec3{0, -1, 1}, Break: true}
	p.Step()
	_, ok := blockAt(t, w, 0, 0, 2)
	assert.False(t, ok)
	_, ok = blockAt(t, w, 0, 0, 0)
	assert.True(t, ok)

	next = InputState{Material: block.Glass}
	p.Step()
	assert.Equal(t, block.Glass, w.PullPlayer().ActiveMaterial)

	// Взгляд вперёд-вниз по X: луч входит в (2,0,0) через верхнюю грань
	next = InputState{Look: mgl32.Vec3{1, -1, 0}, Place: true}
	p.Step()
	b, ok := blockAt(t, w, 2, 1, 0)
	require.True(t, ok, "блок должен появиться над (2,0,0)")
	assert.Equal(t, block.Glass, b)

	next = InputState{ToggleFly: true}
	p.Step()
	assert.True(t, w.PullPlayer().Fly)
	assert.Equal(t, uint64(4), p.Ticks())
}

func TestLoaderSyncLoadsAndRetires(t *testing.T) {
	w := newFlatWorld(t, mgl32.Vec3{8, 5, 8})
	w.SetFlight(true)
	l := NewChunkLoader(w, LoaderConfig{PopIn: 1, PopOut: 2})
	l.SetLogger(quietLogger())

	require.NoError(t, l.Sync(context.Background()))
	events := drain(w)
	require.Len(t, events, 5)
	assert.Equal(t, world.ChunkEvent{Chunk: vec.ChunkCoords{}, Visible: true}, events[0])
	for _, ev := range events {
		assert.True(t, ev.Visible)
		assert.Equal(t, world.StageMeshed, w.GetChunkStage(ev.Chunk))
	}
	assert.Equal(t, 5, l.Visible())

	// Повторный проход без движения ничего не делает
	require.NoError(t, l.Sync(context.Background()))
	assert.Empty(t, drain(w))

	w.UpdatePlayer(func(p *world.Player) { p.Position = mgl32.Vec3{100, 5, 8} })
	require.NoError(t, l.Sync(context.Background()))
	events = drain(w)
	require.Len(t, events, 10)
	hidden := 0
	for _, ev := range events[:5] {
		assert.False(t, ev.Visible)
		hidden++
	}
	assert.Equal(t, 5, hidden)
	assert.Equal(t, world.ChunkEvent{Chunk: vec.ChunkCoords{X: 6}, Visible: true}, events[5])
}

func TestLoaderRunStopsOnCancel(t *testing.T) {
	w := newFlatWorld(t, mgl32.Vec3{8, 5, 8})
	l := NewChunkLoader(w, LoaderConfig{PopIn: 0, PopOut: 0, Interval: time.Millisecond})
	l.SetLogger(quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool {
		return w.GetChunkStage(vec.ChunkCoords{}) == world.StageMeshed
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("загрузчик не остановился")
	}
}

func TestMeshBuilderFlatFloor(t *testing.T) {
	w := newFlatWorld(t, mgl32.Vec3{8, 5, 8})
	w.RequestChunkStage(vec.ChunkCoords{}, world.StageMeshed)
	faces, ok := w.ChunkFaces(vec.ChunkCoords{})
	require.True(t, ok)

	mesh := NewMeshBuilder().Build(vec.ChunkCoords{}, faces)
	assert.Equal(t, 256, mesh.Faces())
	assert.Len(t, mesh.Vertices, 256*4)
	assert.Len(t, mesh.Indices, 256*6)
	for _, v := range mesh.Vertices {
		assert.Equal(t, float32(1), v.Light)
		assert.Equal(t, float32(1), v.Position.Y())
	}
}

func TestPresentationFrame(t *testing.T) {
	w := newFlatWorld(t, mgl32.Vec3{8, 5, 8})
	w.SetFlight(true)
	l := NewChunkLoader(w, LoaderConfig{PopIn: 1, PopOut: 2})
	l.SetLogger(quietLogger())
	p := NewPresentation(w, PresentationConfig{RetireRadius: 3})
	p.SetLogger(quietLogger())

	require.NoError(t, l.Sync(context.Background()))
	p.Frame()

	stats := p.Stats()
	assert.Equal(t, 5, stats.Chunks)
	assert.Equal(t, 5*256, stats.Faces)

	// Изменение блока перестраивает сетку чанка
	bc, err := vec.TryGlobalToBlockCoords(vec.Vec3{X: 3, Y: 1, Z: 3})
	require.NoError(t, err)
	_, err = w.PlaceBlock(bc, block.Sand)
	require.NoError(t, err)
	p.Frame()
	mesh, ok := p.Mesh(vec.ChunkCoords{})
	require.True(t, ok)
	assert.Equal(t, 260, mesh.Faces())

	// Уход игрока освобождает дальние сетки даже без уведомлений
	w.UpdatePlayer(func(pl *world.Player) { pl.Position = mgl32.Vec3{200, 5, 8} })
	p.Frame()
	assert.Equal(t, 0, p.Stats().Chunks)
}

func TestPresentationKeepsMeshesVisibleToLoader(t *testing.T) {
	w := newFlatWorld(t, mgl32.Vec3{8, 5, 8})
	w.SetFlight(true)
	l := NewChunkLoader(w, LoaderConfig{PopIn: 1, PopOut: 2})
	l.SetLogger(quietLogger())
	p := NewPresentation(w, PresentationConfig{RetireRadius: 2})
	p.SetLogger(quietLogger())

	moveTo := func(x float32) {
		w.UpdatePlayer(func(pl *world.Player) { pl.Position = mgl32.Vec3{x, 5, 8} })
		require.NoError(t, l.Sync(context.Background()))
		p.Frame()
	}

	moveTo(8)
	moveTo(-8)
	// Чанк (1,0) на расстоянии ровно PopOut остаётся видимым для загрузчика
	_, ok := p.Mesh(vec.ChunkCoords{X: 1})
	assert.True(t, ok)

	moveTo(8)
	_, ok = p.Mesh(vec.ChunkCoords{X: 1})
	assert.True(t, ok)
	assert.Equal(t, 8, l.Visible())
	assert.Equal(t, l.Visible(), p.Stats().Chunks)
}
