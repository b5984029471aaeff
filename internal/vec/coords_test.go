package vec

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordsRoundTrip(t *testing.T) {
	// Широкий диапазон X/Z, включая отрицательные, и вся высота мира
	for x := int32(-70); x < 70; x += 3 {
		for z := int32(-70); z < 70; z += 5 {
			for y := int32(0); y < WorldHeight; y++ {
				p := Vec3{X: x, Y: y, Z: z}
				bc, err := TryGlobalToBlockCoords(p)
				require.NoError(t, err)
				assert.Equal(t, p, bc.Global(), "позиция %v должна восстанавливаться", p)
			}
		}
	}
}

func TestCoordsRoundTripFarAway(t *testing.T) {
	for _, p := range []Vec3{
		{X: 1 << 20, Y: 3, Z: -(1 << 20)},
		{X: -1, Y: 255, Z: -16},
		{X: -17, Y: 0, Z: 15},
	} {
		bc, err := TryGlobalToBlockCoords(p)
		require.NoError(t, err)
		assert.Equal(t, p, bc.Global())
	}
}

func TestGlobalToBlockCoordsNegative(t *testing.T) {
	bc, err := TryGlobalToBlockCoords(Vec3{X: -1, Y: 10, Z: -17})
	require.NoError(t, err)
	assert.Equal(t, ChunkCoords{X: -1, Z: -2}, bc.Chunk)
	assert.Equal(t, Vec3{X: 15, Y: 10, Z: 15}, bc.Index.Local())
}

func TestGlobalToBlockCoordsOutOfWorld(t *testing.T) {
	_, err := TryGlobalToBlockCoords(Vec3{X: 0, Y: -1, Z: 0})
	assert.ErrorIs(t, err, ErrOutOfWorld)

	_, err = TryGlobalToBlockCoords(Vec3{X: 0, Y: WorldHeight, Z: 0})
	assert.ErrorIs(t, err, ErrOutOfWorld)
}

func TestBlockIndexPacking(t *testing.T) {
	bi, err := TryLocalToIndex(3, 200, 7)
	require.NoError(t, err)
	assert.Equal(t, BlockIndex(3|7<<4|200<<8), bi)
	assert.Equal(t, Vec3{X: 3, Y: 200, Z: 7}, bi.Local())

	// Все 65536 индексов взаимно однозначны с локальными координатами
	for i := 0; i < BlockIndexCount; i++ {
		local := BlockIndex(i).Local()
		back, err := TryLocalToIndex(local.X, local.Y, local.Z)
		require.NoError(t, err)
		require.Equal(t, BlockIndex(i), back)
	}
}

func TestTryLocalToIndexOutOfChunk(t *testing.T) {
	cases := []Vec3{
		{X: 16, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 256, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 16},
	}
	for _, c := range cases {
		_, err := TryLocalToIndex(c.X, c.Y, c.Z)
		assert.ErrorIs(t, err, ErrOutOfChunk, "координаты %v вне чанка", c)
	}
}

func TestStep(t *testing.T) {
	bc, err := TryGlobalToBlockCoords(Vec3{X: 15, Y: 0, Z: 0})
	require.NoError(t, err)

	east, ok := bc.Step(East)
	require.True(t, ok)
	assert.Equal(t, ChunkCoords{X: 1, Z: 0}, east.Chunk)
	assert.Equal(t, Vec3{X: 16, Y: 0, Z: 0}, east.Global())

	_, ok = bc.Step(Down)
	assert.False(t, ok, "ниже y=0 мира нет")

	top, err := TryGlobalToBlockCoords(Vec3{X: 0, Y: 255, Z: 0})
	require.NoError(t, err)
	_, ok = top.Step(Up)
	assert.False(t, ok, "выше y=255 мира нет")
}

func TestBlockCoordsFromPosition(t *testing.T) {
	bc, err := BlockCoordsFromPosition(mgl32.Vec3{-0.5, 10.99, 16.01})
	require.NoError(t, err)
	assert.Equal(t, Vec3{X: -1, Y: 10, Z: 16}, bc.Global())

	_, err = BlockCoordsFromPosition(mgl32.Vec3{0, -0.01, 0})
	assert.ErrorIs(t, err, ErrOutOfWorld)
}

func TestChunkNeighbors(t *testing.T) {
	c := ChunkCoords{X: 2, Z: -3}
	neighbors := c.Neighbors()
	assert.ElementsMatch(t, []ChunkCoords{
		{X: 2, Z: -4},
		{X: 2, Z: -2},
		{X: 3, Z: -3},
		{X: 1, Z: -3},
	}, neighbors[:])
}

func TestChunkInRange(t *testing.T) {
	center := ChunkCoords{X: 0, Z: 0}
	assert.True(t, center.InRange(ChunkCoords{X: 3, Z: 4}, 5))
	assert.False(t, center.InRange(ChunkCoords{X: 4, Z: 4}, 5))
	assert.True(t, center.InRange(center, 0))
}

func TestChunkDistanceFarApart(t *testing.T) {
	a := ChunkCoords{X: 1<<30 + 5, Z: 7}
	b := ChunkCoords{X: -(1 << 30), Z: 7}
	d := int64(1<<31 + 5)

	assert.Equal(t, d*d, a.DistanceSq(b))
	assert.Equal(t, a.DistanceSq(b), b.DistanceSq(a))
	assert.False(t, a.InRange(b, 16))
	assert.True(t, a.InRange(ChunkCoords{X: 1<<30 + 5, Z: 7 + 16}, 16))
}

func TestChunkRange(t *testing.T) {
	chunks := ChunkCoords{X: 1, Z: 1}.Range(1)
	assert.Len(t, chunks, 9)
	assert.Equal(t, ChunkCoords{X: 0, Z: 0}, chunks[0])
	assert.Equal(t, ChunkCoords{X: 2, Z: 2}, chunks[8])
	assert.Nil(t, ChunkCoords{}.Range(-1))
}

func TestChunkCoordsFromPosition(t *testing.T) {
	assert.Equal(t, ChunkCoords{X: -1, Z: 1}, ChunkCoordsFromPosition(mgl32.Vec3{-0.1, 500, 16}))
	assert.Equal(t, ChunkCoords{X: 0, Z: 0}, ChunkCoordsFromPosition(mgl32.Vec3{15.9, 0, 0}))
}
