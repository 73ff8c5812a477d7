package mapgen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTilesDeterministic(t *testing.T) {
	opts := DefaultHeightMapOptions()
	opts.Width, opts.Depth = 8, 6
	opts.Seed = 42

	a := GenerateTiles(opts)
	b := GenerateTiles(opts)
	require.Len(t, a, 48)
	assert.Equal(t, a, b)
}

func TestTilesStandOnOrigin(t *testing.T) {
	opts := DefaultHeightMapOptions()
	opts.Width, opts.Depth = 4, 4
	opts.TileSize = 6
	opts.HeightScale = 4
	opts.Origin = mgl32.Vec3{10, -9, -20}
	opts.Seed = 7

	tiles := GenerateTiles(opts)
	require.Len(t, tiles, 16)
	for _, tl := range tiles {
		bottom := tl.Center.Y() - tl.HalfExtents.Y()
		assert.InDelta(t, -9, bottom, 1e-4)
		assert.GreaterOrEqual(t, tl.HalfExtents.Y()*2, float32(minHeight)-1e-5)
		assert.LessOrEqual(t, tl.HalfExtents.Y()*2, float32(4)+1e-4)
		assert.Equal(t, float32(3), tl.HalfExtents.X())
	}
	assert.InDelta(t, 10-9, tiles[0].Center.X(), 1e-4, "grid centered on origin")
	assert.InDelta(t, -20-9, tiles[0].Center.Z(), 1e-4)
}

func TestHoleSkipsTiles(t *testing.T) {
	opts := DefaultHeightMapOptions()
	opts.Width, opts.Depth = 10, 10
	opts.TileSize = 2
	opts.Hole = mgl32.Vec2{4, 4}
	opts.Seed = 1

	tiles := GenerateTiles(opts)
	assert.Len(t, tiles, 100-16)
	for _, tl := range tiles {
		inside := tl.Center.X() > -4 && tl.Center.X() < 4 && tl.Center.Z() > -4 && tl.Center.Z() < 4
		assert.False(t, inside)
	}
}

func TestEmptyGrid(t *testing.T) {
	assert.Nil(t, GenerateTiles(HeightMapOptions{}))
}

func TestNoiseRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		v := fractalValueNoise2D(float32(i)*0.37, float32(i)*0.11, 99, 4, 2, 0.5)
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
	assert.Equal(t, float32(0), smoothStep(-1))
	assert.Equal(t, float32(1), smoothStep(2))
	assert.Equal(t, float32(0.5), smoothStep(0.5))
}
