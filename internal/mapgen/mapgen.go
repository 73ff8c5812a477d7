// Package mapgen generates the fractal value-noise terrain that surrounds the spawn pad.
package mapgen

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// HeightMapOptions controls procedural height map generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// HeightScale is the maximum height of a tile in world units.
// Seed controls randomness; Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
type HeightMapOptions struct {
	Width       int
	Depth       int
	TileSize    float32
	HeightScale float32
	// Origin is the center of the grid on XZ and the base height on Y.
	Origin mgl32.Vec3
	// Hole is a half-size on XZ around Origin left free of tiles. Zero means none.
	Hole mgl32.Vec2

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultHeightMapOptions returns a sane default configuration.
func DefaultHeightMapOptions() HeightMapOptions {
	return HeightMapOptions{
		Width:       32,
		Depth:       32,
		TileSize:    1.0,
		HeightScale: 3.0,
		Seed:        0,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

// Tile is one terrain column: an axis-aligned box standing on the grid base.
type Tile struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
	// Height is the raw noise sample in [0,1], used for shading.
	Height float32
}

// minHeight keeps every tile a visible slab.
const minHeight = 0.15

func (o *HeightMapOptions) normalize() {
	if o.TileSize <= 0 {
		o.TileSize = 1
	}
	if o.HeightScale <= minHeight {
		o.HeightScale = 1
	}
	if o.Octaves <= 0 {
		o.Octaves = 1
	}
	if o.Frequency <= 0 {
		o.Frequency = 0.05
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = 2.0
	}
	if o.Gain <= 0 {
		o.Gain = 0.5
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// GenerateTiles builds a height map as a grid of boxes whose bottoms sit on Origin.Y.
// The grid is centered on Origin in XZ; tiles whose center falls inside Hole are skipped.
func GenerateTiles(opts HeightMapOptions) []Tile {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil
	}
	opts.normalize()

	halfTile := opts.TileSize * 0.5
	startX := opts.Origin[0] - float32(opts.Width)*opts.TileSize*0.5 + halfTile
	startZ := opts.Origin[2] - float32(opts.Depth)*opts.TileSize*0.5 + halfTile

	tiles := make([]Tile, 0, opts.Width*opts.Depth)
	for z := 0; z < opts.Depth; z++ {
		for x := 0; x < opts.Width; x++ {
			worldX := startX + float32(x)*opts.TileSize
			worldZ := startZ + float32(z)*opts.TileSize
			if inHole(opts, worldX, worldZ) {
				continue
			}
			h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			height := minHeight + h*(opts.HeightScale-minHeight)
			if !isFinite(height) || height <= 0 {
				height = minHeight
			}
			tiles = append(tiles, Tile{
				Center:      mgl32.Vec3{worldX, opts.Origin[1] + height*0.5, worldZ},
				HalfExtents: mgl32.Vec3{halfTile, height * 0.5, halfTile},
				Height:      h,
			})
		}
	}
	return tiles
}

func inHole(opts HeightMapOptions, x, z float32) bool {
	if opts.Hole[0] <= 0 || opts.Hole[1] <= 0 {
		return false
	}
	return math32.Abs(x-opts.Origin[0]) < opts.Hole[0] && math32.Abs(z-opts.Origin[2]) < opts.Hole[1]
}

// fractalValueNoise2D is simple fractal value noise: layered smooth value noise with
// configurable octaves, lacunarity, and gain. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum float32
	var amplitude float32 = 1
	var maxAmp float32
	freq := float32(1)

	for i := 0; i < octaves; i++ {
		n := valueNoise2D(x*freq, y*freq, int32(seed)+int32(i))
		sum += n * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] using a hash-based lattice.
func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math32.Floor(x))
	y0 := int32(math32.Floor(y))
	tx := x - float32(x0)
	ty := y - float32(y0)

	v00 := hash2D(x0, y0, seed)
	v10 := hash2D(x0+1, y0, seed)
	v01 := hash2D(x0, y0+1, seed)
	v11 := hash2D(x0+1, y0+1, seed)

	sx := smoothStep(tx)
	sy := smoothStep(ty)

	ix0 := lerp(v00, v10, sx)
	ix1 := lerp(v01, v11, sx)
	return lerp(ix0, ix1, sy)
}

// hash2D maps integer lattice coordinates to a deterministic pseudo-random float in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * float32(invMaxInt)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is Perlin-style cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
