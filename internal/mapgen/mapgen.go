// Package mapgen generates height map terrain as columns of static rigid bodies.
package mapgen

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/physics"
	"meshworld/internal/primitives"
	"meshworld/internal/rigidbody"
	"meshworld/internal/scene"
)

// minHeight keeps every column visible and collidable.
const minHeight = 0.15

// HeightMapOptions controls procedural height map generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// HeightScale is the maximum height of the terrain in world units.
// Seed controls randomness; Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
type HeightMapOptions struct {
	Width       int
	Depth       int
	TileSize    float32
	HeightScale float32

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultHeightMapOptions returns a small 16x16 terrain.
func DefaultHeightMapOptions() HeightMapOptions {
	return HeightMapOptions{
		Width:       16,
		Depth:       16,
		TileSize:    1.0,
		HeightScale: 3.0,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

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

// Column is one terrain tile in scene axes (Y-up): a box centered at Center with its bottom on
// Y=0.
type Column struct {
	Center rl.Vector3
	Size   rl.Vector3
}

// GenerateColumns builds a height map of Width x Depth columns centered on the origin, row by
// row along X. Heights come from fractal value noise mapped into [minHeight, HeightScale].
func GenerateColumns(opts HeightMapOptions) []Column {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil
	}
	opts.normalize()

	halfTile := opts.TileSize * 0.5
	startX := -float32(opts.Width)*halfTile + halfTile
	startZ := -float32(opts.Depth)*halfTile + halfTile

	cols := make([]Column, 0, opts.Width*opts.Depth)
	for z := 0; z < opts.Depth; z++ {
		for x := 0; x < opts.Width; x++ {
			h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			height := minHeight + h*(opts.HeightScale-minHeight)
			if math32.IsNaN(height) || math32.IsInf(height, 0) || height <= 0 {
				height = minHeight
			}
			cols = append(cols, Column{
				Center: rl.NewVector3(startX+float32(x)*opts.TileSize, height*0.5, startZ+float32(z)*opts.TileSize),
				Size:   rl.NewVector3(opts.TileSize, height, opts.TileSize),
			})
		}
	}
	return cols
}

// RigidBody returns a static rigid body for the column: a box mesh with material m and a
// massless physics box at the same place in physics axes.
func (c Column) RigidBody(reg *primitives.Registry, m *primitives.Material) (*rigidbody.RigidBody, error) {
	g, err := reg.NewGeometry(primitives.BoxGeometry.String(), []float64{float64(c.Size.X), float64(c.Size.Y), float64(c.Size.Z)})
	if err != nil {
		return nil, fmt.Errorf("mapgen: %w", err)
	}
	obj := scene.NewObject(g, m)
	obj.Position = c.Center
	body := physics.NewBody(
		rl.NewVector3(c.Center.X, c.Center.Z, c.Center.Y),
		rl.NewVector3(c.Size.X*0.5, c.Size.Z*0.5, c.Size.Y*0.5),
		0,
	)
	return rigidbody.New(obj, body)
}

// fractalValueNoise2D is layered smooth value noise with configurable octaves, lacunarity and
// gain. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, maxAmp float32
	amplitude := float32(1)
	freq := float32(1)
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] on a hashed integer lattice.
func valueNoise2D(x, y float32, seed int32) float32 {
	fx, fy := math32.Floor(x), math32.Floor(y)
	x0, y0 := int32(fx), int32(fy)
	sx := smoothStep(x - fx)
	sy := smoothStep(y - fy)

	ix0 := lerp(hash2D(x0, y0, seed), hash2D(x0+1, y0, seed), sx)
	ix1 := lerp(hash2D(x0, y0+1, seed), hash2D(x0+1, y0+1, seed), sx)
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

// smoothStep is cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
