package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stereo-sample/internal/mathutil"
)

var red = [3]float64{1, 0, 0}

func quad(x0, y0, x1, y1, z float64, c [3]float64) [2][3]Vertex {
	a := Vertex{X: x0, Y: y0, Z: z, Color: c}
	b := Vertex{X: x1, Y: y0, Z: z, Color: c}
	d := Vertex{X: x1, Y: y1, Z: z, Color: c}
	e := Vertex{X: x0, Y: y1, Z: z, Color: c}
	return [2][3]Vertex{{a, b, d}, {a, d, e}}
}

func fill(t Target, q [2][3]Vertex) {
	for _, tri := range q {
		RasterizeTriangle(t, tri[0], tri[1], tri[2])
	}
}

func TestClearOverwritesEverything(t *testing.T) {
	fb := NewFrameBuffer(7, 3)
	assert.Equal(t, 1.0, fb.DepthAt(6, 2))

	fb.Color[5] = 99
	fb.Depth[4] = 0.2
	fb.Clear(RGBA{0, 0.2, 0.5, 1}, 1)

	want := [4]uint8{0, 51, 128, 255}
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			require.Equal(t, want, fb.PixelAt(x, y), "(%d,%d)", x, y)
			require.Equal(t, 1.0, fb.DepthAt(x, y))
		}
	}
}

func TestImageSharesStorage(t *testing.T) {
	fb := NewFrameBuffer(4, 2)
	img := fb.Image()
	fb.ClearColor(RGBA{1, 0, 0, 1})
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(3, 1))
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}

func TestViewportToScreen(t *testing.T) {
	vp := Viewport{X: 100, Width: 100, Height: 50, MaxDepth: 1}
	x, y, z := vp.ToScreen(mathutil.Vec3{-1, 1, 0.25})
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 0.0, y)
	assert.Equal(t, 0.25, z)

	x, y, _ = vp.ToScreen(mathutil.Vec3{1, -1, 0})
	assert.Equal(t, 200.0, x)
	assert.Equal(t, 50.0, y)
}

func TestRasterizeClipsToViewport(t *testing.T) {
	fb := NewFrameBuffer(20, 10)
	right := Target{FB: fb, Viewport: Viewport{X: 10, Width: 10, Height: 10, MaxDepth: 1}}

	// A quad spanning the whole surface only lands in the right half.
	fill(right, quad(-5, -5, 25, 15, 0.5, red))

	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			px := fb.PixelAt(x, y)
			if x < 10 {
				require.Equal(t, [4]uint8{}, px, "left half touched at (%d,%d)", x, y)
			} else {
				require.Equal(t, [4]uint8{255, 0, 0, 255}, px, "right half missed at (%d,%d)", x, y)
			}
		}
	}
}

func TestRasterizeDepthTest(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	tgt := NewTarget(fb)

	fill(tgt, quad(0, 0, 8, 8, 0.5, [3]float64{0, 0, 1}))
	// Farther quad loses, nearer one wins.
	fill(tgt, quad(0, 0, 8, 8, 0.7, red))
	assert.Equal(t, [4]uint8{0, 0, 255, 255}, fb.PixelAt(4, 4))
	fill(tgt, quad(0, 0, 8, 8, 0.3, red))
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, fb.PixelAt(4, 4))
	assert.InDelta(t, 0.3, fb.DepthAt(4, 4), 1e-12)
}

func TestRasterizeInterpolatesColor(t *testing.T) {
	fb := NewFrameBuffer(100, 1)
	tgt := NewTarget(fb)
	a := Vertex{X: 0, Y: -1, Z: 0.5, Color: [3]float64{0, 0, 0}}
	b := Vertex{X: 100, Y: -1, Z: 0.5, Color: [3]float64{1, 1, 1}}
	c := Vertex{X: 100, Y: 3, Z: 0.5, Color: [3]float64{1, 1, 1}}
	d := Vertex{X: 0, Y: 3, Z: 0.5, Color: [3]float64{0, 0, 0}}
	RasterizeTriangle(tgt, a, b, c)
	RasterizeTriangle(tgt, a, c, d)

	left := fb.PixelAt(0, 0)
	right := fb.PixelAt(99, 0)
	assert.Less(t, left[0], uint8(10))
	assert.Greater(t, right[0], uint8(245))
}

func TestRasterizeDegenerate(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	v := Vertex{X: 1, Y: 1, Z: 0.5}
	assert.False(t, RasterizeTriangle(NewTarget(fb), v, v, v))
}

func TestSampleTextureClampsAndFilters(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 0, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{R: 200, A: 255})

	r, _, _, a := SampleTexture(tex, 0, 0.5)
	assert.Equal(t, uint8(0), r)
	assert.Equal(t, uint8(255), a)
	r, _, _, _ = SampleTexture(tex, 1, 0.5)
	assert.Equal(t, uint8(200), r)
	r, _, _, _ = SampleTexture(tex, 0.5, 0.5)
	assert.Equal(t, uint8(100), r)
	// Out-of-range coordinates clamp to the edge texel.
	r, _, _, _ = SampleTexture(tex, 3, -2)
	assert.Equal(t, uint8(200), r)
}
