package display

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stereo-sample/internal/mathutil"
	"stereo-sample/internal/raster"
)

func newTestDisplay(t *testing.T) *Simulated {
	t.Helper()
	d, err := NewSimulated(SimulatedOptions{ViewWidth: 8, ViewHeight: 4, Views: 2, Convergence: 400, Baseline: 60})
	require.NoError(t, err)
	return d
}

// sideBySide builds a w×h picture whose left half is red and right half blue.
func sideBySide(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, w/2, h), image.NewUniform(color.NRGBA{R: 255, A: 255}), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w/2, 0, w, h), image.NewUniform(color.NRGBA{B: 255, A: 255}), image.Point{}, draw.Src)
	return img
}

func TestSimulatedOffsetsAreSymmetric(t *testing.T) {
	d := newTestDisplay(t)
	assert.Equal(t, mathutil.Vec3{-30, 0, 0}, d.ViewOffset(0))
	assert.Equal(t, mathutil.Vec3{30, 0, 0}, d.ViewOffset(1))
	assert.Equal(t, 2, d.NumViews())
	assert.Equal(t, 400.0, d.ConvergenceDistance())
	w, h := d.ViewSize()
	assert.Equal(t, [2]int{8, 4}, [2]int{w, h})
}

func TestNewSimulatedRejectsBadOptions(t *testing.T) {
	_, err := NewSimulated(SimulatedOptions{ViewWidth: 0, ViewHeight: 4, Views: 2})
	var ce *CollaboratorError
	require.True(t, errors.As(err, &ce))

	_, err = NewSimulated(SimulatedOptions{ViewWidth: 4, ViewHeight: 4})
	assert.ErrorIs(t, err, ErrViewCount)
}

func TestAtlasInterlacesColumns(t *testing.T) {
	d := newTestDisplay(t)
	in := d.Interlacer()
	in.SetSourceViewsSize(8, 4)

	dst := raster.NewFrameBuffer(10, 6)
	require.NoError(t, in.DoPostProcessAtlas(sideBySide(16, 4), dst))

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			want := [4]uint8{255, 0, 0, 255}
			if x%2 == 1 {
				want = [4]uint8{0, 0, 255, 255}
			}
			require.Equal(t, want, dst.PixelAt(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestAtlasSizeMustMatchDeclaredViews(t *testing.T) {
	d := newTestDisplay(t)
	in := d.Interlacer()
	dst := raster.NewFrameBuffer(4, 4)

	err := in.DoPostProcessAtlas(sideBySide(16, 4), dst)
	assert.ErrorIs(t, err, ErrSourceSize, "no size declared yet")

	in.SetSourceViewsSize(8, 4)
	err = in.DoPostProcessAtlas(sideBySide(12, 4), dst)
	var ce *CollaboratorError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, ErrSourceSize)
}

func TestPictureAcceptsAnyResolution(t *testing.T) {
	d := newTestDisplay(t)
	in := d.Interlacer()
	in.SetSourceViewsSize(8, 4)

	dst := raster.NewFrameBuffer(6, 3)
	require.NoError(t, in.DoPostProcessPicture(sideBySide(40, 10), dst))
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, dst.PixelAt(2, 1))
	assert.Equal(t, [4]uint8{0, 0, 255, 255}, dst.PixelAt(3, 1))
}

func TestOverlayShowsSourceSideBySide(t *testing.T) {
	d := newTestDisplay(t)
	assert.False(t, d.ProcessInput(KeyEscape))
	assert.True(t, d.ProcessInput(KeyF1))
	assert.True(t, d.Overlay())

	in := d.Interlacer()
	in.SetSourceViewsSize(8, 4)
	dst := raster.NewFrameBuffer(10, 2)
	require.NoError(t, in.DoPostProcessAtlas(sideBySide(16, 4), dst))
	for x := 0; x < 5; x++ {
		assert.Equal(t, [4]uint8{255, 0, 0, 255}, dst.PixelAt(x, 0), "x=%d", x)
		assert.Equal(t, [4]uint8{0, 0, 255, 255}, dst.PixelAt(x+5, 0), "x=%d", x+5)
	}

	assert.True(t, d.ProcessInput(KeyF1))
	assert.False(t, d.Overlay())
}

func TestBacklightAndDestroy(t *testing.T) {
	d := newTestDisplay(t)
	require.NoError(t, d.SetBacklight(true))
	assert.True(t, d.Backlight())
	require.NoError(t, d.SetBacklight(false))
	require.NoError(t, d.Destroy())
	require.NoError(t, d.Destroy())
	assert.ErrorIs(t, d.SetBacklight(true), ErrDestroyed)
}
