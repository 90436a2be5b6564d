// Package compositor owns the double-wide offscreen surface both eyes are
// rendered into before interlacing.
package compositor

import (
	"errors"
	"fmt"
	"image"

	"stereo-sample/internal/raster"
	"stereo-sample/internal/swapchain"
)

// ClearColor is the baseline the surface is reset to every frame.
var ClearColor = raster.RGBA{0, 0.2, 0.5, 1}

const views = 2

var (
	ErrViewSize  = errors.New("view size must be positive")
	ErrViewIndex = errors.New("view index must be 0 or 1")
	ErrReleased  = errors.New("surface released")
)

// Surface is a (2*viewWidth)×viewHeight color target with a shared depth
// buffer. Its size is fixed at creation.
type Surface struct {
	viewW, viewH int
	fb           *raster.FrameBuffer
}

// New allocates the surface for views of viewW×viewH pixels.
func New(viewW, viewH int) (*Surface, error) {
	if viewW <= 0 || viewH <= 0 {
		return nil, &swapchain.DeviceError{Op: "create offscreen surface",
			Err: fmt.Errorf("%w: %dx%d", ErrViewSize, viewW, viewH)}
	}
	return &Surface{
		viewW: viewW,
		viewH: viewH,
		fb:    raster.NewFrameBuffer(views*viewW, viewH),
	}, nil
}

// Size returns the full surface size.
func (s *Surface) Size() (w, h int) {
	return views * s.viewW, s.viewH
}

// ViewSize returns the size of one half.
func (s *Surface) ViewSize() (w, h int) {
	return s.viewW, s.viewH
}

// Clear resets color to ClearColor and depth to the far plane.
func (s *Surface) Clear() error {
	if s.fb == nil {
		return ErrReleased
	}
	s.fb.Clear(ClearColor, 1)
	return nil
}

// BindHalf returns a target whose viewport covers exactly the left (0) or
// right (1) half of the surface.
func (s *Surface) BindHalf(index int) (raster.Target, error) {
	if s.fb == nil {
		return raster.Target{}, ErrReleased
	}
	if index < 0 || index >= views {
		return raster.Target{}, fmt.Errorf("compositor: bind half %d: %w", index, ErrViewIndex)
	}
	return raster.Target{
		FB: s.fb,
		Viewport: raster.Viewport{
			X:        index * s.viewW,
			Width:    s.viewW,
			Height:   s.viewH,
			MaxDepth: 1,
		},
	}, nil
}

// Atlas exposes the composed surface for the interlacer. Callers must not
// write to it.
func (s *Surface) Atlas() image.Image {
	if s.fb == nil {
		return image.NewNRGBA(image.Rectangle{})
	}
	return s.fb.Image()
}

// Release drops the storage.
func (s *Surface) Release() {
	s.fb = nil
}
