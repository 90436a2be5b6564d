package raster

import (
	"image"

	"stereo-sample/internal/mathutil"
)

// Viewport maps normalized device coordinates onto a rectangle of a frame
// buffer. Draws are clipped to the rectangle.
type Viewport struct {
	X, Y          int
	Width, Height int
	MinDepth      float64
	MaxDepth      float64
}

// FullViewport covers the whole frame buffer with the default depth range.
func FullViewport(fb *FrameBuffer) Viewport {
	return Viewport{Width: fb.Width, Height: fb.Height, MaxDepth: 1}
}

// Rect returns the pixel rectangle covered by the viewport.
func (vp Viewport) Rect() image.Rectangle {
	return image.Rect(vp.X, vp.Y, vp.X+vp.Width, vp.Y+vp.Height)
}

// ToScreen maps an NDC position (x,y in [-1,1], z in [0,1], +y up) to
// pixel coordinates and viewport depth.
func (vp Viewport) ToScreen(ndc mathutil.Vec3) (x, y, z float64) {
	x = float64(vp.X) + (ndc[0]+1)*0.5*float64(vp.Width)
	y = float64(vp.Y) + (1-ndc[1])*0.5*float64(vp.Height)
	z = vp.MinDepth + ndc[2]*(vp.MaxDepth-vp.MinDepth)
	return x, y, z
}

// Target is a frame buffer bound together with the viewport draws go to.
type Target struct {
	FB       *FrameBuffer
	Viewport Viewport
}

// NewTarget binds fb with a viewport covering all of it.
func NewTarget(fb *FrameBuffer) Target {
	return Target{FB: fb, Viewport: FullViewport(fb)}
}
