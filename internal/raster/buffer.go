package raster

import (
	"image"
)

// RGBA is a linear color with channels in [0,1].
type RGBA [4]float64

// Bytes converts the color to 8-bit channels.
func (c RGBA) Bytes() [4]uint8 {
	return [4]uint8{clamp255(c[0] * 255), clamp255(c[1] * 255), clamp255(c[2] * 255), clamp255(c[3] * 255)}
}

// FrameBuffer holds a render target as flat slices for cache locality.
// Depth uses the 0 (near) .. 1 (far) convention with a less-than test.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	Depth  []float64 // depth per pixel, len = W*H
}

// NewFrameBuffer allocates a zeroed color buffer and a depth buffer cleared
// to the far plane.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		Depth:  make([]float64, w*h),
	}
	fb.ClearDepth(1)
	return fb
}

// Clear overwrites every pixel with c and every depth sample with depth.
func (fb *FrameBuffer) Clear(c RGBA, depth float64) {
	fb.ClearColor(c)
	fb.ClearDepth(depth)
}

func (fb *FrameBuffer) ClearColor(c RGBA) {
	b := c.Bytes()
	if len(fb.Color) == 0 {
		return
	}
	copy(fb.Color[:4], b[:])
	// Double the filled prefix until the buffer is full.
	for n := 4; n < len(fb.Color); n *= 2 {
		copy(fb.Color[n:], fb.Color[:n])
	}
}

func (fb *FrameBuffer) ClearDepth(depth float64) {
	for i := range fb.Depth {
		fb.Depth[i] = depth
	}
}

// Bounds returns the full-surface rectangle.
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// Image exposes the color storage as an NRGBA image without copying.
// Writes to the frame buffer are visible through it.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Color,
		Stride: fb.Width * 4,
		Rect:   fb.Bounds(),
	}
}

// PixelAt returns the 8-bit color stored at (x, y).
func (fb *FrameBuffer) PixelAt(x, y int) [4]uint8 {
	i := (y*fb.Width + x) * 4
	return [4]uint8{fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]}
}

// DepthAt returns the depth sample at (x, y).
func (fb *FrameBuffer) DepthAt(x, y int) float64 {
	return fb.Depth[y*fb.Width+x]
}
