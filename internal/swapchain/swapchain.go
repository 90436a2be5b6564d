// Package swapchain is the window-sized presentable target. Presenting
// copies the back buffer to the front image and hands it to every sink
// (window, snapshot writer, preview stream).
package swapchain

import (
	"errors"
	"fmt"
	"image"

	"stereo-sample/internal/raster"
)

// ErrSize is returned for non-positive target sizes.
var ErrSize = errors.New("target size must be positive")

// DeviceError reports a graphics resource creation, resize or present failure.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device: %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Sink receives every presented frame. The image is only valid for the
// duration of the call.
type Sink interface {
	Present(frame *image.NRGBA, index uint64) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(frame *image.NRGBA, index uint64) error

func (f SinkFunc) Present(frame *image.NRGBA, index uint64) error { return f(frame, index) }

// SwapChain holds one back buffer and one front image.
type SwapChain struct {
	back     *raster.FrameBuffer
	front    *image.NRGBA
	sinks    []Sink
	presents uint64
	released bool
}

// New allocates a w×h swap chain.
func New(w, h int) (*SwapChain, error) {
	if w <= 0 || h <= 0 {
		return nil, &DeviceError{Op: "create swap chain", Err: fmt.Errorf("%w: %dx%d", ErrSize, w, h)}
	}
	return &SwapChain{
		back:  raster.NewFrameBuffer(w, h),
		front: image.NewNRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

// AddSink registers s to receive presented frames.
func (sc *SwapChain) AddSink(s Sink) {
	sc.sinks = append(sc.sinks, s)
}

// BackBuffer is the buffer the next frame is drawn into.
func (sc *SwapChain) BackBuffer() *raster.FrameBuffer {
	return sc.back
}

// Front is the most recently presented frame.
func (sc *SwapChain) Front() *image.NRGBA {
	return sc.front
}

// Size returns the current target size.
func (sc *SwapChain) Size() (w, h int) {
	return sc.back.Width, sc.back.Height
}

// Presents returns how many frames have been presented.
func (sc *SwapChain) Presents() uint64 {
	return sc.presents
}

// Resize reallocates both buffers. Contents are discarded.
func (sc *SwapChain) Resize(w, h int) error {
	if sc.released {
		return &DeviceError{Op: "resize swap chain", Err: errReleased}
	}
	if w <= 0 || h <= 0 {
		return &DeviceError{Op: "resize swap chain", Err: fmt.Errorf("%w: %dx%d", ErrSize, w, h)}
	}
	if w == sc.back.Width && h == sc.back.Height {
		return nil
	}
	sc.back = raster.NewFrameBuffer(w, h)
	sc.front = image.NewNRGBA(image.Rect(0, 0, w, h))
	return nil
}

// Present publishes the back buffer.
func (sc *SwapChain) Present() error {
	if sc.released {
		return &DeviceError{Op: "present", Err: errReleased}
	}
	copy(sc.front.Pix, sc.back.Color)
	idx := sc.presents
	sc.presents++
	for _, s := range sc.sinks {
		if err := s.Present(sc.front, idx); err != nil {
			return &DeviceError{Op: "present", Err: err}
		}
	}
	return nil
}

// Release drops the buffers. The swap chain cannot be used afterwards.
func (sc *SwapChain) Release() {
	sc.released = true
	sc.back = &raster.FrameBuffer{}
	sc.front = &image.NRGBA{}
	sc.sinks = nil
}

var errReleased = errors.New("swap chain released")
