// Package display describes the stereo display SDK the sample drives and
// provides an in-process stand-in for it.
//
// The SDK reports the per-view render size, the convergence distance and
// per-view camera offsets, and owns the interlacer that turns rendered views
// into a panel-ready image.
package display

import (
	"errors"
	"fmt"
	"image"

	"stereo-sample/internal/mathutil"
	"stereo-sample/internal/raster"
)

// Key is a keyboard key as seen by the input filter.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyF1
	KeyF11
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyF1:
		return "F1"
	case KeyF11:
		return "F11"
	}
	return "other"
}

// Display is the stereo display SDK.
type Display interface {
	// ViewSize is the pixel size of one eye's view, fixed by the display profile.
	ViewSize() (w, h int)
	NumViews() int
	ConvergenceDistance() float64
	// ViewOffset returns the camera displacement of view i: x is lateral,
	// y is depth and z is vertical.
	ViewOffset(i int) mathutil.Vec3
	SetBacklight(on bool) error
	// ProcessInput lets the SDK's debug overlay claim a key before the
	// application sees it.
	ProcessInput(k Key) (captured bool)
	Interlacer() Interlacer
	Destroy() error
}

// Interlacer composes rendered views into the final presentable target.
type Interlacer interface {
	// SetSourceViewsSize declares the size of one view in the source.
	SetSourceViewsSize(w, h int)
	// DoPostProcessAtlas interlaces an atlas holding all views side by side
	// at exactly the declared view size.
	DoPostProcessAtlas(atlas image.Image, dst *raster.FrameBuffer) error
	// DoPostProcessPicture interlaces a single side-by-side picture of any
	// resolution, resampled to the declared view size.
	DoPostProcessPicture(tex image.Image, dst *raster.FrameBuffer) error
}

var (
	ErrViewCount   = errors.New("unexpected number of views")
	ErrConvergence = errors.New("convergence distance must be positive and finite")
	ErrSourceSize  = errors.New("source does not match declared view size")
	ErrDestroyed   = errors.New("display already destroyed")
)

// CollaboratorError reports an unexpected result from the display SDK.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("display: %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
