package display

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"stereo-sample/internal/mathutil"
	"stereo-sample/internal/raster"
)

// SimulatedOptions configures the stand-in display.
type SimulatedOptions struct {
	ViewWidth   int
	ViewHeight  int
	Views       int
	Convergence float64
	// Baseline is the distance between neighbouring eyes.
	Baseline float64
	Logger   *slog.Logger
}

// Simulated is an in-process display that needs no hardware. Its
// interlacer alternates output columns between views.
type Simulated struct {
	opts      SimulatedOptions
	log       *slog.Logger
	backlight bool
	destroyed bool
	overlay   bool
	inter     *columnInterlacer
}

// NewSimulated validates opts and returns a ready display.
func NewSimulated(opts SimulatedOptions) (*Simulated, error) {
	if opts.ViewWidth <= 0 || opts.ViewHeight <= 0 {
		return nil, &CollaboratorError{Op: "init", Err: fmt.Errorf("view size %dx%d", opts.ViewWidth, opts.ViewHeight)}
	}
	if opts.Views <= 0 {
		return nil, &CollaboratorError{Op: "init", Err: fmt.Errorf("%w: %d", ErrViewCount, opts.Views)}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Simulated{opts: opts, log: log}
	s.inter = &columnInterlacer{views: opts.Views, overlay: &s.overlay}
	log.Debug("simulated display ready",
		"view_width", opts.ViewWidth, "view_height", opts.ViewHeight,
		"views", opts.Views, "convergence", opts.Convergence)
	return s, nil
}

func (s *Simulated) ViewSize() (int, int) { return s.opts.ViewWidth, s.opts.ViewHeight }

func (s *Simulated) NumViews() int { return s.opts.Views }

func (s *Simulated) ConvergenceDistance() float64 { return s.opts.Convergence }

// ViewOffset spreads the eyes symmetrically along x, Baseline apart.
func (s *Simulated) ViewOffset(i int) mathutil.Vec3 {
	center := float64(s.opts.Views-1) / 2
	return mathutil.Vec3{(float64(i) - center) * s.opts.Baseline, 0, 0}
}

func (s *Simulated) SetBacklight(on bool) error {
	if s.destroyed {
		return &CollaboratorError{Op: "set backlight", Err: ErrDestroyed}
	}
	s.backlight = on
	s.log.Info("backlight", "on", on)
	return nil
}

// Backlight reports the last state set with SetBacklight.
func (s *Simulated) Backlight() bool { return s.backlight }

// ProcessInput toggles the debug overlay on F1 and swallows that key.
func (s *Simulated) ProcessInput(k Key) bool {
	if k != KeyF1 {
		return false
	}
	s.overlay = !s.overlay
	s.log.Debug("debug overlay", "enabled", s.overlay)
	return true
}

// Overlay reports whether the debug overlay is showing.
func (s *Simulated) Overlay() bool { return s.overlay }

func (s *Simulated) Interlacer() Interlacer { return s.inter }

func (s *Simulated) Destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true
	s.log.Debug("simulated display destroyed")
	return nil
}

type columnInterlacer struct {
	views        int
	viewW, viewH int
	overlay      *bool
}

func (c *columnInterlacer) SetSourceViewsSize(w, h int) {
	c.viewW, c.viewH = w, h
}

func (c *columnInterlacer) DoPostProcessAtlas(atlas image.Image, dst *raster.FrameBuffer) error {
	if err := c.checkDeclared("post-process atlas"); err != nil {
		return err
	}
	size := atlas.Bounds().Size()
	if size.X != c.viewW*c.views || size.Y != c.viewH {
		return &CollaboratorError{Op: "post-process atlas",
			Err: fmt.Errorf("%w: atlas %v, views %dx%d", ErrSourceSize, size, c.viewW, c.viewH)}
	}
	c.compose(asNRGBA(atlas), dst)
	return nil
}

func (c *columnInterlacer) DoPostProcessPicture(tex image.Image, dst *raster.FrameBuffer) error {
	if err := c.checkDeclared("post-process picture"); err != nil {
		return err
	}
	if tex.Bounds().Empty() {
		return &CollaboratorError{Op: "post-process picture", Err: fmt.Errorf("%w: empty texture", ErrSourceSize)}
	}
	c.compose(asNRGBA(tex), dst)
	return nil
}

func (c *columnInterlacer) checkDeclared(op string) error {
	if c.viewW <= 0 || c.viewH <= 0 {
		return &CollaboratorError{Op: op, Err: fmt.Errorf("%w: declared %dx%d", ErrSourceSize, c.viewW, c.viewH)}
	}
	return nil
}

// compose writes every pixel of dst. View i is the i-th horizontal slice
// of src. Interlaced output takes column x from view x mod views; the
// overlay shows the slices side by side instead.
func (c *columnInterlacer) compose(src *image.NRGBA, dst *raster.FrameBuffer) {
	sb := src.Bounds()
	slices := make([]*image.NRGBA, c.views)
	for i := range slices {
		x0 := sb.Min.X + i*sb.Dx()/c.views
		x1 := sb.Min.X + (i+1)*sb.Dx()/c.views
		slices[i] = src.SubImage(image.Rect(x0, sb.Min.Y, x1, sb.Max.Y)).(*image.NRGBA)
	}

	n := float64(c.views)
	w, h := float64(dst.Width), float64(dst.Height)
	for y := 0; y < dst.Height; y++ {
		v := (float64(y) + 0.5) / h
		row := y * dst.Width * 4
		for x := 0; x < dst.Width; x++ {
			var view int
			var u float64
			if *c.overlay {
				pos := (float64(x) + 0.5) / w * n
				view = min(int(pos), c.views-1)
				u = pos - float64(view)
			} else {
				view = x % c.views
				u = (float64(x) + 0.5) / w
			}
			r, g, b, _ := raster.SampleTexture(slices[view], u, v)
			i := row + x*4
			dst.Color[i] = r
			dst.Color[i+1] = g
			dst.Color[i+2] = b
			dst.Color[i+3] = 255
		}
	}
}

func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
