// Package session drives the stereo sample: it owns the display, the swap
// chain and the active render mode, renders one frame at a time and tears
// everything down in reverse acquisition order.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"stereo-sample/internal/display"
	"stereo-sample/internal/raster"
	"stereo-sample/internal/swapchain"
)

// BackBufferClear is the color the final target is cleared to every frame.
var BackBufferClear = raster.RGBA{0, 0.4, 0, 1}

// Options configures a RenderSession.
type Options struct {
	Mode         RenderMode
	WindowWidth  int
	WindowHeight int
	Sinks        []swapchain.Sink
	Logger       *slog.Logger
}

// FrameState describes the frame being rendered.
type FrameState struct {
	Index   uint64
	Elapsed float64 // seconds since the first frame
}

// KeyAction is what the host should do after a key press.
type KeyAction int

const (
	KeyNone KeyAction = iota
	KeyQuit
	KeyToggleFullscreen
)

type resource struct {
	name    string
	release func()
}

// RenderSession is the single owner of every rendering resource.
type RenderSession struct {
	disp  display.Display
	inter display.Interlacer
	swap  *swapchain.SwapChain
	mode  RenderMode
	log   *slog.Logger

	frames uint64
	owned  []resource
	closed bool

	released []string // release order, for tests
}

// New acquires the swap chain, prepares the mode and turns the backlight
// on. On failure everything acquired so far is released again.
func New(opts Options, disp display.Display) (*RenderSession, error) {
	if opts.Mode == nil {
		return nil, errors.New("session: no render mode")
	}
	if disp == nil {
		return nil, errors.New("session: no display")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &RenderSession{disp: disp, mode: opts.Mode, log: log}

	if n := disp.NumViews(); n != 2 {
		return nil, &display.CollaboratorError{
			Op:  "startup",
			Err: fmt.Errorf("%w: display reports %d", display.ErrViewCount, n),
		}
	}
	s.inter = disp.Interlacer()

	swap, err := swapchain.New(opts.WindowWidth, opts.WindowHeight)
	if err != nil {
		return nil, err
	}
	for _, sink := range opts.Sinks {
		swap.AddSink(sink)
	}
	s.swap = swap
	s.Own("swap chain", swap.Release)

	if err := s.mode.Prepare(s); err != nil {
		s.releaseOwned()
		return nil, fmt.Errorf("session: prepare %s: %w", s.mode.Name(), err)
	}

	if err := disp.SetBacklight(true); err != nil {
		s.releaseOwned()
		return nil, &display.CollaboratorError{Op: "backlight on", Err: err}
	}

	w, h := disp.ViewSize()
	log.Info("session ready", "mode", s.mode.Name(),
		"window", fmt.Sprintf("%dx%d", opts.WindowWidth, opts.WindowHeight),
		"view", fmt.Sprintf("%dx%d", w, h))
	return s, nil
}

// Own pushes a resource onto the release stack. Resources are released in
// the reverse order they were owned.
func (s *RenderSession) Own(name string, release func()) {
	s.owned = append(s.owned, resource{name: name, release: release})
}

// Display returns the display the session renders for.
func (s *RenderSession) Display() display.Display { return s.disp }

// SwapChain returns the session's swap chain.
func (s *RenderSession) SwapChain() *swapchain.SwapChain { return s.swap }

// Mode returns the active render mode.
func (s *RenderSession) Mode() RenderMode { return s.mode }

// Frames returns the number of frames rendered so far.
func (s *RenderSession) Frames() uint64 { return s.frames }

// Frame renders and presents one frame. Any error is fatal for the session.
func (s *RenderSession) Frame(elapsed float64) error {
	if s.closed {
		return errors.New("session: frame after close")
	}
	fs := FrameState{Index: s.frames, Elapsed: elapsed}

	s.swap.BackBuffer().Clear(BackBufferClear, 1)
	if err := s.mode.RenderFrame(s, fs); err != nil {
		return err
	}
	if err := s.swap.Present(); err != nil {
		return err
	}
	s.frames++
	return nil
}

// Resize resizes the swap chain only. View and surface sizes come from the
// display and never change.
func (s *RenderSession) Resize(w, h int) error {
	cw, ch := s.swap.Size()
	if err := s.swap.Resize(w, h); err != nil {
		return err
	}
	if cw != w || ch != h {
		s.log.Debug("swap chain resized", "from", fmt.Sprintf("%dx%d", cw, ch), "to", fmt.Sprintf("%dx%d", w, h))
	}
	return nil
}

// HandleKey gives the display's input filter the first look at a key.
func (s *RenderSession) HandleKey(k display.Key) KeyAction {
	if s.disp.ProcessInput(k) {
		return KeyNone
	}
	switch k {
	case display.KeyEscape:
		return KeyQuit
	case display.KeyF11:
		return KeyToggleFullscreen
	}
	return KeyNone
}

// Close turns the backlight off, destroys the display and then releases
// every owned resource last-in first-out. Calling it again is a no-op.
func (s *RenderSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.disp.SetBacklight(false); err != nil {
		errs = append(errs, &display.CollaboratorError{Op: "backlight off", Err: err})
	}
	if err := s.disp.Destroy(); err != nil {
		errs = append(errs, &display.CollaboratorError{Op: "destroy", Err: err})
	}
	s.releaseOwned()
	s.log.Info("session closed", "frames", s.frames)
	return errors.Join(errs...)
}

func (s *RenderSession) releaseOwned() {
	for i := len(s.owned) - 1; i >= 0; i-- {
		r := s.owned[i]
		r.release()
		s.released = append(s.released, r.name)
		s.log.Debug("released", "resource", r.name)
	}
	s.owned = nil
}
