//go:build cgo

// Package window presents a render session in a desktop window.
package window

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"stereo-sample/internal/display"
	"stereo-sample/internal/session"
)

// Options configures the window.
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	Logger     *slog.Logger
}

// keys are the keys the sample reacts to.
var keys = []struct {
	eb  ebiten.Key
	key display.Key
}{
	{ebiten.KeyEscape, display.KeyEscape},
	{ebiten.KeyF1, display.KeyF1},
	{ebiten.KeyF11, display.KeyF11},
}

// Run opens the window and renders one session frame per tick. It blocks
// until Escape is pressed, the window is closed or a frame fails.
func Run(s *session.RenderSession, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	g := &game{s: s, title: opts.Title, log: log}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(opts.Fullscreen)
	return ebiten.RunGame(g)
}

type game struct {
	s     *session.RenderSession
	title string
	log   *slog.Logger

	start time.Time
	fps   session.FPSCounter
	img   *ebiten.Image
	err   error // deferred from Layout, which cannot fail
}

func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	for _, k := range keys {
		if !inpututil.IsKeyJustPressed(k.eb) {
			continue
		}
		switch g.s.HandleKey(k.key) {
		case session.KeyQuit:
			return ebiten.Termination
		case session.KeyToggleFullscreen:
			ebiten.SetFullscreen(!ebiten.IsFullscreen())
		}
	}

	if g.start.IsZero() {
		g.start = time.Now()
	}
	elapsed := time.Since(g.start).Seconds()
	if err := g.s.Frame(elapsed); err != nil {
		return err
	}
	if fps, ok := g.fps.Tick(elapsed); ok {
		ebiten.SetWindowTitle(fmt.Sprintf("%s - FPS: %.2f", g.title, fps))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	front := g.s.SwapChain().Front()
	b := front.Bounds()
	if g.img == nil || g.img.Bounds() != image.Rect(0, 0, b.Dx(), b.Dy()) {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.img.WritePixels(front.Pix)
	screen.DrawImage(g.img, nil)
}

// Layout tracks the window size so the swap chain always matches it.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.s.SwapChain().Size()
	if outsideWidth > 0 && outsideHeight > 0 && (w != outsideWidth || h != outsideHeight) {
		if err := g.s.Resize(outsideWidth, outsideHeight); err != nil && g.err == nil {
			g.err = err
		}
		w, h = outsideWidth, outsideHeight
	}
	return w, h
}
