//go:build !cgo

package window

import (
	"errors"
	"log/slog"

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

// Run always fails: window mode needs cgo.
func Run(_ *session.RenderSession, _ Options) error {
	return errors.New("window mode requires cgo (build with CGO_ENABLED=1, or use -headless)")
}
