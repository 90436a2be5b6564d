package session

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window runner.
type HeadlessConfig struct {
	Hz     int
	Frames uint64 // 0 runs until ctx is cancelled
}

// RunHeadless renders frames on a fixed-rate ticker without opening a
// window. Frame time advances by exactly 1/Hz per frame so runs are
// reproducible. Cancelling ctx is a normal stop and returns nil.
func RunHeadless(ctx context.Context, s *RenderSession, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("session: invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var (
		fps   FPSCounter
		start = time.Now()
		frame uint64
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := s.Frame(float64(frame) / float64(cfg.Hz)); err != nil {
				return err
			}
			frame++
			if v, ok := fps.Tick(time.Since(start).Seconds()); ok {
				s.log.Debug("fps", "value", fmt.Sprintf("%.1f", v), "frames", frame)
			}
			if cfg.Frames > 0 && frame >= cfg.Frames {
				return nil
			}
		}
	}
}
