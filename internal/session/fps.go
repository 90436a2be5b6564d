package session

// FPSInterval is how often the frame rate estimate is refreshed, in seconds.
const FPSInterval = 0.25

// FPSCounter turns frame timestamps into a frame rate refreshed every
// FPSInterval seconds.
type FPSCounter struct {
	started bool
	last    float64
	frames  int
	fps     float64
}

// Tick records a frame at time now (seconds) and reports whether the
// estimate was refreshed.
func (c *FPSCounter) Tick(now float64) (fps float64, updated bool) {
	if !c.started {
		c.started = true
		c.last = now
	}
	c.frames++
	if dt := now - c.last; dt > FPSInterval {
		c.fps = float64(c.frames) / dt
		c.frames = 0
		c.last = now
		return c.fps, true
	}
	return c.fps, false
}

// FPS returns the latest estimate.
func (c *FPSCounter) FPS() float64 { return c.fps }
