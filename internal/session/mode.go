package session

import (
	"fmt"
	"image"

	"stereo-sample/internal/compositor"
	"stereo-sample/internal/scene"
	"stereo-sample/internal/texture"
)

// RenderMode produces the content of each frame. A mode is chosen once at
// startup and never switched.
type RenderMode interface {
	Name() string
	// Prepare acquires the mode's resources and registers them with
	// s.Own so the session can release them.
	Prepare(s *RenderSession) error
	RenderFrame(s *RenderSession, fs FrameState) error
}

// Mode names accepted by NewMode.
const (
	ModeImage = "image"
	ModeCube  = "cube"
)

// NewMode returns the render mode for a configuration name.
func NewMode(name, imagePath string) (RenderMode, error) {
	switch name {
	case ModeImage:
		if imagePath == "" {
			return nil, fmt.Errorf("session: mode %q needs an image path", name)
		}
		return &StaticImageMode{Path: imagePath}, nil
	case ModeCube, "":
		return &AnimatedSceneMode{}, nil
	}
	return nil, fmt.Errorf("session: unknown mode %q", name)
}

// StaticImageMode shows a side-by-side stereo image loaded once at startup.
type StaticImageMode struct {
	Path string

	tex *image.NRGBA
}

func (m *StaticImageMode) Name() string { return ModeImage }

func (m *StaticImageMode) Prepare(s *RenderSession) error {
	tex, err := texture.Load(m.Path)
	if err != nil {
		return err
	}
	m.tex = tex
	s.Own("image texture", func() { m.tex = nil })
	s.log.Info("stereo image loaded", "path", m.Path,
		"size", fmt.Sprintf("%dx%d", tex.Rect.Dx(), tex.Rect.Dy()))
	return nil
}

func (m *StaticImageMode) RenderFrame(s *RenderSession, _ FrameState) error {
	vw, vh := s.disp.ViewSize()
	s.inter.SetSourceViewsSize(vw, vh)
	return s.inter.DoPostProcessPicture(m.tex, s.swap.BackBuffer())
}

// AnimatedSceneMode draws the spinning cube once per view into an
// offscreen side-by-side surface and hands it to the interlacer.
type AnimatedSceneMode struct {
	surface  *compositor.Surface
	renderer *scene.Renderer
}

func (m *AnimatedSceneMode) Name() string { return ModeCube }

func (m *AnimatedSceneMode) Prepare(s *RenderSession) error {
	vw, vh := s.disp.ViewSize()
	surface, err := compositor.New(vw, vh)
	if err != nil {
		return err
	}
	m.surface = surface
	s.Own("offscreen surface", surface.Release)

	m.renderer = scene.NewRenderer(scene.NewCube())
	s.Own("cube geometry", func() { m.renderer = nil })
	return nil
}

func (m *AnimatedSceneMode) RenderFrame(s *RenderSession, fs FrameState) error {
	if err := m.surface.Clear(); err != nil {
		return err
	}
	vw, vh := m.surface.ViewSize()
	aspect := float64(vw) / float64(vh)

	for i := 0; i < 2; i++ {
		mats, err := scene.ViewMatrices(scene.ViewParams{
			Index:       i,
			Offset:      s.disp.ViewOffset(i),
			Convergence: s.disp.ConvergenceDistance(),
			Aspect:      aspect,
			Time:        fs.Elapsed,
		})
		if err != nil {
			return err
		}
		target, err := m.surface.BindHalf(i)
		if err != nil {
			return err
		}
		m.renderer.Draw(target, mats.MVP)
	}

	s.inter.SetSourceViewsSize(vw, vh)
	return s.inter.DoPostProcessAtlas(m.surface.Atlas(), s.swap.BackBuffer())
}
