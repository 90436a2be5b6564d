package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"c.json": `{"mode":"image","image_path":"assets/glass.tga","convergence":350,"fullscreen":false,"frames":12}`,
		"c.toml": "mode = \"image\"\nimage_path = \"assets/glass.tga\"\nconvergence = 350.0\nfullscreen = false\nframes = 12\n",
		"c.yaml": "mode: image\nimage_path: assets/glass.tga\nconvergence: 350\nfullscreen: false\nframes: 12\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, dir, name, body))
			require.NoError(t, err)
			require.NoError(t, cfg.Resolve(Flags{}))

			assert.Equal(t, "image", cfg.Mode)
			assert.Equal(t, filepath.Join(dir, "assets", "glass.tga"), cfg.ImagePath)
			assert.Equal(t, 350.0, cfg.Convergence)
			assert.False(t, cfg.IsFullscreen())
			assert.Equal(t, uint64(12), cfg.Frames)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, dir, "c.ini", "mode=cube"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(writeFile(t, dir, "bad.json", "{"))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Resolve(Flags{}))

	assert.Equal(t, "cube", cfg.Mode)
	assert.Equal(t, 1280, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	assert.True(t, cfg.IsFullscreen())
	assert.Equal(t, 1280, cfg.ViewWidth)
	assert.Equal(t, 720, cfg.ViewHeight)
	assert.Equal(t, 400.0, cfg.Convergence)
	assert.Equal(t, 60.0, cfg.Baseline)
	assert.Equal(t, 60, cfg.Hz)
	assert.Equal(t, 960, cfg.StreamMaxWidth)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{Mode: "cube", LogLevel: "warn", Frames: 5}
	require.NoError(t, cfg.Resolve(Flags{
		ImagePath: "pic.tga",
		Mode:      "image",
		LogLevel:  "debug",
		Headless:  true,
		Windowed:  true,
		Frames:    9,
	}))

	assert.Equal(t, "image", cfg.Mode)
	assert.True(t, filepath.IsAbs(cfg.ImagePath))
	assert.Equal(t, "pic.tga", filepath.Base(cfg.ImagePath))
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.IsFullscreen())
	assert.Equal(t, uint64(9), cfg.Frames)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestResolveInfersImageMode(t *testing.T) {
	cfg := Config{ImagePath: "/abs/pic.tga"}
	require.NoError(t, cfg.Resolve(Flags{}))
	assert.Equal(t, "image", cfg.Mode)
	assert.Equal(t, "/abs/pic.tga", cfg.ImagePath)
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown mode", Config{Mode: "teapot"}, "unknown mode"},
		{"image without path", Config{Mode: "image"}, "needs image_path"},
		{"bad level", Config{LogLevel: "loud"}, "log_level"},
		{"snapshots without dir", Config{SnapshotEvery: 10}, "needs output_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.ErrorContains(t, cfg.Resolve(Flags{}), tt.want)
		})
	}
}
