package texture

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stereo-sample/internal/tga"
)

func writeTGA(t *testing.T, imageType, bits byte, w, h int, body []byte) string {
	t.Helper()
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bits
	hdr[17] = 0x20 // top-left
	path := filepath.Join(t.TempDir(), "img.tga")
	require.NoError(t, os.WriteFile(path, append(hdr, body...), 0o644))
	return path
}

func TestLoadTruecolor(t *testing.T) {
	path := writeTGA(t, 2, 24, 2, 1, []byte{255, 0, 0, 0, 255, 0})
	tex, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, tex.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, tex.NRGBAAt(1, 0))
}

func TestLoadRejectsGrayscale(t *testing.T) {
	path := writeTGA(t, 3, 8, 2, 1, []byte{10, 200})
	_, err := Load(path)
	var de *tga.DecodeError
	require.True(t, errors.As(err, &de))
	assert.ErrorIs(t, err, tga.ErrSignature)
}

func TestLoadLenientFallsBack(t *testing.T) {
	body := bytes.Repeat([]byte{200}, 8*4)
	body[0] = 10
	path := writeTGA(t, 3, 8, 8, 4, body)
	tex, err := LoadLenient(path)
	require.NoError(t, err)
	assert.Equal(t, 8, tex.Bounds().Dx())
	assert.Equal(t, 4, tex.Bounds().Dy())
	r, g, b, _ := tex.At(1, 0).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
	assert.Greater(t, r>>8, uint32(150))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.tga"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
