// Package texture turns image assets on disk into textures the interlacer
// can sample.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	_ "github.com/ftrvxmtrx/tga"

	"stereo-sample/internal/tga"
)

// Load reads a 24/32-bit truecolor TGA and returns it as a top-down NRGBA
// texture. Any container problem is reported as a *tga.DecodeError.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := tga.DecodeBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img.NRGBA(), nil
}

// LoadLenient is Load with a fallback to the general image decoders for
// TGA variants the strict decoder rejects (color-mapped, grayscale,
// 16-bit). Used by tooling only; the sample itself never guesses.
func LoadLenient(path string) (*image.NRGBA, error) {
	tex, err := Load(path)
	var de *tga.DecodeError
	if err == nil || !errors.As(err, &de) {
		return tex, err
	}

	raw, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, rerr)
	}
	img, _, derr := image.Decode(bytes.NewReader(raw))
	if derr != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, errors.Join(err, derr))
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to a zero-origin NRGBA.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
