package tga

import (
	"image"

	"github.com/disintegration/imaging"
)

// Format is the channel layout of a decoded image.
type Format int

const (
	RGB  Format = 3 // 24-bit truecolor
	RGBA Format = 4 // 32-bit truecolor with alpha
)

func (f Format) String() string {
	switch f {
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	}
	return "unknown"
}

// Origin records which corner the first stored row belongs to.
type Origin int

const (
	BottomLeft Origin = iota
	TopLeft
)

func (o Origin) String() string {
	if o == TopLeft {
		return "top-left"
	}
	return "bottom-left"
}

// Image is a decoded truecolor picture. Pix is tightly packed in R,G,B(,A)
// order, rows in file order (see Origin). It is not modified after Decode.
type Image struct {
	Width  int
	Height int
	Format Format
	Origin Origin
	Pix    []byte
}

// BytesPerPixel returns 3 or 4.
func (m *Image) BytesPerPixel() int {
	return int(m.Format)
}

// NRGBA converts the image to a top-down NRGBA texture. Images without an
// alpha channel come out opaque.
func (m *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	bpp := m.BytesPerPixel()
	n := m.Width * m.Height
	for i := 0; i < n; i++ {
		s := i * bpp
		d := i * 4
		dst.Pix[d] = m.Pix[s]
		dst.Pix[d+1] = m.Pix[s+1]
		dst.Pix[d+2] = m.Pix[s+2]
		if bpp == 4 {
			dst.Pix[d+3] = m.Pix[s+3]
		} else {
			dst.Pix[d+3] = 255
		}
	}
	if m.Origin == BottomLeft {
		return imaging.FlipV(dst)
	}
	return dst
}
