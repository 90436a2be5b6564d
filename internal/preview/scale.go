// Package preview serves presented frames as a live MJPEG stream.
package preview

import (
	"image"

	"golang.org/x/image/draw"
)

// Fit scales img down so it is at most maxWidth wide, keeping the aspect
// ratio. Images that already fit are returned as is.
func Fit(img *image.NRGBA, maxWidth int) *image.NRGBA {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := max(1, int(float64(b.Dy())*float64(maxWidth)/float64(b.Dx())+0.5))

	// CatmullRom approximates Lanczos. Frames are opaque so no
	// premultiply round trip is needed.
	dst := image.NewNRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
