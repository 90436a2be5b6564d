package raster

import (
	"math"
)

// Vertex is a triangle corner already mapped to screen space.
type Vertex struct {
	X, Y, Z float64
	Color   [3]float64
}

// RasterizeTriangle fills one triangle into t with per-vertex color
// interpolation and a less-than depth test. Pixels outside t.Viewport are
// never touched. It reports whether the triangle covered any pixel center.
//
// The pixel loop does not allocate.
func RasterizeTriangle(t Target, v0, v1, v2 Vertex) bool {
	fb := t.FB
	clip := t.Viewport.Rect().Intersect(fb.Bounds())
	if clip.Empty() {
		return false
	}

	x0, y0 := v0.X, v0.Y
	x1, y1 := v1.X, v1.Y
	x2, y2 := v2.X, v2.Y

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < clip.Min.X {
		minX = clip.Min.X
	}
	if maxX > clip.Max.X-1 {
		maxX = clip.Max.X - 1
	}
	if minY < clip.Min.Y {
		minY = clip.Min.Y
	}
	if maxY > clip.Max.Y-1 {
		maxY = clip.Max.Y - 1
	}
	if minX > maxX || minY > maxY {
		return false
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return false
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	covered := false
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}
			covered = true

			z := w0*v0.Z + w1*v1.Z + w2*v2.Z
			idx := rowOff + sx
			if z < 0 || z >= fb.Depth[idx] {
				continue
			}
			fb.Depth[idx] = z

			pxIdx := idx * 4
			fb.Color[pxIdx] = clamp255((w0*v0.Color[0] + w1*v1.Color[0] + w2*v2.Color[0]) * 255)
			fb.Color[pxIdx+1] = clamp255((w0*v0.Color[1] + w1*v1.Color[1] + w2*v2.Color[1]) * 255)
			fb.Color[pxIdx+2] = clamp255((w0*v0.Color[2] + w1*v1.Color[2] + w2*v2.Color[2]) * 255)
			fb.Color[pxIdx+3] = 255
		}
	}
	return covered
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
