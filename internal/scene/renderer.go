package scene

import (
	"stereo-sample/internal/mathutil"
	"stereo-sample/internal/raster"
)

// Renderer draws a mesh with a single model-view-projection matrix.
type Renderer struct {
	mesh      *Mesh
	clip      []mathutil.Vec4
	screen    []raster.Vertex
	drawCalls uint64
}

// NewRenderer prepares a renderer for m. Scratch space is allocated once.
func NewRenderer(m *Mesh) *Renderer {
	return &Renderer{
		mesh:   m,
		clip:   make([]mathutil.Vec4, len(m.Vertices)),
		screen: make([]raster.Vertex, len(m.Vertices)),
	}
}

// DrawCalls returns how many times Draw has been called.
func (r *Renderer) DrawCalls() uint64 {
	return r.drawCalls
}

// Draw issues one indexed draw of the mesh into t and returns how many
// triangles covered at least one pixel. Triangles with a corner at or
// behind the near plane are dropped.
func (r *Renderer) Draw(t raster.Target, mvp mathutil.Mat4) int {
	r.drawCalls++

	for i, v := range r.mesh.Vertices {
		c := mvp.MulVec4(mathutil.Vec4{v.Pos[0], v.Pos[1], v.Pos[2], 1})
		r.clip[i] = c
		if c[3] < Near {
			continue
		}
		x, y, z := t.Viewport.ToScreen(c.Perspective())
		r.screen[i] = raster.Vertex{X: x, Y: y, Z: z, Color: v.Color}
	}

	drawn := 0
	idx := r.mesh.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i], idx[i+1], idx[i+2]
		if r.clip[a][3] < Near || r.clip[b][3] < Near || r.clip[c][3] < Near {
			continue
		}
		if raster.RasterizeTriangle(t, r.screen[a], r.screen[b], r.screen[c]) {
			drawn++
		}
	}
	return drawn
}
