package scene

import "stereo-sample/internal/mathutil"

// Vertex is a colored cube corner.
type Vertex struct {
	Pos   mathutil.Vec3
	Color [3]float64
}

// Mesh is indexed triangle-list geometry.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Triangles returns the number of triangles in the index list.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

var cubeVertices = []Vertex{
	{mathutil.Vec3{100, 100, 100}, [3]float64{1.0, 0.4, 0.6}},
	{mathutil.Vec3{-100, 100, 100}, [3]float64{1.0, 0.9, 0.2}},
	{mathutil.Vec3{-100, -100, 100}, [3]float64{0.7, 0.3, 0.8}},
	{mathutil.Vec3{100, -100, 100}, [3]float64{1.0, 0.3, 1.0}},
	{mathutil.Vec3{100, 100, -100}, [3]float64{0.2, 0.6, 1.0}},
	{mathutil.Vec3{-100, 100, -100}, [3]float64{0.6, 1.0, 0.4}},
	{mathutil.Vec3{-100, -100, -100}, [3]float64{0.6, 0.8, 0.8}},
	{mathutil.Vec3{100, -100, -100}, [3]float64{0.4, 0.8, 0.8}},
}

// Two triangles per face.
var cubeIndices = []uint32{
	0, 1, 2, // front
	2, 3, 0,
	0, 3, 7, // right
	7, 4, 0,
	2, 6, 7, // bottom
	7, 3, 2,
	1, 5, 6, // left
	6, 2, 1,
	4, 7, 6, // back
	6, 5, 4,
	5, 1, 0, // top
	0, 4, 5,
}

// NewCube builds the 8-vertex, 36-index cube. The second and third index
// of every triangle are swapped to flip the winding for a left-handed
// front-face convention.
func NewCube() *Mesh {
	idx := make([]uint32, len(cubeIndices))
	for i := 0; i < len(cubeIndices); i += 3 {
		idx[i] = cubeIndices[i]
		idx[i+1] = cubeIndices[i+2]
		idx[i+2] = cubeIndices[i+1]
	}
	verts := make([]Vertex, len(cubeVertices))
	copy(verts, cubeVertices)
	return &Mesh{Vertices: verts, Indices: idx}
}
