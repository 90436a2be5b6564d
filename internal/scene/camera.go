// Package scene renders the spinning cube once per eye.
package scene

import (
	"fmt"
	"math"

	"stereo-sample/internal/display"
	"stereo-sample/internal/mathutil"
)

// Projection constants.
const (
	FieldOfView = 90.0 // degrees, vertical
	Near        = 0.01
	Far         = 1000.0
)

// Rotation speeds in radians per second about X, Y and Z.
var spin = mathutil.Vec3{0.1, 0.2, 0.3}

// ViewParams is everything needed to place one eye for one frame.
type ViewParams struct {
	Index       int
	Offset      mathutil.Vec3
	Convergence float64
	Aspect      float64
	// Time is the accumulated elapsed time in seconds.
	Time float64
}

// Matrices holds the per-eye transforms.
type Matrices struct {
	ShearX, ShearY float64
	Projection     mathutil.Mat4
	View           mathutil.Mat4
	Model          mathutil.Mat4
	MVP            mathutil.Mat4
}

// Shear returns the off-axis projection shear for a view offset. The
// convergence distance must be positive and finite.
func Shear(offset mathutil.Vec3, convergence float64) (sx, sy float64, err error) {
	if err := checkConvergence(convergence); err != nil {
		return 0, 0, err
	}
	return -offset.X() / convergence, -offset.Z() / convergence, nil
}

func checkConvergence(c float64) error {
	if c > 0 && !math.IsInf(c, 1) {
		return nil
	}
	return &display.CollaboratorError{Op: "convergence distance",
		Err: fmt.Errorf("%w: %v", display.ErrConvergence, c)}
}

// Projection builds the symmetric perspective for the given aspect ratio
// and skews it by (sx, sy).
func Projection(aspect, sx, sy float64) mathutil.Mat4 {
	p := mathutil.Perspective(mathutil.Deg2Rad(FieldOfView), aspect, Near, Far)
	p.Set(0, 2, p.At(0, 0)*sx)
	p.Set(1, 2, p.At(1, 1)*sy)
	return p
}

// Camera returns the view matrix for an eye displaced by offset from the
// origin. Offsets are (lateral, depth, vertical) in the Z-up world, the
// same axes Shear reads. The offset is not swizzled to (x, z, y): that
// ordering only agrees with this one for purely lateral offsets, so an SDK
// binding that reports vertical offsets in y must remap them first.
func Camera(offset mathutil.Vec3) mathutil.Mat4 {
	return mathutil.LookAt(offset, offset.Add(mathutil.Forward), mathutil.WorldUp)
}

// Model places the cube at the convergence distance straight ahead and
// spins it as a pure function of t.
func Model(t, convergence float64) mathutil.Mat4 {
	rot := mathutil.RotXYZ(spin[0]*t, spin[1]*t, spin[2]*t)
	return mathutil.FromMat3Translation(rot, mathutil.Forward.Scale(convergence))
}

// ViewMatrices computes the full transform chain for one eye.
func ViewMatrices(p ViewParams) (Matrices, error) {
	sx, sy, err := Shear(p.Offset, p.Convergence)
	if err != nil {
		return Matrices{}, err
	}
	if !(p.Aspect > 0) {
		return Matrices{}, fmt.Errorf("scene: view %d: aspect ratio %v", p.Index, p.Aspect)
	}
	m := Matrices{
		ShearX:     sx,
		ShearY:     sy,
		Projection: Projection(p.Aspect, sx, sy),
		View:       Camera(p.Offset),
		Model:      Model(p.Time, p.Convergence),
	}
	m.MVP = mathutil.Mat4Mul(mathutil.Mat4Mul(m.Projection, m.View), m.Model)
	return m, nil
}
