package mathutil

// World axes. The scene is Z-up with +Y pointing into the screen, matching
// the display SDK's convention for view offsets.
var (
	AxisX = Vec3{1, 0, 0}
	AxisY = Vec3{0, 1, 0}
	AxisZ = Vec3{0, 0, 1}

	// Forward is the direction every eye looks along.
	Forward = AxisY
	// WorldUp is the camera up vector.
	WorldUp = AxisZ
)
