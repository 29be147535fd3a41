package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the world transform of the rig the camera is mounted in.
// The rig is placed on the tunnel path and turned to face a look-at target; the camera adds
// its own local yaw and tilt on top of the rig's orientation.
type CameraController interface {
	// Position returns the rig's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space rig position
	Position() mgl32.Vec3

	// SetPosition moves the rig without changing its orientation.
	//
	// Parameters:
	//   - p: world-space position
	SetPosition(p mgl32.Vec3)

	// Target returns the point the rig last turned to face.
	//
	// Returns:
	//   - mgl32.Vec3: world-space look-at point
	Target() mgl32.Vec3

	// SetTarget turns the rig so its local +Z axis points at target. When target coincides
	// with the rig position the orientation is left unchanged.
	//
	// Parameters:
	//   - target: world-space look-at point
	//
	// Returns:
	//   - bool: false if the orientation could not be updated
	SetTarget(target mgl32.Vec3) bool

	// Orientation returns the rig's rotation as a 4x4 matrix.
	//
	// Returns:
	//   - mgl32.Mat4: rotation-only matrix whose columns are the rig's x, y and z axes
	Orientation() mgl32.Mat4

	// World returns the rig's full local-to-world transform.
	//
	// Returns:
	//   - mgl32.Mat4: translation * orientation
	World() mgl32.Mat4
}
