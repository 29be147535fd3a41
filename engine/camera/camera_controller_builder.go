package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a rig.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the rig's initial world-space position.
//
// Parameters:
//   - p: world-space position
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(p mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = p
	}
}

// WithRigUp sets the up vector used when the rig turns toward a target.
//
// Parameters:
//   - up: world-space up direction
//
// Returns:
//   - CameraControllerOption: functional option to set the up vector
func WithRigUp(up mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if up.Len() > 0 {
			cc.up = up.Normalize()
		}
	}
}

// WithTarget turns the rig toward an initial look-at point. Apply after WithPosition.
//
// Parameters:
//   - target: world-space look-at point
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.lookAt(target)
	}
}
