package camera

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithRotation sets the camera's initial local yaw and tilt.
//
// Parameters:
//   - yaw: rotation about the local Y axis in radians
//   - tilt: rotation about the local Z axis in radians
//
// Returns:
//   - CameraBuilderOption: functional option to set the rotation
func WithRotation(yaw, tilt float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
		c.tilt = tilt
	}
}

// WithController mounts the camera in the given rig.
// After all options are applied, the camera recomputes its matrices from the rig's state.
//
// Parameters:
//   - ctrl: the rig to mount in
//
// Returns:
//   - CameraBuilderOption: functional option to set the rig
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
