package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	yaw  float32
	tilt float32

	world                mgl32.Mat4
	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the tunnel camera.
// The camera is mounted inside a rig (the CameraController) that travels along the path. It looks down
// its local -Z axis and applies its own yaw (rotation about local Y) and tilt (rotation about local Z)
// on top of the rig's orientation. Matrices are recomputed on Update() and on any setter call.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Rotation returns the camera's local yaw and tilt in radians.
	//
	// Returns:
	//   - yaw: rotation about the local Y axis
	//   - tilt: rotation about the local Z axis
	Rotation() (yaw, tilt float32)

	// ViewMatrix returns the current view matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix (column-major, depth in [0, 1]).
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: camera position
	Position() mgl32.Vec3

	// Forward returns the unit world-space direction the camera looks along.
	//
	// Returns:
	//   - mgl32.Vec3: view direction
	Forward() mgl32.Vec3

	// Controller returns the rig the camera is mounted in.
	//
	// Returns:
	//   - CameraController: the rig
	Controller() CameraController

	// Update re-reads the rig transform and recomputes all matrices.
	// Should be called once per frame after the rig has been moved.
	Update()

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetRotation sets the camera's local yaw and tilt and recomputes matrices.
	//
	// Parameters:
	//   - yaw: rotation about the local Y axis in radians
	//   - tilt: rotation about the local Z axis in radians
	SetRotation(yaw, tilt float32)

	// SetController mounts the camera in a different rig.
	//
	// Parameters:
	//   - ctrl: the rig to mount in
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the provided options.
// Defaults to a 45 degree field of view, a 16:9 aspect ratio, near 0.01, far 200 and a rig at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    mgl32.DegToRad(45),
		aspect: 16.0 / 9.0,
		near:   0.01,
		far:    200,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Rotation() (yaw, tilt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw, c.tilt
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.world.Col(3).Vec3()
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.world.Col(2).Vec3().Mul(-1).Normalize()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetRotation(yaw, tilt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw = yaw
	c.tilt = tilt
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recomputes the world, view and projection matrices. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	rig := mgl32.Ident4()
	if c.controller != nil {
		rig = c.controller.World()
	}
	// Euler XYZ with no pitch: Ry * Rz.
	local := mgl32.HomogRotate3DY(c.yaw).Mul4(mgl32.HomogRotate3DZ(c.tilt))
	c.world = rig.Mul4(local)

	if c.world.Det() != 0 {
		c.viewMatrix = c.world.Inv()
	} else {
		c.viewMatrix = mgl32.Ident4()
	}
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
