package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// minLookDistance is the distance below which a look-at target is treated as coincident.
const minLookDistance = 1e-6

// cameraControllerImpl is the rig implementation of the CameraController interface.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position    mgl32.Vec3
	target      mgl32.Vec3
	up          mgl32.Vec3
	orientation mgl32.Mat4
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a rig at the origin facing +Z.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - CameraController: the new rig
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:          &sync.Mutex{},
		up:          mgl32.Vec3{0, 1, 0},
		target:      mgl32.Vec3{0, 0, 1},
		orientation: mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(p mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = p
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.lookAt(target)
}

func (cc *cameraControllerImpl) Orientation() mgl32.Mat4 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.orientation
}

func (cc *cameraControllerImpl) World() mgl32.Mat4 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return mgl32.Translate3D(cc.position.X(), cc.position.Y(), cc.position.Z()).Mul4(cc.orientation)
}

// lookAt rebuilds the orientation so +Z points from the rig toward target. Caller must hold the mutex.
func (cc *cameraControllerImpl) lookAt(target mgl32.Vec3) bool {
	z := target.Sub(cc.position)
	if z.Len() < minLookDistance {
		return false
	}
	z = z.Normalize()

	x := cc.up.Cross(z)
	if x.Len() < minLookDistance {
		// Facing straight along up: nudge z so a horizontal axis exists.
		if absf(cc.up.Z()) == 1 {
			z[0] += 1e-4
		} else {
			z[2] += 1e-4
		}
		z = z.Normalize()
		x = cc.up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	cc.orientation = mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
	cc.target = target
	return true
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
