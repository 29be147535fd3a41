// Package driver runs the scroll-synchronized tunnel: it mounts the scene, feeds pointer and scroll
// input into camera targets, eases the camera toward them each frame and draws the composited frame.
package driver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/input"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scheduler"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scroll"
)

// ErrAlreadyMounted is returned by Start on a driver that is already running.
var ErrAlreadyMounted = errors.New("driver: already mounted")

// EventSource supplies the viewport size and the pointer and resize events the driver listens to.
// window.Window satisfies it.
type EventSource interface {
	OnResize(callback func(width, height int)) func()
	OnMouseMove(callback func(x, y float64)) func()
	Width() int
	Height() int
}

// Backend draws the scene. renderer.Renderer satisfies it.
type Backend interface {
	Init(s scene.Scene) error
	Resize(width, height int)
	Render(s scene.Scene) error
	Dispose() error
}

// CameraState is the eased camera state the driver writes each frame.
type CameraState struct {
	// RotationY and RotationZ are the camera's local yaw and tilt in radians.
	RotationY, RotationZ float64
	// PathParam is the normalized arc-length position of the rig, in [0, 1].
	PathParam float64
}

// Driver owns the mounted tunnel: its scene, input targets, listeners and pending frame.
type Driver interface {
	// Start builds the scene, initialises the backend, subscribes the resize, pointer and scroll
	// listeners and requests the first frame. On failure nothing stays subscribed.
	//
	// Returns:
	//   - error: ErrAlreadyMounted, a path construction error or a backend init error
	Start() error

	// Stop removes every listener, cancels the pending frame, disposes the backend and kills the
	// scroll subscription and input timeline. Safe to call when not mounted and more than once.
	Stop()

	// Mounted reports whether Start has succeeded and Stop has not been called since.
	Mounted() bool

	// UpdateCamera eases the rotations toward their targets, snaps the path parameter to its
	// target and places the rig and point light on the path.
	UpdateCamera()

	// RenderFrame is the frame callback: camera update, scene animation, draw, then a request for
	// the next frame.
	//
	// Parameters:
	//   - now: the frame time
	RenderFrame(now time.Duration)

	// Scene returns the mounted scene, nil when unmounted.
	Scene() scene.Scene

	// Targets returns the current input targets.
	Targets() input.TargetState

	// Camera returns the eased camera state.
	Camera() CameraState

	// Input returns the input aggregator of the mounted scene, nil when unmounted.
	Input() input.Aggregator
}

// driverImpl is the implementation of the Driver interface.
type driverImpl struct {
	mu *sync.Mutex

	cfg      *config.Config
	events   EventSource
	sched    scheduler.Scheduler
	observer scroll.Observer
	backend  Backend

	sceneOptions []scene.SceneBuilderOption

	mounted bool
	scene   scene.Scene
	input   input.Aggregator
	state   CameraState

	frame        scheduler.Handle
	unsubscribe  []func()
	subscription scroll.Subscription
}

var _ Driver = &driverImpl{}

// NewDriver creates an unmounted driver.
//
// Parameters:
//   - cfg: the configuration the scene and motion are built from
//   - events: source of resize and pointer events
//   - sched: the frame scheduler
//   - observer: the scroll-progress observer
//   - options: functional options
//
// Returns:
//   - Driver: the unmounted driver
func NewDriver(cfg *config.Config, events EventSource, sched scheduler.Scheduler, observer scroll.Observer, options ...DriverBuilderOption) Driver {
	d := &driverImpl{
		mu:       &sync.Mutex{},
		cfg:      cfg,
		events:   events,
		sched:    sched,
		observer: observer,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *driverImpl) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mounted {
		return ErrAlreadyMounted
	}
	if d.backend == nil {
		return errors.New("driver: no backend")
	}

	p, err := scene.BuildPath(d.cfg.Path)
	if err != nil {
		return err
	}
	width, height := d.events.Width(), d.events.Height()
	opts := append([]scene.SceneBuilderOption{scene.WithViewport(width, height)}, d.sceneOptions...)
	s, err := scene.Build(d.cfg, p, opts...)
	if err != nil {
		return err
	}
	if err := d.backend.Init(s); err != nil {
		if disposeErr := d.backend.Dispose(); disposeErr != nil {
			common.Logger().Warn("tunnel dispose after failed init", "err", disposeErr)
		}
		return fmt.Errorf("driver: backend init: %w", err)
	}

	motion := d.cfg.Motion
	d.input = input.NewAggregator(
		input.WithViewport(float64(width), float64(height)),
		input.WithYawRange(motion.YawRange[0], motion.YawRange[1]),
		input.WithTiltRange(motion.TiltRange[0], motion.TiltRange[1]),
		input.WithScrubCeiling(motion.ScrubCeiling),
		input.WithInitialTargets(d.cfg.Camera.InitialYaw, d.cfg.Camera.InitialTilt),
	)
	d.scene = s
	d.state = CameraState{RotationY: d.cfg.Camera.InitialYaw, RotationZ: d.cfg.Camera.InitialTilt}

	d.unsubscribe = append(d.unsubscribe,
		d.events.OnResize(d.handleResize),
		d.events.OnMouseMove(d.input.HandlePointer),
	)
	d.subscription = d.observer.Observe(d.input.HandleScroll, scroll.WithScrub(d.cfg.Scroll.Scrub))
	d.frame = d.sched.RequestFrame(d.RenderFrame)
	d.mounted = true

	common.Logger().Info("tunnel mounted", "width", width, "height", height, "pathLength", p.Length())
	return nil
}

func (d *driverImpl) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, unsub := range d.unsubscribe {
		unsub()
	}
	d.unsubscribe = nil

	d.sched.CancelFrame(d.frame)
	d.frame = 0

	if d.subscription != nil {
		d.subscription.Kill()
		d.subscription = nil
	}
	if d.input != nil {
		d.input.Kill()
	}

	if d.mounted {
		if err := d.backend.Dispose(); err != nil {
			common.Logger().Warn("tunnel dispose failed", "err", err)
		}
		common.Logger().Info("tunnel unmounted")
	}
	d.mounted = false
	d.scene = nil
	d.input = nil
}

func (d *driverImpl) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted
}

func (d *driverImpl) UpdateCamera() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updateCamera()
}

// updateCamera applies one step of the camera law. Caller must hold the mutex.
func (d *driverImpl) updateCamera() {
	if d.scene == nil {
		return
	}
	t := d.input.Targets()
	damping := d.cfg.Motion.Damping

	d.state.RotationY += (t.RotationYTarget - d.state.RotationY) / damping
	d.state.RotationZ += (t.RotationZTarget - d.state.RotationZ) / damping
	d.state.PathParam = common.Clamp(t.PathParamTarget, 0, 1)

	p := d.scene.Path()
	p1 := p.PositionAt(d.state.PathParam)
	p2 := p.PositionAt(d.state.PathParam + d.cfg.Motion.Lookahead)

	rig := d.scene.Camera().Controller()
	rig.SetPosition(common.Vec3From64(p1.X(), p1.Y(), p1.Z()))
	rig.SetTarget(common.Vec3From64(p2.X(), p2.Y(), p2.Z()))
	d.scene.Camera().SetRotation(float32(d.state.RotationY), float32(d.state.RotationZ))
	d.scene.Light().SetPosition(float32(p2.X()), float32(p2.Y()), float32(p2.Z()))
}

func (d *driverImpl) RenderFrame(_ time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.mounted {
		return
	}
	d.updateCamera()
	d.scene.Animate()

	if err := d.backend.Render(d.scene); err != nil {
		if errors.Is(err, renderer.ErrNotReady) {
			common.Logger().Debug("frame skipped", "reason", err)
		} else {
			common.Logger().Warn("frame failed", "err", err)
		}
	}
	d.frame = d.sched.RequestFrame(d.RenderFrame)
}

// handleResize runs on the window thread for every framebuffer size change.
func (d *driverImpl) handleResize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.mounted {
		return
	}
	d.scene.SetViewport(width, height)
	d.input.SetViewport(float64(width), float64(height))
	d.backend.Resize(width, height)
}

func (d *driverImpl) Scene() scene.Scene {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scene
}

func (d *driverImpl) Targets() input.TargetState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.input == nil {
		return input.TargetState{}
	}
	return d.input.Targets()
}

func (d *driverImpl) Camera() CameraState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *driverImpl) Input() input.Aggregator {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input
}
