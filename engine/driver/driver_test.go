package driver

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scheduler"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scroll"
)

type fakeEvents struct {
	width, height int
	nextID        int
	resize        map[int]func(width, height int)
	move          map[int]func(x, y float64)
}

func newFakeEvents(width, height int) *fakeEvents {
	return &fakeEvents{
		width:  width,
		height: height,
		resize: make(map[int]func(width, height int)),
		move:   make(map[int]func(x, y float64)),
	}
}

func (f *fakeEvents) OnResize(cb func(width, height int)) func() {
	f.nextID++
	id := f.nextID
	f.resize[id] = cb
	return func() { delete(f.resize, id) }
}

func (f *fakeEvents) OnMouseMove(cb func(x, y float64)) func() {
	f.nextID++
	id := f.nextID
	f.move[id] = cb
	return func() { delete(f.move, id) }
}

func (f *fakeEvents) Width() int  { return f.width }
func (f *fakeEvents) Height() int { return f.height }

func (f *fakeEvents) listeners() int { return len(f.resize) + len(f.move) }

func (f *fakeEvents) fireResize(width, height int) {
	f.width, f.height = width, height
	for _, cb := range f.resize {
		cb(width, height)
	}
}

func (f *fakeEvents) fireMove(x, y float64) {
	for _, cb := range f.move {
		cb(x, y)
	}
}

type fakeBackend struct {
	inits, renders, disposes int
	resized                  [][2]int

	initErr    error
	renderErr  error
	disposeErr error
}

func (f *fakeBackend) Init(scene.Scene) error {
	f.inits++
	return f.initErr
}

func (f *fakeBackend) Resize(width, height int) {
	f.resized = append(f.resized, [2]int{width, height})
}

func (f *fakeBackend) Render(scene.Scene) error {
	f.renders++
	return f.renderErr
}

func (f *fakeBackend) Dispose() error {
	f.disposes++
	return f.disposeErr
}

type harness struct {
	cfg      *config.Config
	events   *fakeEvents
	backend  *fakeBackend
	sched    scheduler.Scheduler
	observer scroll.Observer
	driver   Driver
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Tube.TubularSegments = 24
	cfg.Tube.RadialSegments = 6
	cfg.Wireframe.TubularSegments = 12
	cfg.Wireframe.RadialSegments = 6
	cfg.Particles.Count = 40
	cfg.Tube.ProceduralSize = 16
	cfg.Scroll.Scrub = 0
	return cfg
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{
		cfg:     cfg,
		events:  newFakeEvents(800, 600),
		backend: &fakeBackend{},
		sched:   scheduler.NewScheduler(),
	}
	h.observer = scroll.NewObserver(h.sched, scroll.WithViewportHeight(600), scroll.WithPages(cfg.Scroll.Pages))
	h.driver = NewDriver(cfg, h.events, h.sched, h.observer, WithBackend(h.backend), WithSceneOptions(scene.WithComputeWorkers(2)))
	t.Cleanup(h.driver.Stop)
	return h
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	if err := h.driver.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	h := newHarness(t, smallConfig())
	h.start(t)

	if !h.driver.Mounted() || h.driver.Scene() == nil {
		t.Fatal("driver not mounted after Start")
	}
	if h.backend.inits != 1 {
		t.Errorf("inits = %d, want 1", h.backend.inits)
	}
	if h.events.listeners() != 2 {
		t.Errorf("listeners = %d, want 2", h.events.listeners())
	}
	if h.sched.Pending() != 1 {
		t.Errorf("pending frames = %d, want 1", h.sched.Pending())
	}
	if err := h.driver.Start(); !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("second Start = %v, want ErrAlreadyMounted", err)
	}

	h.driver.Stop()
	if h.driver.Mounted() || h.driver.Scene() != nil {
		t.Error("driver still mounted after Stop")
	}
	if h.events.listeners() != 0 {
		t.Errorf("listeners after Stop = %d, want 0", h.events.listeners())
	}
	if h.sched.Pending() != 0 {
		t.Errorf("pending frames after Stop = %d, want 0", h.sched.Pending())
	}
	if h.backend.disposes != 1 {
		t.Errorf("disposes = %d, want 1", h.backend.disposes)
	}

	h.driver.Stop()
	if h.backend.disposes != 1 {
		t.Errorf("second Stop disposed again: %d", h.backend.disposes)
	}
	if n := h.sched.Pump(0); n != 0 {
		t.Errorf("frames ran after Stop: %d", n)
	}
}

func TestStopBeforeStart(t *testing.T) {
	h := newHarness(t, smallConfig())
	h.driver.Stop()
	if h.backend.disposes != 0 {
		t.Errorf("disposes = %d, want 0", h.backend.disposes)
	}
	h.start(t)
	if !h.driver.Mounted() {
		t.Error("Start after Stop should mount")
	}
}

func TestRemountAfterStop(t *testing.T) {
	h := newHarness(t, smallConfig())
	h.start(t)
	h.driver.Stop()
	h.start(t)
	if h.backend.inits != 2 || h.events.listeners() != 2 || h.sched.Pending() != 1 {
		t.Errorf("inits=%d listeners=%d pending=%d", h.backend.inits, h.events.listeners(), h.sched.Pending())
	}
}

func TestStartFailureLeavesNothingSubscribed(t *testing.T) {
	initErr := errors.New("no adapter")
	tests := []struct {
		name    string
		mutate       func(cfg *config.Config, b *fakeBackend)
		wantErr      error
		wantDisposes int
	}{
		{
			name: "too few path points",
			mutate: func(cfg *config.Config, _ *fakeBackend) {
				cfg.Path.Points = cfg.Path.Points[:1]
			},
			wantErr:      path.ErrTooFewPoints,
			wantDisposes: 0,
		},
		{
			name: "backend init",
			mutate: func(_ *config.Config, b *fakeBackend) {
				b.initErr = initErr
			},
			wantErr:      initErr,
			wantDisposes: 1,
		},
		{
			name: "backend init with failing dispose",
			mutate: func(_ *config.Config, b *fakeBackend) {
				b.initErr = initErr
				b.disposeErr = errors.New("device lost")
			},
			wantErr:      initErr,
			wantDisposes: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, smallConfig())
			tt.mutate(h.cfg, h.backend)

			err := h.driver.Start()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Start = %v, want %v", err, tt.wantErr)
			}
			if h.driver.Mounted() {
				t.Error("driver mounted after failed Start")
			}
			if h.events.listeners() != 0 || h.sched.Pending() != 0 {
				t.Errorf("listeners=%d pending=%d after failed Start", h.events.listeners(), h.sched.Pending())
			}
			if h.backend.disposes != tt.wantDisposes {
				t.Errorf("disposes = %d, want %d", h.backend.disposes, tt.wantDisposes)
			}
		})
	}
}

func TestRotationEasesGeometrically(t *testing.T) {
	h := newHarness(t, smallConfig())
	h.start(t)

	h.events.fireMove(0, 0)
	targets := h.driver.Targets()
	if targets.RotationYTarget != 3.24 || targets.RotationZTarget != -0.1 {
		t.Fatalf("targets = %+v", targets)
	}

	start := h.driver.Camera()
	errY0 := targets.RotationYTarget - start.RotationY
	errZ0 := targets.RotationZTarget - start.RotationZ

	for n := 1; n <= 44; n++ {
		h.driver.UpdateCamera()
		s := h.driver.Camera()
		want := math.Pow(14.0/15.0, float64(n))
		if got := (targets.RotationYTarget - s.RotationY) / errY0; math.Abs(got-want) > 1e-9 {
			t.Fatalf("step %d: yaw residual %v, want %v", n, got, want)
		}
		if got := (targets.RotationZTarget - s.RotationZ) / errZ0; math.Abs(got-want) > 1e-9 {
			t.Fatalf("step %d: tilt residual %v, want %v", n, got, want)
		}
	}

	s := h.driver.Camera()
	if r := math.Abs(targets.RotationYTarget-s.RotationY) / math.Abs(errY0); r >= 0.05 {
		t.Errorf("after 44 steps yaw is %.1f%% from target, want < 5%%", r*100)
	}
}

func TestScrollSnapsPathParam(t *testing.T) {
	h := newHarness(t, smallConfig())
	h.start(t)

	tests := []struct {
		name   string
		scroll float64
		want   float64
	}{
		{name: "bottom", scroll: 1, want: 0.96},
		{name: "half", scroll: 0.5, want: 0.48},
		{name: "top", scroll: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.observer.ScrollTo(tt.scroll * h.observer.MaxScroll())
			if got := h.driver.Targets().PathParamTarget; math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("PathParamTarget = %v, want %v", got, tt.want)
			}

			h.driver.UpdateCamera()
			state := h.driver.Camera()
			if math.Abs(state.PathParam-tt.want) > 1e-9 {
				t.Fatalf("PathParam after one update = %v, want %v", state.PathParam, tt.want)
			}

			s := h.driver.Scene()
			p1 := s.Path().PositionAt(state.PathParam)
			p2 := s.Path().PositionAt(state.PathParam + h.cfg.Motion.Lookahead)
			rig := s.Camera().Controller().Position()
			for i := range 3 {
				if math.Abs(float64(rig[i])-p1[i]) > 1e-3 {
					t.Errorf("rig = %v, want %v", rig, p1)
					break
				}
			}
			lp := s.Light().Position()
			for i := range 3 {
				if math.Abs(float64(lp[i])-p2[i]) > 1e-3 {
					t.Errorf("light = %v, want %v", lp, p2)
					break
				}
			}
		})
	}
}

func TestScrollIgnoredAfterStop(t *testing.T) {
	h := newHarness(t, smallConfig())
	h.start(t)
	in := h.driver.Input()
	h.driver.Stop()

	h.observer.ScrollTo(h.observer.MaxScroll())
	if got := in.Targets().PathParamTarget; got != 0 {
		t.Errorf("PathParamTarget after Stop = %v, want 0", got)
	}
}

func TestRenderLoop(t *testing.T) {
	tests := []struct {
		name      string
		renderErr error
	}{
		{name: "ready"},
		{name: "not ready", renderErr: renderer.ErrNotReady},
		{name: "draw failure", renderErr: errors.New("lost device")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, smallConfig())
			h.backend.renderErr = tt.renderErr
			h.start(t)

			const frames = 3
			for range frames {
				if n := h.sched.Pump(0); n != 1 {
					t.Fatalf("pump ran %d callbacks, want 1", n)
				}
				if h.sched.Pending() != 1 {
					t.Fatalf("pending = %d, want 1 rescheduled frame", h.sched.Pending())
				}
			}
			if h.backend.renders != frames {
				t.Errorf("renders = %d, want %d", h.backend.renders, frames)
			}

			clouds := h.driver.Scene().Clouds()
			want := [3][3]float32{{0, 3 * 0.00002, 0}, {3 * 0.00005, 0, 0}, {0, 0, 3 * 0.00001}}
			for i, c := range clouds {
				rot := c.Rotation()
				for k := range 3 {
					if math.Abs(float64(rot[k]-want[i][k])) > 1e-7 {
						t.Errorf("cloud %d rotation = %v, want %v", i, rot, want[i])
						break
					}
				}
			}
			if off := h.driver.Scene().TextureOffset(); math.Abs(float64(off[0])-3*0.004) > 1e-6 {
				t.Errorf("texture offset = %v, want %v", off[0], 3*0.004)
			}
		})
	}
}

func TestResizeUpdatesViewport(t *testing.T) {
	h := newHarness(t, smallConfig())
	h.start(t)

	h.events.fireResize(1024, 512)
	if vp := h.driver.Scene().Viewport(); vp.Width != 1024 || vp.Height != 512 {
		t.Errorf("viewport = %+v", vp)
	}
	if len(h.backend.resized) != 1 || h.backend.resized[0] != [2]int{1024, 512} {
		t.Errorf("backend resizes = %v", h.backend.resized)
	}
	if aspect := h.driver.Scene().Camera().Aspect(); math.Abs(float64(aspect)-2) > 1e-6 {
		t.Errorf("aspect = %v, want 2", aspect)
	}

	// The pointer now maps across the new width.
	h.events.fireMove(1024, 512)
	if got := h.driver.Targets(); math.Abs(got.RotationYTarget-3.04) > 1e-9 || math.Abs(got.RotationZTarget-0.1) > 1e-9 {
		t.Errorf("targets = %+v", got)
	}
}

func TestDisposeFailureStillUnmounts(t *testing.T) {
	h := newHarness(t, smallConfig())
	h.backend.disposeErr = errors.New("device lost")
	h.start(t)
	h.driver.Stop()
	if h.driver.Mounted() || h.events.listeners() != 0 || h.sched.Pending() != 0 {
		t.Error("teardown incomplete after dispose failure")
	}
}
