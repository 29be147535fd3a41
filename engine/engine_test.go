package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/driver"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeWindow runs a fixed number of message loop iterations. onIteration fires before the
// update callback of each iteration and may emit events.
type fakeWindow struct {
	width, height int
	iterations    int
	onIteration   func(w *fakeWindow, i int)

	running  bool
	closes   int
	update   func()
	resize   map[int]func(int, int)
	move     map[int]func(float64, float64)
	scroll   map[int]func(float64)
	key      map[int]func(uint32)
	nextID   int
	ranIters int
}

func newFakeWindow(iterations int) *fakeWindow {
	return &fakeWindow{
		width:      800,
		height:     600,
		iterations: iterations,
		running:    true,
		resize:     make(map[int]func(int, int)),
		move:       make(map[int]func(float64, float64)),
		scroll:     make(map[int]func(float64)),
		key:        make(map[int]func(uint32)),
	}
}

func subscribe[F any](w *fakeWindow, m map[int]F, fn F) func() {
	w.nextID++
	id := w.nextID
	m[id] = fn
	return func() { delete(m, id) }
}

func (w *fakeWindow) SetUpdateCallback(cb func())                      { w.update = cb }
func (w *fakeWindow) OnResize(cb func(width, height int)) func()       { return subscribe(w, w.resize, cb) }
func (w *fakeWindow) OnMouseMove(cb func(x, y float64)) func()         { return subscribe(w, w.move, cb) }
func (w *fakeWindow) OnScroll(cb func(notches float64)) func()         { return subscribe(w, w.scroll, cb) }
func (w *fakeWindow) OnKey(cb func(keyCode uint32)) func()             { return subscribe(w, w.key, cb) }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor       { return nil }
func (w *fakeWindow) IsRunning() bool                                  { return w.running }
func (w *fakeWindow) RequestClose()                                    { w.running = false }
func (w *fakeWindow) Width() int                                       { return w.width }
func (w *fakeWindow) Height() int                                      { return w.height }
func (w *fakeWindow) ListenerCount() int {
	return len(w.resize) + len(w.move) + len(w.scroll) + len(w.key)
}

func (w *fakeWindow) Close() error {
	w.closes++
	w.running = false
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.iterations && w.running; i++ {
		if w.onIteration != nil {
			w.onIteration(w, i)
		}
		if w.update != nil {
			w.update()
		}
		w.ranIters++
	}
}

func (w *fakeWindow) emitKey(k uint32) {
	for _, fn := range w.key {
		fn(k)
	}
}

func (w *fakeWindow) emitScroll(n float64) {
	for _, fn := range w.scroll {
		fn(n)
	}
}

type countingBackend struct {
	inits, renders, disposes int
	initErr                  error
}

func (b *countingBackend) Init(scene.Scene) error {
	b.inits++
	return b.initErr
}
func (b *countingBackend) Resize(int, int)          {}
func (b *countingBackend) Render(scene.Scene) error { b.renders++; return nil }
func (b *countingBackend) Dispose() error           { b.disposes++; return nil }

func testConfig() *config.Config {
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

func newTestEngine(w *fakeWindow, b *countingBackend, cfg *config.Config, opts ...EngineBuilderOption) Engine {
	opts = append(opts, WithWindow(w), WithDriverOptions(
		driver.WithBackend(b),
		driver.WithSceneOptions(scene.WithComputeWorkers(2)),
	))
	return NewEngine(cfg, opts...)
}

func TestRunPumpsOneFramePerIteration(t *testing.T) {
	w := newFakeWindow(5)
	b := &countingBackend{}
	e := newTestEngine(w, b, testConfig(), WithProfiling(true))

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b.inits != 1 || b.renders != 5 || b.disposes != 1 {
		t.Errorf("inits=%d renders=%d disposes=%d, want 1/5/1", b.inits, b.renders, b.disposes)
	}
	if w.ListenerCount() != 0 {
		t.Errorf("listeners after Run = %d", w.ListenerCount())
	}
	if w.closes != 1 {
		t.Errorf("closes = %d, want 1", w.closes)
	}
	if e.Driver().Mounted() || e.Scheduler().Pending() != 0 {
		t.Error("driver still mounted or frames pending after Run")
	}
}

func TestQuitStopsLoop(t *testing.T) {
	w := newFakeWindow(100)
	b := &countingBackend{}
	e := newTestEngine(w, b, testConfig())
	w.onIteration = func(_ *fakeWindow, i int) {
		if i == 2 {
			e.Quit()
			e.Quit()
		}
	}

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b.renders != 2 {
		t.Errorf("renders = %d, want 2", b.renders)
	}
	if w.ranIters != 3 {
		t.Errorf("iterations = %d, want 3", w.ranIters)
	}
}

func TestRunMountFailureClosesWindow(t *testing.T) {
	w := newFakeWindow(5)
	b := &countingBackend{initErr: errors.New("no adapter")}
	e := newTestEngine(w, b, testConfig())

	if err := e.Run(); !errors.Is(err, b.initErr) {
		t.Fatalf("Run = %v, want init error", err)
	}
	if w.closes != 1 || w.ranIters != 0 || w.ListenerCount() != 0 {
		t.Errorf("closes=%d iterations=%d listeners=%d", w.closes, w.ranIters, w.ListenerCount())
	}
}

func TestKeyAndWheelScrollTheTunnel(t *testing.T) {
	cfg := testConfig()
	w := newFakeWindow(4)
	b := &countingBackend{}
	e := newTestEngine(w, b, cfg)

	var afterEnd, afterWheel float64
	w.onIteration = func(w *fakeWindow, i int) {
		switch i {
		case 0:
			w.emitKey(common.KeyEnd)
		case 1:
			afterEnd = e.Driver().Camera().PathParam
			// One notch up from the bottom.
			w.emitScroll(1)
		case 2:
			afterWheel = e.Driver().Camera().PathParam
		}
	}

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.Abs(afterEnd-cfg.Motion.ScrubCeiling) > 1e-9 {
		t.Errorf("path param after End = %v, want %v", afterEnd, cfg.Motion.ScrubCeiling)
	}
	maxScroll := float64(w.height) * (cfg.Scroll.Pages - 1)
	want := (maxScroll - cfg.Scroll.LineHeight) / maxScroll * cfg.Motion.ScrubCeiling
	if math.Abs(afterWheel-want) > 1e-9 {
		t.Errorf("path param after wheel = %v, want %v", afterWheel, want)
	}
}

func TestSetFrameLimit(t *testing.T) {
	e := &engine{}
	e.SetFrameLimit(50)
	if e.frameLimit.Milliseconds() != 20 {
		t.Errorf("frameLimit = %v, want 20ms", e.frameLimit)
	}
	e.SetFrameLimit(0)
	if e.frameLimit != 0 {
		t.Errorf("frameLimit = %v, want 0", e.frameLimit)
	}
}
