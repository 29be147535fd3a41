package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/driver"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scheduler"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scroll"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/window"
)

// engine implements the Engine interface.
// Everything runs on the window thread: the message loop polls events, then pumps the frame
// scheduler once per iteration.
type engine struct {
	cfg *config.Config

	quitChannel chan struct{}
	quitOnce    sync.Once

	window    window.Window
	scheduler scheduler.Scheduler
	observer  scroll.Observer
	driver    driver.Driver

	rendererOptions []renderer.RendererBuilderOption
	driverOptions   []driver.DriverBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine wires the window, frame scheduler, scroll observer and tunnel driver together.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Driver returns the tunnel driver.
	//
	// Returns:
	//   - driver.Driver: the driver
	Driver() driver.Driver

	// Scheduler returns the frame scheduler pumped by the message loop.
	//
	// Returns:
	//   - scheduler.Scheduler: the scheduler
	Scheduler() scheduler.Scheduler

	// Observer returns the scroll-progress observer fed by the window's wheel and key events.
	//
	// Returns:
	//   - scroll.Observer: the observer
	Observer() scroll.Observer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetFrameLimit(fps float64)

	// Run mounts the tunnel and blocks on the window message loop until the window closes or
	// Quit is called, then unmounts the tunnel and closes the window.
	//
	// Returns:
	//   - error: the mount error, or window close failures
	Run() error

	// Quit asks the message loop to stop after the current iteration.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine for the given configuration.
// Without WithWindow the engine opens a GLFW window sized from cfg.Window, so NewEngine must then
// be called on the goroutine that will call Run.
//
// Parameters:
//   - cfg: the validated configuration
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(cfg *config.Config, options ...EngineBuilderOption) Engine {
	e := &engine{
		cfg:              cfg,
		quitChannel:      make(chan struct{}),
		scheduler:        scheduler.NewScheduler(),
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
	}
	e.SetFrameLimit(float64(cfg.Window.FrameLimit))

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
	}

	e.observer = scroll.NewObserver(e.scheduler,
		scroll.WithViewportHeight(float64(e.window.Height())),
		scroll.WithPages(cfg.Scroll.Pages),
		scroll.WithLineHeight(cfg.Scroll.LineHeight),
		scroll.WithTickRate(cfg.Scroll.TickRate),
	)

	presentMode := renderer.PresentModeUncapped
	if cfg.Window.VSync {
		presentMode = renderer.PresentModeVSync
	}
	rendererOptions := append([]renderer.RendererBuilderOption{renderer.WithPresentMode(presentMode)}, e.rendererOptions...)
	driverOptions := append([]driver.DriverBuilderOption{
		driver.WithBackend(renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, rendererOptions...)),
	}, e.driverOptions...)
	e.driver = driver.NewDriver(cfg, e.window, e.scheduler, e.observer, driverOptions...)

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Driver() driver.Driver {
	return e.driver
}

func (e *engine) Scheduler() scheduler.Scheduler {
	return e.scheduler
}

func (e *engine) Observer() scroll.Observer {
	return e.observer
}

func (e *engine) Run() error {
	unsubscribe := []func(){
		e.window.OnScroll(e.observer.HandleWheel),
		e.window.OnKey(e.observer.HandleKey),
		e.window.OnResize(func(_, height int) {
			e.observer.SetViewport(float64(height))
		}),
	}
	defer func() {
		for _, unsub := range unsubscribe {
			unsub()
		}
	}()

	if err := e.driver.Start(); err != nil {
		return errors.Join(err, e.window.Close())
	}

	start := time.Now()
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
			return
		default:
		}

		frameStart := time.Now()
		e.scheduler.Pump(frameStart.Sub(start))

		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick()
		}

		if e.frameLimit > 0 {
			if remaining := e.frameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()

	e.window.SetUpdateCallback(nil)
	e.driver.Stop()
	e.observer.KillAll()
	common.Logger().Info("engine stopped")
	return e.window.Close()
}

// Quit signals the message loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetFrameLimit(fps float64) {
	if fps <= 0 {
		e.frameLimit = 0
		return
	}
	e.frameLimit = time.Duration(float64(time.Second) / fps)
}
