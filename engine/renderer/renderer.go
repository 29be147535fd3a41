package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotReady is returned by Render when there is nothing to draw into yet: the renderer has not
// been initialised, has been disposed, or the surface has a zero size.
var ErrNotReady = errors.New("renderer: not ready")

// SurfaceSource is the window a renderer presents to.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform surface descriptor for WebGPU.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	surface     SurfaceSource
	backend     RendererBackend
	newBackend  func() (RendererBackend, error)

	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount

	width, height int
	ready         bool
}

// Renderer is the graphics backend the tunnel driver talks to: it accepts a built scene, a resize,
// one Render call per frame, and a Dispose teardown. GPU objects are created by Init and freed by
// Dispose, so a renderer can be initialised again after disposal.
type Renderer interface {
	// Init creates the GPU device, configures the surface and uploads the scene.
	// Calling Init on an initialised renderer is a no-op.
	//
	// Parameters:
	//   - s: the scene to upload
	//
	// Returns:
	//   - error: error if the device or any scene resource could not be created
	Init(s scene.Scene) error

	// Resize reconfigures the surface. A zero-size surface is remembered and makes Render
	// return ErrNotReady until a non-zero size arrives.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Render draws one composited frame: the scene pass followed by bloom.
	//
	// Parameters:
	//   - s: the scene passed to Init
	//
	// Returns:
	//   - error: ErrNotReady when the renderer cannot draw this frame, or a draw failure
	Render(s scene.Scene) error

	// Dispose releases every GPU resource. A second call is a no-op.
	//
	// Returns:
	//   - error: error if any resource failed to release
	Dispose() error

	// Ready reports whether Render can draw.
	Ready() bool
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given surface. No GPU work happens until Init.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the window to present to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		surface:     surface,
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.newBackend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.newBackend = func() (RendererBackend, error) {
				return newWGPURendererBackend(r.surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
			}
		}
	}
	return r
}

func (r *renderer) Init(s scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend != nil {
		return nil
	}
	if s == nil {
		return errors.New("renderer: nil scene")
	}

	backend, err := r.newBackend()
	if err != nil {
		return fmt.Errorf("renderer: create backend: %w", err)
	}
	backend.SetPresentMode(r.presentMode)

	r.width, r.height = r.surface.Width(), r.surface.Height()
	if r.width > 0 && r.height > 0 {
		if err := backend.ConfigureSurface(r.width, r.height); err != nil {
			return errors.Join(fmt.Errorf("renderer: configure surface: %w", err), backend.Release())
		}
	}
	if err := backend.UploadScene(s); err != nil {
		return errors.Join(fmt.Errorf("renderer: upload scene: %w", err), backend.Release())
	}

	r.backend = backend
	r.ready = r.width > 0 && r.height > 0
	common.Logger().Info("renderer initialised", "width", r.width, "height", r.height, "msaa", uint32(r.msaa))
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	r.ready = false
	if r.backend == nil || width <= 0 || height <= 0 {
		return
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		common.Logger().Warn("renderer: resize failed", "width", width, "height", height, "error", err)
		return
	}
	r.ready = true
}

func (r *renderer) Render(s scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.ready {
		return ErrNotReady
	}
	return r.backend.DrawFrame(s)
}

func (r *renderer) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend == nil {
		return nil
	}
	err := r.backend.Release()
	r.backend = nil
	r.ready = false
	common.Logger().Info("renderer disposed")
	return err
}

func (r *renderer) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}
