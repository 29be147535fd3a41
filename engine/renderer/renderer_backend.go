package renderer

import "github.com/Carmen-Shannon/oxy-tunnel/engine/scene"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing of the
// scene pass. WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// wgpuRendererBackend draws a tunnel scene onto a window surface.
type wgpuRendererBackend interface {
	// ConfigureSurface configures the surface and recreates every size-dependent target.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: error if a target could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// UploadScene creates the buffers, textures and bind groups of a scene, replacing any
	// previously uploaded scene.
	//
	// Parameters:
	//   - s: the scene to upload
	//
	// Returns:
	//   - error: error if a GPU resource could not be created
	UploadScene(s scene.Scene) error

	// DrawFrame writes the frame uniforms, draws the scene and its bloom, and presents.
	//
	// Parameters:
	//   - s: the uploaded scene
	//
	// Returns:
	//   - error: ErrNotReady when no surface texture or scene is available
	DrawFrame(s scene.Scene) error

	// Release frees every GPU resource, the device included.
	//
	// Returns:
	//   - error: joined errors of any failed release step
	Release() error
}
