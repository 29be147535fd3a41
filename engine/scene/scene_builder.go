package scene

import (
	"runtime"
	"time"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *buildOptions)

type buildOptions struct {
	name           string
	computeWorkers int
	poolIdle       time.Duration
	viewport       Viewport
}

func defaultBuildOptions() *buildOptions {
	return &buildOptions{
		name:           "tunnel",
		computeWorkers: max(runtime.NumCPU()-1, 1),
		poolIdle:       time.Second,
		viewport:       Viewport{Width: 1280, Height: 720},
	}
}

// WithName sets the scene name.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(o *buildOptions) {
		o.name = name
	}
}

// WithComputeWorkers sets the number of worker goroutines used to generate geometry and textures
// during Build. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(o *buildOptions) {
		o.computeWorkers = max(n, 1)
	}
}

// WithViewport sets the initial drawable size, which also fixes the camera's initial aspect ratio.
//
// Parameters:
//   - width: drawable width in pixels
//   - height: drawable height in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithViewport(width, height int) SceneBuilderOption {
	return func(o *buildOptions) {
		o.viewport = Viewport{Width: width, Height: height}
	}
}
