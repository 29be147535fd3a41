package driver

import "github.com/Carmen-Shannon/oxy-tunnel/engine/scene"

// DriverBuilderOption is a functional option for configuring a Driver.
type DriverBuilderOption func(d *driverImpl)

// WithBackend sets the backend that draws the scene.
//
// Parameters:
//   - b: the backend
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithBackend(b Backend) DriverBuilderOption {
	return func(d *driverImpl) {
		d.backend = b
	}
}

// WithSceneOptions passes extra options to scene.Build on every Start.
//
// Parameters:
//   - options: the scene options
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithSceneOptions(options ...scene.SceneBuilderOption) DriverBuilderOption {
	return func(d *driverImpl) {
		d.sceneOptions = append(d.sceneOptions, options...)
	}
}
