package input

// AggregatorBuilderOption is a functional option for configuring an aggregator.
// Use the With* functions to create options.
type AggregatorBuilderOption func(a *aggregatorImpl)

// WithViewport sets the initial pointer mapping domain.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - AggregatorBuilderOption: option function to apply
func WithViewport(width, height float64) AggregatorBuilderOption {
	return func(a *aggregatorImpl) {
		a.viewportWidth = width
		a.viewportHeight = height
	}
}

// WithYawRange sets the yaw targets at the left and right viewport edges.
//
// Parameters:
//   - left: yaw at x = 0
//   - right: yaw at x = width
//
// Returns:
//   - AggregatorBuilderOption: option function to apply
func WithYawRange(left, right float64) AggregatorBuilderOption {
	return func(a *aggregatorImpl) {
		a.yawRange = [2]float64{left, right}
	}
}

// WithTiltRange sets the tilt targets at the top and bottom viewport edges.
//
// Parameters:
//   - top: tilt at y = 0
//   - bottom: tilt at y = height
//
// Returns:
//   - AggregatorBuilderOption: option function to apply
func WithTiltRange(top, bottom float64) AggregatorBuilderOption {
	return func(a *aggregatorImpl) {
		a.tiltRange = [2]float64{top, bottom}
	}
}

// WithScrubCeiling sets the path parameter reached at full scroll progress.
//
// Parameters:
//   - ceiling: path parameter in [0, 1]
//
// Returns:
//   - AggregatorBuilderOption: option function to apply
func WithScrubCeiling(ceiling float64) AggregatorBuilderOption {
	return func(a *aggregatorImpl) {
		a.scrubCeiling = ceiling
	}
}

// WithInitialTargets sets the rotation targets before any pointer input arrives.
//
// Parameters:
//   - yaw: initial yaw target in radians
//   - tilt: initial tilt target in radians
//
// Returns:
//   - AggregatorBuilderOption: option function to apply
func WithInitialTargets(yaw, tilt float64) AggregatorBuilderOption {
	return func(a *aggregatorImpl) {
		a.targets.RotationYTarget = yaw
		a.targets.RotationZTarget = tilt
	}
}
