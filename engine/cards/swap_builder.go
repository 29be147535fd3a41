package cards

import "time"

// SwapBuilderOption is a functional option for configuring a Swap.
type SwapBuilderOption func(s *swapImpl)

// WithDelay sets the interval between swaps. Non-positive values are ignored.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - SwapBuilderOption: option function to apply
func WithDelay(d time.Duration) SwapBuilderOption {
	return func(s *swapImpl) {
		if d > 0 {
			s.delay = d.Seconds()
		}
	}
}

// WithVerticalDistance sets the vertical step between slots in pixels.
//
// Parameters:
//   - px: the step
//
// Returns:
//   - SwapBuilderOption: option function to apply
func WithVerticalDistance(px float64) SwapBuilderOption {
	return func(s *swapImpl) {
		s.verticalDistance = px
	}
}

// WithPreset sets the easing and timing of every swap.
//
// Parameters:
//   - p: the preset
//
// Returns:
//   - SwapBuilderOption: option function to apply
func WithPreset(p Preset) SwapBuilderOption {
	return func(s *swapImpl) {
		s.preset = p
	}
}
