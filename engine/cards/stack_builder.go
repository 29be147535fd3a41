package cards

// StackBuilderOption is a functional option for configuring a Stack.
type StackBuilderOption func(s *stackImpl)

// WithOnStackComplete sets the callback fired when progress first reaches 0.9. It fires again only
// after progress has dropped back below 0.9.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - StackBuilderOption: option function to apply
func WithOnStackComplete(fn func()) StackBuilderOption {
	return func(s *stackImpl) {
		s.onComplete = fn
	}
}
