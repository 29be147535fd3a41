package scroll

// ObserverBuilderOption is a functional option for configuring an observer.
// Use the With* functions to create options.
type ObserverBuilderOption func(o *observerImpl)

// WithViewportHeight sets the initial viewport height in pixels.
//
// Parameters:
//   - height: viewport height
//
// Returns:
//   - ObserverBuilderOption: option function to apply
func WithViewportHeight(height float64) ObserverBuilderOption {
	return func(o *observerImpl) {
		if height > 0 {
			o.viewportHeight = height
		}
	}
}

// WithPages sets the document height in viewport heights.
//
// Parameters:
//   - pages: document height (values below 1 are raised to 1)
//
// Returns:
//   - ObserverBuilderOption: option function to apply
func WithPages(pages float64) ObserverBuilderOption {
	return func(o *observerImpl) {
		o.pages = pages
	}
}

// WithLineHeight sets the distance scrolled by one wheel notch or arrow key.
//
// Parameters:
//   - px: distance in pixels
//
// Returns:
//   - ObserverBuilderOption: option function to apply
func WithLineHeight(px float64) ObserverBuilderOption {
	return func(o *observerImpl) {
		o.lineHeight = px
	}
}

// WithTickRate sets the frame rate the scrub springs are tuned for.
//
// Parameters:
//   - fps: frames per second
//
// Returns:
//   - ObserverBuilderOption: option function to apply
func WithTickRate(fps int) ObserverBuilderOption {
	return func(o *observerImpl) {
		o.tickRate = fps
	}
}

// ObserveOption configures a single subscription.
type ObserveOption func(s *subscriptionImpl)

// WithTrigger restricts the subscription to scroll offsets [start, end] in pixels
// instead of the whole document.
//
// Parameters:
//   - start: offset at which progress is 0
//   - end: offset at which progress is 1
//
// Returns:
//   - ObserveOption: option function to apply
func WithTrigger(start, end float64) ObserveOption {
	return func(s *subscriptionImpl) {
		s.start, s.end = start, end
		s.useDocument = false
	}
}

// WithScrub smooths delivered progress so it catches up with the scroll position in roughly
// the given number of seconds. 0 delivers raw progress synchronously.
//
// Parameters:
//   - seconds: catch-up time
//
// Returns:
//   - ObserveOption: option function to apply
func WithScrub(seconds float64) ObserveOption {
	return func(s *subscriptionImpl) {
		s.scrub = max(seconds, 0)
	}
}
