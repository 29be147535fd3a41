package timeline

type positionKind int

const (
	positionEnd positionKind = iota
	positionAbsolute
	positionLabel
)

// Position says where a child is placed on a timeline. The zero value appends at the current end.
type Position struct {
	kind   positionKind
	label  string
	offset float64
}

// At places a child at an absolute time in seconds.
func At(t float64) Position {
	return Position{kind: positionAbsolute, offset: t}
}

// End places a child offset seconds after the current end of the timeline (negative overlaps it).
func End(offset float64) Position {
	return Position{kind: positionEnd, offset: offset}
}

// Label places a child offset seconds after a named label.
func Label(name string, offset float64) Position {
	return Position{kind: positionLabel, label: name, offset: offset}
}

// TimelineBuilderOption is a functional option for configuring a timeline.
// Use the With* functions to create options.
type TimelineBuilderOption func(tl *timelineImpl)

// WithPaused creates the timeline paused, for timelines driven only by Seek or SetProgress.
//
// Returns:
//   - TimelineBuilderOption: option function to apply
func WithPaused() TimelineBuilderOption {
	return func(tl *timelineImpl) {
		tl.paused = true
	}
}

// WithOnComplete sets the callback fired when Advance reaches the end.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - TimelineBuilderOption: option function to apply
func WithOnComplete(fn func()) TimelineBuilderOption {
	return func(tl *timelineImpl) {
		tl.onComplete = fn
	}
}

// TweenOption configures a single tween added with To.
type TweenOption func(e *entry)

// WithEase sets the tween's ease. Defaults to None.
//
// Parameters:
//   - ease: the easing function
//
// Returns:
//   - TweenOption: option function to apply
func WithEase(ease Ease) TweenOption {
	return func(e *entry) {
		if ease != nil {
			e.ease = ease
		}
	}
}

// WithOnUpdate sets a callback receiving the target's value every time the tween renders a new value.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - TweenOption: option function to apply
func WithOnUpdate(fn func(value float64)) TweenOption {
	return func(e *entry) {
		e.onUpdate = fn
	}
}
