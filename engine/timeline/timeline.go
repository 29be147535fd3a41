package timeline

import (
	"math"
	"sort"
)

// Timeline sequences tweens, instantaneous sets, callbacks and labels on a shared playhead.
// The playhead can be advanced in real time (Advance) or scrubbed directly (Seek, SetProgress).
//
// A Timeline is driven from a single goroutine; callbacks run synchronously inside the call that
// moved the playhead and may call back into the timeline's read-only accessors.
type Timeline interface {
	// To appends a tween that animates *target to value over duration seconds.
	// The start value is captured the first time the playhead reaches the tween.
	//
	// Parameters:
	//   - target: the value to animate
	//   - value: the end value
	//   - duration: tween length in seconds (0 behaves like Set)
	//   - position: where the tween starts
	//   - options: ease and callbacks
	//
	// Returns:
	//   - Timeline: the same timeline for chaining
	To(target *float64, value, duration float64, position Position, options ...TweenOption) Timeline

	// Set writes value into *target when the playhead reaches position, and restores the
	// previous value if the playhead moves back before it.
	//
	// Parameters:
	//   - target: the value to write
	//   - value: the value to write
	//   - position: when the write happens
	//
	// Returns:
	//   - Timeline: the same timeline for chaining
	Set(target *float64, value float64, position Position) Timeline

	// Call runs fn when the playhead moves forward across position.
	//
	// Parameters:
	//   - fn: the callback
	//   - position: when the callback fires
	//
	// Returns:
	//   - Timeline: the same timeline for chaining
	Call(fn func(), position Position) Timeline

	// AddLabel names a time on the timeline for use in later positions.
	//
	// Parameters:
	//   - name: label name
	//   - position: the labelled time
	//
	// Returns:
	//   - Timeline: the same timeline for chaining
	AddLabel(name string, position Position) Timeline

	// LabelTime returns the time of a label.
	//
	// Parameters:
	//   - name: label name
	//
	// Returns:
	//   - float64: the label time in seconds
	//   - bool: false if the label does not exist
	LabelTime(name string) (float64, bool)

	// Duration returns the end time of the last child.
	//
	// Returns:
	//   - float64: duration in seconds
	Duration() float64

	// Time returns the playhead position in seconds.
	//
	// Returns:
	//   - float64: playhead time
	Time() float64

	// Progress returns the playhead position as a fraction of Duration.
	//
	// Returns:
	//   - float64: progress in [0, 1]
	Progress() float64

	// Seek moves the playhead to t seconds (clamped to [0, Duration]) and renders every child.
	//
	// Parameters:
	//   - t: the new playhead time
	Seek(t float64)

	// SetProgress moves the playhead to the fraction p of Duration; p is clamped to [0, 1].
	//
	// Parameters:
	//   - p: progress fraction
	SetProgress(p float64)

	// Advance moves the playhead forward by dt seconds unless paused. When the playhead reaches
	// the end the complete callback fires once.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - bool: true once the playhead is at the end
	Advance(dt float64) bool

	// Play resumes time-driven playback.
	Play()

	// Pause suspends time-driven playback. Seek and SetProgress still work.
	Pause()

	// Paused reports whether Advance is currently ignored.
	//
	// Returns:
	//   - bool: true if paused
	Paused() bool

	// OnComplete sets the callback fired when Advance reaches the end.
	//
	// Parameters:
	//   - fn: the callback, or nil
	OnComplete(fn func())

	// Kill stops the timeline permanently. Every later call is a no-op.
	Kill()

	// Killed reports whether Kill has been called.
	//
	// Returns:
	//   - bool: true after Kill
	Killed() bool
}

type entryKind int

const (
	kindTween entryKind = iota
	kindSet
	kindCall
)

// entry is one child of the timeline.
type entry struct {
	kind     entryKind
	seq      int
	start    float64
	duration float64

	target   *float64
	to       float64
	from     float64
	captured bool
	ease     Ease
	onUpdate func(value float64)
	lastP    float64

	fn func()
}

func (e *entry) end() float64 {
	return e.start + e.duration
}

// timelineImpl is the implementation of the Timeline interface.
type timelineImpl struct {
	entries    []*entry
	labels     map[string]float64
	duration   float64
	time       float64
	rendered   bool
	paused     bool
	killed     bool
	completed  bool
	onComplete func()
	seq        int
}

var _ Timeline = &timelineImpl{}

// NewTimeline creates an empty timeline. Time-driven playback starts unpaused.
//
// Parameters:
//   - options: functional options to configure the timeline
//
// Returns:
//   - Timeline: the new timeline
func NewTimeline(options ...TimelineBuilderOption) Timeline {
	tl := &timelineImpl{
		labels: make(map[string]float64),
	}
	for _, opt := range options {
		opt(tl)
	}
	return tl
}

func (tl *timelineImpl) To(target *float64, value, duration float64, position Position, options ...TweenOption) Timeline {
	if tl.killed || target == nil {
		return tl
	}
	e := &entry{
		kind:     kindTween,
		start:    tl.resolve(position),
		duration: math.Max(duration, 0),
		target:   target,
		to:       value,
		ease:     None,
		lastP:    -1,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.duration == 0 {
		e.kind = kindSet
	}
	tl.add(e)
	return tl
}

func (tl *timelineImpl) Set(target *float64, value float64, position Position) Timeline {
	if tl.killed || target == nil {
		return tl
	}
	tl.add(&entry{kind: kindSet, start: tl.resolve(position), target: target, to: value, ease: None, lastP: -1})
	return tl
}

func (tl *timelineImpl) Call(fn func(), position Position) Timeline {
	if tl.killed || fn == nil {
		return tl
	}
	tl.add(&entry{kind: kindCall, start: tl.resolve(position), fn: fn})
	return tl
}

func (tl *timelineImpl) AddLabel(name string, position Position) Timeline {
	if tl.killed {
		return tl
	}
	tl.labels[name] = tl.resolve(position)
	return tl
}

func (tl *timelineImpl) LabelTime(name string) (float64, bool) {
	t, ok := tl.labels[name]
	return t, ok
}

func (tl *timelineImpl) Duration() float64 {
	return tl.duration
}

func (tl *timelineImpl) Time() float64 {
	return tl.time
}

func (tl *timelineImpl) Progress() float64 {
	if tl.duration == 0 {
		if tl.rendered {
			return 1
		}
		return 0
	}
	return tl.time / tl.duration
}

func (tl *timelineImpl) SetProgress(p float64) {
	if math.IsNaN(p) {
		p = 0
	}
	p = math.Max(0, math.Min(1, p))
	tl.Seek(p * tl.duration)
}

func (tl *timelineImpl) Seek(t float64) {
	if tl.killed {
		return
	}
	tl.render(math.Max(0, math.Min(tl.duration, t)))
}

func (tl *timelineImpl) Advance(dt float64) bool {
	if tl.killed {
		return true
	}
	if tl.paused || dt < 0 {
		return tl.completed
	}
	tl.render(math.Min(tl.duration, tl.time+dt))
	if tl.time >= tl.duration && !tl.completed {
		tl.completed = true
		if tl.onComplete != nil && !tl.killed {
			tl.onComplete()
		}
	}
	return tl.completed
}

func (tl *timelineImpl) Play() {
	tl.paused = false
}

func (tl *timelineImpl) Pause() {
	tl.paused = true
}

func (tl *timelineImpl) Paused() bool {
	return tl.paused
}

func (tl *timelineImpl) OnComplete(fn func()) {
	tl.onComplete = fn
}

func (tl *timelineImpl) Kill() {
	tl.killed = true
	tl.entries = nil
	tl.onComplete = nil
}

func (tl *timelineImpl) Killed() bool {
	return tl.killed
}

func (tl *timelineImpl) add(e *entry) {
	e.seq = tl.seq
	tl.seq++
	tl.entries = append(tl.entries, e)
	sort.SliceStable(tl.entries, func(i, j int) bool {
		if tl.entries[i].start != tl.entries[j].start {
			return tl.entries[i].start < tl.entries[j].start
		}
		return tl.entries[i].seq < tl.entries[j].seq
	})
	if end := e.end(); end > tl.duration {
		tl.duration = end
	}
	tl.completed = false
}

// resolve converts a position into an absolute start time. Unknown labels resolve to the end.
func (tl *timelineImpl) resolve(pos Position) float64 {
	var t float64
	switch pos.kind {
	case positionAbsolute:
		t = pos.offset
	case positionLabel:
		base, ok := tl.labels[pos.label]
		if !ok {
			base = tl.duration
		}
		t = base + pos.offset
	default:
		t = tl.duration + pos.offset
	}
	return math.Max(0, t)
}

// render moves the playhead to t. Moving forward renders children in start order, moving
// backward in reverse order so the earliest writer of a shared target wins.
func (tl *timelineImpl) render(t float64) {
	prev := tl.time
	first := !tl.rendered
	tl.time = t
	tl.rendered = true

	forward := first || t >= prev
	n := len(tl.entries)
	for k := 0; k < n && !tl.killed; k++ {
		i := k
		if !forward {
			i = n - 1 - k
		}
		if i >= len(tl.entries) {
			break
		}
		e := tl.entries[i]
		switch e.kind {
		case kindCall:
			if forward && t >= e.start && (first || prev < e.start) {
				e.fn()
			}
		default:
			tl.renderValue(e, t)
		}
	}
}

func (tl *timelineImpl) renderValue(e *entry, t float64) {
	local := t - e.start
	if local < 0 {
		if e.captured && e.lastP != 0 {
			*e.target = e.from
			e.lastP = 0
			if e.onUpdate != nil {
				e.onUpdate(*e.target)
			}
		}
		return
	}
	if !e.captured {
		e.from = *e.target
		e.captured = true
	}
	p := 1.0
	if e.duration > 0 {
		p = math.Min(1, local/e.duration)
	}
	if p == e.lastP {
		return
	}
	e.lastP = p
	switch {
	case p >= 1:
		*e.target = e.to
	default:
		*e.target = e.from + (e.to-e.from)*e.ease(p)
	}
	if e.onUpdate != nil {
		e.onUpdate(*e.target)
	}
}
