package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/timeline"
)

// TargetState is the latest desired camera state derived from pointer and scroll input.
// The camera update chases these values; it never writes them.
type TargetState struct {
	// RotationYTarget is the desired camera yaw in radians.
	RotationYTarget float64
	// RotationZTarget is the desired camera tilt in radians.
	RotationZTarget float64
	// PathParamTarget is the desired normalized arc-length position, in [0, ScrubCeiling].
	PathParamTarget float64
}

// Aggregator turns pointer positions and scroll progress into a TargetState.
type Aggregator interface {
	// HandlePointer maps a pointer position in viewport pixels onto the yaw and tilt targets.
	// Coordinates outside the viewport are clamped to its edges before mapping.
	//
	// Parameters:
	//   - x: horizontal pointer position in pixels
	//   - y: vertical pointer position in pixels
	HandlePointer(x, y float64)

	// HandleScroll scrubs the path timeline to the given scroll progress; the timeline's update
	// writes PathParamTarget = progress * ScrubCeiling.
	//
	// Parameters:
	//   - progress: scroll progress in [0, 1] (values outside are clamped)
	HandleScroll(progress float64)

	// SetViewport updates the pointer mapping domain.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetViewport(width, height float64)

	// Targets returns a snapshot of the current TargetState.
	//
	// Returns:
	//   - TargetState: the latest targets
	Targets() TargetState

	// Kill stops the path timeline. Later scroll input is ignored.
	Kill()
}

// aggregatorImpl is the implementation of the Aggregator interface.
type aggregatorImpl struct {
	mu *sync.Mutex

	targets TargetState

	viewportWidth  float64
	viewportHeight float64

	yawRange     [2]float64
	tiltRange    [2]float64
	scrubCeiling float64

	// tubePercent is the proxy value the path timeline tweens.
	tubePercent float64
	path        timeline.Timeline
}

var _ Aggregator = &aggregatorImpl{}

// NewAggregator creates an aggregator with the reference ranges unless overridden.
//
// Parameters:
//   - options: functional options to configure the mapping
//
// Returns:
//   - Aggregator: the new aggregator
func NewAggregator(options ...AggregatorBuilderOption) Aggregator {
	a := &aggregatorImpl{
		mu:             &sync.Mutex{},
		viewportWidth:  1280,
		viewportHeight: 720,
		yawRange:       [2]float64{3.24, 3.04},
		tiltRange:      [2]float64{-0.1, 0.1},
		scrubCeiling:   0.96,
	}
	a.targets.RotationYTarget = 3.14159
	for _, opt := range options {
		opt(a)
	}

	a.path = timeline.NewTimeline(timeline.WithPaused())
	a.path.To(&a.tubePercent, a.scrubCeiling, 1, timeline.At(0),
		timeline.WithEase(timeline.None),
		timeline.WithOnUpdate(func(v float64) {
			a.targets.PathParamTarget = v
		}),
	)
	return a
}

func (a *aggregatorImpl) HandlePointer(x, y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.targets.RotationYTarget = common.MapRange(x, 0, a.viewportWidth, a.yawRange[0], a.yawRange[1])
	a.targets.RotationZTarget = common.MapRange(y, 0, a.viewportHeight, a.tiltRange[0], a.tiltRange[1])
}

func (a *aggregatorImpl) HandleScroll(progress float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.path.SetProgress(progress)
}

func (a *aggregatorImpl) SetViewport(width, height float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if width > 0 {
		a.viewportWidth = width
	}
	if height > 0 {
		a.viewportHeight = height
	}
}

func (a *aggregatorImpl) Targets() TargetState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.targets
}

func (a *aggregatorImpl) Kill() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.path.Kill()
}
