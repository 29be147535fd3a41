package scroll

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scheduler"
	"github.com/charmbracelet/harmonica"
)

// settleEpsilon is the distance and speed below which a scrub spring snaps onto its target.
const settleEpsilon = 1e-4

// Observer tracks the scroll offset of a virtual document and reports normalized progress
// through trigger ranges to subscribers. The document is Pages viewport heights tall; the
// default trigger spans it from "top top" to "bottom bottom", i.e. scroll offsets
// [0, documentHeight - viewportHeight].
//
// Scrubbed subscriptions are smoothed by a critically damped spring that is stepped once per
// scheduler frame. The observer requests frames only while some spring is still moving.
type Observer interface {
	// Observe subscribes to progress updates. onUpdate fires immediately with the current
	// progress, then again whenever the delivered value changes.
	//
	// Parameters:
	//   - onUpdate: receives progress in [0, 1]
	//   - options: trigger range and scrub smoothing
	//
	// Returns:
	//   - Subscription: handle used to stop the updates
	Observe(onUpdate func(progress float64), options ...ObserveOption) Subscription

	// ScrollBy moves the scroll offset by dy pixels (positive scrolls down), clamped to the document.
	//
	// Parameters:
	//   - dy: scroll distance in pixels
	ScrollBy(dy float64)

	// ScrollTo sets the scroll offset, clamped to the document.
	//
	// Parameters:
	//   - y: scroll offset in pixels
	ScrollTo(y float64)

	// HandleWheel applies a mouse wheel delta in notches; positive values scroll up, as GLFW reports them.
	//
	// Parameters:
	//   - notches: vertical wheel offset
	HandleWheel(notches float64)

	// HandleKey applies keyboard navigation: arrows, Page Up/Down, Home, End and Space.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	HandleKey(keyCode uint32)

	// SetViewport updates the viewport height, resizing the document and re-clamping the offset.
	//
	// Parameters:
	//   - height: viewport height in pixels
	SetViewport(height float64)

	// ScrollY returns the current scroll offset in pixels.
	//
	// Returns:
	//   - float64: the scroll offset
	ScrollY() float64

	// MaxScroll returns the largest possible scroll offset.
	//
	// Returns:
	//   - float64: documentHeight - viewportHeight
	MaxScroll() float64

	// Tick steps every scrub spring once and delivers changed progress. It is called from the
	// scheduler while springs are moving; tests may call it directly.
	Tick()

	// KillAll kills every live subscription.
	KillAll()
}

// Subscription is a live progress subscription.
type Subscription interface {
	// Kill stops further updates. Safe to call more than once.
	Kill()

	// Killed reports whether Kill has been called.
	//
	// Returns:
	//   - bool: true after Kill
	Killed() bool

	// Progress returns the most recently delivered progress.
	//
	// Returns:
	//   - float64: progress in [0, 1]
	Progress() float64
}

// observerImpl is the implementation of the Observer interface.
type observerImpl struct {
	mu *sync.Mutex

	sched    scheduler.Scheduler
	frame    scheduler.Handle
	tickRate int

	viewportHeight float64
	pages          float64
	lineHeight     float64
	scrollY        float64

	subs []*subscriptionImpl
}

var _ Observer = &observerImpl{}

// subscriptionImpl is the implementation of the Subscription interface.
type subscriptionImpl struct {
	owner    *observerImpl
	onUpdate func(float64)

	// start and end are the trigger range in scroll pixels; useDocument tracks the whole document.
	start, end  float64
	useDocument bool

	scrub  float64
	spring harmonica.Spring
	pos    float64
	vel    float64

	delivered float64
	killed    bool
}

var _ Subscription = &subscriptionImpl{}

// NewObserver creates an observer over a virtual document.
//
// Parameters:
//   - sched: frame scheduler used to step scrub springs (may be nil if Tick is driven manually)
//   - options: functional options to configure the document
//
// Returns:
//   - Observer: the new observer, scrolled to the top
func NewObserver(sched scheduler.Scheduler, options ...ObserverBuilderOption) Observer {
	o := &observerImpl{
		mu:             &sync.Mutex{},
		sched:          sched,
		tickRate:       60,
		viewportHeight: 720,
		pages:          5,
		lineHeight:     100,
	}
	for _, opt := range options {
		opt(o)
	}
	if o.pages < 1 {
		o.pages = 1
	}
	if o.tickRate < 1 {
		o.tickRate = 60
	}
	return o
}

func (o *observerImpl) Observe(onUpdate func(progress float64), options ...ObserveOption) Subscription {
	s := &subscriptionImpl{
		owner:       o,
		onUpdate:    onUpdate,
		useDocument: true,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.scrub > 0 {
		freq := 5 / s.scrub
		s.spring = harmonica.NewSpring(harmonica.FPS(o.tickRate), freq, 1.0)
	}

	o.mu.Lock()
	raw := o.rawProgress(s)
	s.pos = raw
	s.delivered = raw
	o.subs = append(o.subs, s)
	o.mu.Unlock()

	if onUpdate != nil {
		onUpdate(raw)
	}
	return s
}

func (o *observerImpl) ScrollBy(dy float64) {
	o.mu.Lock()
	y := o.scrollY + dy
	o.mu.Unlock()
	o.ScrollTo(y)
}

func (o *observerImpl) ScrollTo(y float64) {
	o.mu.Lock()
	o.scrollY = common.Clamp(y, 0, o.maxScroll())
	deliveries := o.collectRaw()
	o.ensureTicking()
	o.mu.Unlock()
	deliver(deliveries)
}

func (o *observerImpl) HandleWheel(notches float64) {
	o.ScrollBy(-notches * o.lineHeight)
}

func (o *observerImpl) HandleKey(keyCode uint32) {
	o.mu.Lock()
	page := o.viewportHeight
	line := o.lineHeight
	bottom := o.maxScroll()
	o.mu.Unlock()

	switch keyCode {
	case common.KeyDown:
		o.ScrollBy(line)
	case common.KeyUp:
		o.ScrollBy(-line)
	case common.KeyPageDown, common.KeySpace:
		o.ScrollBy(page)
	case common.KeyPageUp:
		o.ScrollBy(-page)
	case common.KeyHome:
		o.ScrollTo(0)
	case common.KeyEnd:
		o.ScrollTo(bottom)
	}
}

func (o *observerImpl) SetViewport(height float64) {
	if height <= 0 {
		return
	}
	o.mu.Lock()
	o.viewportHeight = height
	o.scrollY = common.Clamp(o.scrollY, 0, o.maxScroll())
	deliveries := o.collectRaw()
	o.ensureTicking()
	o.mu.Unlock()
	deliver(deliveries)
}

func (o *observerImpl) ScrollY() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scrollY
}

func (o *observerImpl) MaxScroll() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.maxScroll()
}

func (o *observerImpl) Tick() {
	o.mu.Lock()
	o.frame = 0
	var deliveries []delivery
	for _, s := range o.subs {
		if s.scrub <= 0 {
			continue
		}
		target := o.rawProgress(s)
		s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
		if math.Abs(s.pos-target) < settleEpsilon && math.Abs(s.vel) < settleEpsilon {
			s.pos, s.vel = target, 0
		}
		v := common.Clamp(s.pos, 0, 1)
		if v != s.delivered {
			s.delivered = v
			deliveries = append(deliveries, delivery{s.onUpdate, v})
		}
	}
	o.ensureTicking()
	o.mu.Unlock()
	deliver(deliveries)
}

func (o *observerImpl) KillAll() {
	o.mu.Lock()
	subs := append([]*subscriptionImpl(nil), o.subs...)
	o.mu.Unlock()
	for _, s := range subs {
		s.Kill()
	}
}

func (s *subscriptionImpl) Kill() {
	o := s.owner
	o.mu.Lock()
	defer o.mu.Unlock()
	if s.killed {
		return
	}
	s.killed = true
	for i, sub := range o.subs {
		if sub == s {
			o.subs = append(o.subs[:i], o.subs[i+1:]...)
			break
		}
	}
	if !o.needsTick() && o.frame != 0 && o.sched != nil {
		o.sched.CancelFrame(o.frame)
		o.frame = 0
	}
}

func (s *subscriptionImpl) Killed() bool {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	return s.killed
}

func (s *subscriptionImpl) Progress() float64 {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	return s.delivered
}

type delivery struct {
	fn func(float64)
	v  float64
}

func deliver(ds []delivery) {
	for _, d := range ds {
		if d.fn != nil {
			d.fn(d.v)
		}
	}
}

// collectRaw returns the updates owed to unsmoothed subscriptions. Caller holds o.mu.
func (o *observerImpl) collectRaw() []delivery {
	var ds []delivery
	for _, s := range o.subs {
		if s.scrub > 0 {
			continue
		}
		v := o.rawProgress(s)
		if v != s.delivered {
			s.delivered = v
			s.pos = v
			ds = append(ds, delivery{s.onUpdate, v})
		}
	}
	return ds
}

// rawProgress is the unsmoothed progress of s at the current offset. Caller holds o.mu.
func (o *observerImpl) rawProgress(s *subscriptionImpl) float64 {
	start, end := s.start, s.end
	if s.useDocument {
		start, end = 0, o.maxScroll()
	}
	if end <= start {
		if o.scrollY >= end {
			return 1
		}
		return 0
	}
	return common.Clamp((o.scrollY-start)/(end-start), 0, 1)
}

// needsTick reports whether any scrub spring is away from its target. Caller holds o.mu.
func (o *observerImpl) needsTick() bool {
	for _, s := range o.subs {
		if s.scrub > 0 && (s.pos != o.rawProgress(s) || s.vel != 0) {
			return true
		}
	}
	return false
}

// ensureTicking requests a scheduler frame if a spring is moving and none is pending. Caller holds o.mu.
func (o *observerImpl) ensureTicking() {
	if o.sched == nil || o.frame != 0 || !o.needsTick() {
		return
	}
	o.frame = o.sched.RequestFrame(func(time.Duration) { o.Tick() })
}

func (o *observerImpl) maxScroll() float64 {
	return math.Max(0, o.viewportHeight*o.pages-o.viewportHeight)
}
