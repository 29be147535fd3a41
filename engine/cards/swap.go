package cards

import (
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/engine/timeline"
)

// firstSwapDelay is the wait before the first swap.
const firstSwapDelay = 1.0

// dropDistance is how far the front card falls before it returns to the back.
const dropDistance = 500.0

// promoteStagger is the start offset between successive promoted cards, in seconds.
const promoteStagger = 0.15

// Preset holds the easing and timing of a swap.
type Preset struct {
	Ease timeline.Ease
	// DurDrop, DurMove and DurReturn are tween lengths in seconds.
	DurDrop, DurMove, DurReturn float64
	// PromoteOverlap is the fraction of the drop that overlaps the promotion.
	PromoteOverlap float64
	// ReturnDelay is the fraction of DurMove after the promotion at which the front card returns.
	ReturnDelay float64
}

// ElasticPreset bounces the cards into their slots.
func ElasticPreset() Preset {
	return Preset{
		Ease:           timeline.ElasticOut(0.6, 0.9),
		DurDrop:        2,
		DurMove:        2,
		DurReturn:      2,
		PromoteOverlap: 0.9,
		ReturnDelay:    0.05,
	}
}

// SmoothPreset eases the cards in and out without overshoot.
func SmoothPreset() Preset {
	return Preset{
		Ease:           timeline.Power1InOut,
		DurDrop:        0.8,
		DurMove:        0.8,
		DurReturn:      0.8,
		PromoteOverlap: 0.45,
		ReturnDelay:    0.2,
	}
}

// PresetByName returns the preset for "elastic" or "smooth"; anything else is elastic.
func PresetByName(name string) Preset {
	if name == "smooth" {
		return SmoothPreset()
	}
	return ElasticPreset()
}

// Slot is the resting place of the card at stack position i.
type Slot struct {
	Y      float64
	ZIndex float64
	ScaleY float64
}

// SwapCard is the visual state of one carousel card.
type SwapCard struct {
	Y      float64
	ZIndex float64
	ScaleY float64
}

// MakeSlot returns the slot of position i in a stack of total cards.
//
// Parameters:
//   - i: stack position, 0 is the front
//   - verticalDistance: vertical step between slots in pixels
//   - total: number of cards
//
// Returns:
//   - Slot: the slot
func MakeSlot(i int, verticalDistance float64, total int) Slot {
	return Slot{
		Y:      -float64(i) * verticalDistance,
		ZIndex: float64(total - i),
		ScaleY: math.Max(1-float64(i)*0.12, 0.5),
	}
}

// Swap is a card carousel: every delay the front card drops, the rest move forward one slot and
// the dropped card returns to the back. Time is driven by Advance.
type Swap interface {
	// Cards returns a copy of the card states indexed by card, not by position.
	//
	// Returns:
	//   - []SwapCard: the card states
	Cards() []SwapCard

	// Order returns the card indices from front to back.
	//
	// Returns:
	//   - []int: the current order
	Order() []int

	// Advance moves the carousel clock forward, starting swaps when they are due and stepping
	// running swap timelines.
	//
	// Parameters:
	//   - dt: elapsed time
	Advance(dt time.Duration)

	// SwapNow starts a swap immediately. A no-op with fewer than two cards.
	SwapNow()

	// Pause holds the current swap and stops the interval, as on hover.
	Pause()

	// Resume continues the current swap and restarts the interval; the next swap is one delay away.
	Resume()

	// Paused reports whether the carousel is paused.
	Paused() bool

	// Kill stops every swap and the interval.
	Kill()
}

// swapImpl is the implementation of the Swap interface.
type swapImpl struct {
	mu *sync.Mutex

	cards            []SwapCard
	order            []int
	preset           Preset
	delay            float64
	verticalDistance float64

	clock    float64
	nextSwap float64
	paused   bool
	killed   bool

	current timeline.Timeline
	running []timeline.Timeline
}

var _ Swap = &swapImpl{}

// NewSwap creates a carousel of count cards placed in their slots. The first swap happens one
// second after the clock starts.
//
// Parameters:
//   - count: number of cards (negative values are treated as 0)
//   - options: functional options
//
// Returns:
//   - Swap: the new carousel
func NewSwap(count int, options ...SwapBuilderOption) Swap {
	count = max(count, 0)
	s := &swapImpl{
		mu:               &sync.Mutex{},
		cards:            make([]SwapCard, count),
		order:            make([]int, count),
		preset:           ElasticPreset(),
		delay:            5,
		verticalDistance: 70,
		nextSwap:         firstSwapDelay,
	}
	for _, opt := range options {
		opt(s)
	}
	for i := range s.cards {
		slot := MakeSlot(i, s.verticalDistance, count)
		s.cards[i] = SwapCard{Y: slot.Y, ZIndex: slot.ZIndex, ScaleY: slot.ScaleY}
		s.order[i] = i
	}
	return s
}

func (s *swapImpl) Cards() []SwapCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cards)
}

func (s *swapImpl) Order() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

func (s *swapImpl) Advance(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.killed || dt <= 0 {
		return
	}
	step := dt.Seconds()

	live := s.running[:0]
	for _, tl := range s.running {
		if !tl.Advance(step) {
			live = append(live, tl)
		}
	}
	s.running = live

	if s.paused {
		return
	}
	s.clock += step
	for s.clock >= s.nextSwap {
		due := s.nextSwap
		s.nextSwap += s.delay
		if tl := s.startSwap(); tl != nil {
			if !tl.Advance(s.clock - due) {
				s.running = append(s.running, tl)
			}
		}
	}
}

func (s *swapImpl) SwapNow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.killed {
		return
	}
	if tl := s.startSwap(); tl != nil {
		s.running = append(s.running, tl)
	}
}

// startSwap builds the timeline of one swap. Caller must hold the mutex.
func (s *swapImpl) startSwap() timeline.Timeline {
	if len(s.order) < 2 {
		return nil
	}
	front, rest := s.order[0], slices.Clone(s.order[1:])
	total := len(s.cards)
	p := s.preset
	ease := timeline.WithEase(p.Ease)
	fc := &s.cards[front]

	tl := timeline.NewTimeline()
	tl.To(&fc.Y, fc.Y+dropDistance, p.DurDrop, timeline.At(0), ease)
	tl.AddLabel("promote", timeline.End(-p.DurDrop*p.PromoteOverlap))
	for i, idx := range rest {
		c := &s.cards[idx]
		slot := MakeSlot(i, s.verticalDistance, total)
		at := timeline.Label("promote", float64(i)*promoteStagger)
		tl.Set(&c.ZIndex, slot.ZIndex, timeline.Label("promote", 0))
		tl.To(&c.Y, slot.Y, p.DurMove, at, ease)
		tl.To(&c.ScaleY, slot.ScaleY, p.DurMove, at, ease)
	}

	back := MakeSlot(total-1, s.verticalDistance, total)
	tl.AddLabel("return", timeline.Label("promote", p.DurMove*p.ReturnDelay))
	tl.Set(&fc.ZIndex, back.ZIndex, timeline.Label("return", 0))
	tl.To(&fc.Y, back.Y, p.DurReturn, timeline.Label("return", 0), ease)
	tl.To(&fc.ScaleY, back.ScaleY, p.DurReturn, timeline.Label("return", 0), ease)
	tl.Call(func() {
		s.order = append(rest, front)
	}, timeline.End(0))

	s.current = tl
	return tl
}

func (s *swapImpl) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	if s.current != nil {
		s.current.Pause()
	}
}

func (s *swapImpl) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.paused = false
	s.nextSwap = s.clock + s.delay
	if s.current != nil {
		s.current.Play()
	}
}

func (s *swapImpl) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *swapImpl) Kill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.killed = true
	for _, tl := range s.running {
		tl.Kill()
	}
	s.running = nil
	s.current = nil
}
