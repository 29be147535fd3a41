// Package cards animates card layouts: a stack that tightens as the page scrolls and a carousel
// that periodically drops the front card to the back.
package cards

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/engine/scroll"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/timeline"
)

// completeThreshold is the scroll progress at which a stack counts as complete.
const completeThreshold = 0.9

// StackCard is the visual state of one stacked card.
type StackCard struct {
	// Y is the downward offset in pixels.
	Y float64
	// Scale is the uniform scale factor.
	Scale float64
	// Opacity is in [0, 1].
	Opacity float64
	// Blur is the blur radius in pixels.
	Blur float64
	// Z is the stacking order; higher draws on top.
	Z int
}

// Stack is a scroll-scrubbed card stack. Progress 0 shows the cards fanned out and faded;
// progress 1 pulls them together.
type Stack interface {
	// Cards returns a copy of the current card states, front card first.
	//
	// Returns:
	//   - []StackCard: the card states
	Cards() []StackCard

	// SetProgress scrubs the stack to p in [0, 1].
	//
	// Parameters:
	//   - p: scroll progress
	SetProgress(p float64)

	// Progress returns the last progress passed to SetProgress.
	Progress() float64

	// Attach drives the stack from an observer. Unless overridden the subscription is scrubbed
	// with a one second lag.
	//
	// Parameters:
	//   - o: the scroll observer
	//   - options: trigger range and scrub overrides
	//
	// Returns:
	//   - scroll.Subscription: kill it to detach
	Attach(o scroll.Observer, options ...scroll.ObserveOption) scroll.Subscription

	// Kill stops the stack timeline; later progress updates are ignored.
	Kill()
}

// stackImpl is the implementation of the Stack interface.
type stackImpl struct {
	mu *sync.Mutex

	cards    []StackCard
	tl       timeline.Timeline
	progress float64

	onComplete func()
	armed      bool
}

var _ Stack = &stackImpl{}

// NewStack creates a stack of count cards in the initial fanned-out layout.
//
// Parameters:
//   - count: number of cards (negative values are treated as 0)
//   - options: functional options
//
// Returns:
//   - Stack: the new stack
func NewStack(count int, options ...StackBuilderOption) Stack {
	count = max(count, 0)
	s := &stackImpl{
		mu:    &sync.Mutex{},
		cards: make([]StackCard, count),
		tl:    timeline.NewTimeline(timeline.WithPaused()),
		armed: true,
	}
	for _, opt := range options {
		opt(s)
	}

	for i := range s.cards {
		f := float64(i)
		c := &s.cards[i]
		*c = StackCard{
			Y:       f * 50,
			Scale:   1 - f*0.1,
			Opacity: 1 - f*0.2,
			Blur:    f * 2,
			Z:       count - i,
		}
		s.tl.
			To(&c.Scale, 1-f*0.05, 1, timeline.At(0)).
			To(&c.Y, f*20, 1, timeline.At(0)).
			To(&c.Opacity, 1-f*0.1, 1, timeline.At(0)).
			To(&c.Blur, f, 1, timeline.At(0))
	}
	return s
}

func (s *stackImpl) Cards() []StackCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StackCard, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s *stackImpl) SetProgress(p float64) {
	s.mu.Lock()
	if s.tl.Killed() {
		s.mu.Unlock()
		return
	}
	s.tl.SetProgress(p)
	s.progress = p

	fire := false
	switch {
	case p >= completeThreshold && s.armed:
		s.armed = false
		fire = s.onComplete != nil
	case p < completeThreshold:
		s.armed = true
	}
	cb := s.onComplete
	s.mu.Unlock()

	if fire {
		cb()
	}
}

func (s *stackImpl) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *stackImpl) Attach(o scroll.Observer, options ...scroll.ObserveOption) scroll.Subscription {
	opts := append([]scroll.ObserveOption{scroll.WithScrub(1)}, options...)
	return o.Observe(s.SetProgress, opts...)
}

func (s *stackImpl) Kill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tl.Kill()
}
