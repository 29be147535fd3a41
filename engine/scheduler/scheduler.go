package scheduler

import (
	"sync"
	"time"
)

// Handle identifies a pending frame request. The zero Handle never refers to a request.
type Handle uint64

// FrameCallback receives the time of the pump that runs it.
type FrameCallback func(now time.Duration)

// Scheduler queues one-shot callbacks to run on the next frame, the desktop counterpart of a
// browser's animation-frame queue. Callbacks run on the goroutine that calls Pump.
type Scheduler interface {
	// RequestFrame queues cb to run on the next Pump.
	//
	// Parameters:
	//   - cb: the callback
	//
	// Returns:
	//   - Handle: identifies the request for CancelFrame
	RequestFrame(cb FrameCallback) Handle

	// CancelFrame removes a pending request. Cancelling a fired, cancelled or unknown handle is a no-op.
	//
	// Parameters:
	//   - h: the handle returned by RequestFrame
	CancelFrame(h Handle)

	// Pump runs every callback requested before the call, in request order. Callbacks requested
	// while pumping wait for the next Pump, so a self-rescheduling callback runs once per pump.
	//
	// Parameters:
	//   - now: the frame time passed to each callback
	//
	// Returns:
	//   - int: the number of callbacks run
	Pump(now time.Duration) int

	// Pending returns the number of queued requests.
	//
	// Returns:
	//   - int: queued request count
	Pending() int
}

type request struct {
	handle Handle
	cb     FrameCallback
}

// schedulerImpl is the implementation of the Scheduler interface.
type schedulerImpl struct {
	mu      *sync.Mutex
	next    Handle
	queue   []request
	pending map[Handle]struct{}
}

var _ Scheduler = &schedulerImpl{}

// NewScheduler creates an empty frame scheduler.
//
// Returns:
//   - Scheduler: the new scheduler
func NewScheduler() Scheduler {
	return &schedulerImpl{
		mu:      &sync.Mutex{},
		pending: make(map[Handle]struct{}),
	}
}

func (s *schedulerImpl) RequestFrame(cb FrameCallback) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	h := s.next
	s.queue = append(s.queue, request{handle: h, cb: cb})
	s.pending[h] = struct{}{}
	return h
}

func (s *schedulerImpl) CancelFrame(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, h)
}

func (s *schedulerImpl) Pump(now time.Duration) int {
	s.mu.Lock()
	batch := s.queue
	s.queue = nil
	s.mu.Unlock()

	ran := 0
	for _, r := range batch {
		// Re-check under the lock so a callback earlier in the batch can cancel a later one.
		s.mu.Lock()
		_, live := s.pending[r.handle]
		delete(s.pending, r.handle)
		s.mu.Unlock()
		if !live || r.cb == nil {
			continue
		}
		r.cb(now)
		ran++
	}
	return ran
}

func (s *schedulerImpl) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
