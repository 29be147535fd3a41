package window

import (
	"slices"
	"sync"
)

// listenerSet is an ordered set of callbacks. Listeners run in subscription order; removing a
// listener while the set is being dispatched takes effect on the next dispatch.
type listenerSet[F any] struct {
	mu     *sync.Mutex
	nextID uint64
	ids    []uint64
	fns    []F
}

func newListenerSet[F any]() *listenerSet[F] {
	return &listenerSet[F]{mu: &sync.Mutex{}}
}

// add subscribes fn and returns an idempotent unsubscribe func.
func (s *listenerSet[F]) add(fn F) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.ids = append(s.ids, id)
	s.fns = append(s.fns, fn)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *listenerSet[F]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		s.fns = slices.Delete(s.fns, i, i+1)
	}
}

// snapshot returns the current listeners for dispatch outside the lock.
func (s *listenerSet[F]) snapshot() []F {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.fns)
}

func (s *listenerSet[F]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}
