// Package netmon supplies the online/offline signal. Consumers only read it;
// a change never cancels or starts any work.
package netmon

import "sync"

// Monitor reports connectivity. Subscribe returns a function that removes
// the subscription.
type Monitor interface {
	Online() bool
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// signal is the subscriber bookkeeping shared by Static and Prober.
type signal struct {
	mu     sync.RWMutex
	online bool
	nextID int
	subs   map[int]func(bool)
}

func newSignal(online bool) *signal {
	return &signal{online: online, subs: make(map[int]func(bool))}
}

func (s *signal) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

func (s *signal) Subscribe(fn func(bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		})
	}
}

// set stores online and notifies subscribers outside the lock when the value
// changed. It reports whether it did.
func (s *signal) set(online bool) bool {
	s.mu.Lock()
	if s.online == online {
		s.mu.Unlock()
		return false
	}
	s.online = online
	subs := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(online)
	}
	return true
}

// Static is a Monitor whose state is set by hand. Tests and the CLI use it.
type Static struct {
	*signal
}

func NewStatic(online bool) *Static {
	return &Static{signal: newSignal(online)}
}

func (s *Static) Set(online bool) {
	s.set(online)
}
