// Package store holds the client-side state of each screen: the resident
// data, the user-visible error and the load guard. Every change is published
// as an immutable snapshot.
package store

import (
	"sync"
	"sync/atomic"
)

// hub fans snapshots out to subscribers. Each channel buffers one snapshot;
// an unread snapshot is replaced by a newer one, so slow readers only ever
// see the latest state.
type hub[S any] struct {
	mu   sync.Mutex
	next int
	subs map[int]chan S
}

func (h *hub[S]) subscribe(current S) (<-chan S, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]chan S)
	}
	id := h.next
	h.next++
	ch := make(chan S, 1)
	ch <- current
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if ch, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
}

func (h *hub[S]) publish(s S) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// guard drops re-entrant loads: a load issued while another is in flight is
// a no-op, never queued.
type guard struct {
	busy atomic.Bool
}

func (g *guard) acquire() bool { return g.busy.CompareAndSwap(false, true) }

func (g *guard) release() { g.busy.Store(false) }

func (g *guard) active() bool { return g.busy.Load() }
