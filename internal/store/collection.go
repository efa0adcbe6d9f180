package store

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// ListSnapshot is the published state of a simple collection screen.
type ListSnapshot[T any] struct {
	Loading bool
	Err     error
	Items   []T
}

// collection is the load/guard/error bookkeeping shared by the schedule and
// balance stores.
type collection[T any] struct {
	name  string
	log   zerolog.Logger
	loads guard

	mu    sync.Mutex
	items []T
	err   error

	snapshots hub[ListSnapshot[T]]
}

func newCollection[T any](name string, log zerolog.Logger) *collection[T] {
	return &collection[T]{name: name, log: log.With().Str("collection", name).Logger()}
}

func (c *collection[T]) load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	if !c.loads.acquire() {
		return nil
	}

	c.mu.Lock()
	c.err = nil
	c.publishLocked()
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = err
		c.log.Warn().Err(err).Msg("Failed to load")
	} else {
		c.items = items
		c.log.Info().Int("count", len(items)).Msg("Loaded")
	}
	c.loads.release()
	c.publishLocked()
	return err
}

func (c *collection[T]) remove(match func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = slices.DeleteFunc(slices.Clone(c.items), match)
	c.publishLocked()
}

func (c *collection[T]) fail(err error, msg string) error {
	c.log.Warn().Err(err).Msg(msg)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
	c.publishLocked()
	return err
}

func (c *collection[T]) snapshot() ListSnapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *collection[T]) subscribe() (<-chan ListSnapshot[T], func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots.subscribe(c.snapshotLocked())
}

func (c *collection[T]) snapshotLocked() ListSnapshot[T] {
	return ListSnapshot[T]{
		Loading: c.loads.active(),
		Err:     c.err,
		Items:   slices.Clone(c.items),
	}
}

func (c *collection[T]) publishLocked() {
	c.snapshots.publish(c.snapshotLocked())
}
