// Package fetch provides the request orchestration used by every screen-level
// data need: a loading/error/data state wrapper around an asynchronous
// producer, and a debounced query controller layered on top of it.
package fetch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Producer is a zero-argument asynchronous data-producing operation
type Producer[T any] func(ctx context.Context) (T, error)

// State is a snapshot of a fetcher's remote request state
type State[T any] struct {
	Data    T
	HasData bool
	Loading bool
	Err     error
}

// Fetcher tracks loading/error/data state around a producer. One fetcher
// owns one screen-level data need; all methods are safe for concurrent use.
//
// A generation counter guards against stale completions: Reset and producer
// replacement bump it, and an in-flight invocation whose generation no
// longer matches discards its result instead of overwriting newer state.
type Fetcher[T any] struct {
	mu        sync.Mutex
	producer  Producer[T]
	immediate bool
	gen       uint64
	inflight  int
	data      T
	hasData   bool
	err       error
	logger    *logrus.Logger
}

// New creates a fetcher around producer. When immediate is true the first
// execution is kicked off right away, and again whenever the producer is
// replaced via SetProducer.
func New[T any](producer Producer[T], immediate bool, logger *logrus.Logger) *Fetcher[T] {
	f := &Fetcher[T]{
		producer:  producer,
		immediate: immediate,
		logger:    logger,
	}

	if immediate {
		go func() {
			if err := f.Execute(context.Background()); err != nil {
				logger.WithError(err).Debug("Immediate fetch failed")
			}
		}()
	}

	return f
}

// Execute runs the producer once: loading is raised, any prior error is
// cleared, and exactly one of data/error is applied on completion. Loading
// is always released, success or failure. Overlapping calls are tolerated;
// the last one to complete wins.
func (f *Fetcher[T]) Execute(ctx context.Context) error {
	f.mu.Lock()
	gen := f.gen
	producer := f.producer
	f.err = nil
	f.inflight++
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if producer == nil {
		return nil
	}

	value, err := producer(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	// A reset or supersede happened while this call was in flight; its
	// result is stale and must not overwrite the newer state
	if gen != f.gen {
		f.logger.Debug("Discarding stale fetch completion")
		return err
	}

	if err != nil {
		f.err = err
		return err
	}

	f.data = value
	f.hasData = true
	f.err = nil
	return nil
}

// Reset synchronously clears data and error back to their empty defaults.
// An in-flight Execute started before the reset cannot overwrite the
// cleared state.
func (f *Fetcher[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gen++
	var zero T
	f.data = zero
	f.hasData = false
	f.err = nil
}

// SetProducer replaces the producer. In-flight executions of the old
// producer become stale. When the fetcher was created immediate, the new
// producer is executed right away.
func (f *Fetcher[T]) SetProducer(producer Producer[T]) {
	f.mu.Lock()
	f.producer = producer
	f.gen++
	immediate := f.immediate
	f.mu.Unlock()

	if immediate {
		go func() {
			if err := f.Execute(context.Background()); err != nil {
				f.logger.WithError(err).Debug("Immediate fetch failed")
			}
		}()
	}
}

// Data returns the current data and whether any has been stored
func (f *Fetcher[T]) Data() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data, f.hasData
}

// Err returns the current error
func (f *Fetcher[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Loading reports whether any invocation is in flight
func (f *Fetcher[T]) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight > 0
}

// State returns a consistent snapshot of the request state
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State[T]{
		Data:    f.data,
		HasData: f.hasData,
		Loading: f.inflight > 0,
		Err:     f.err,
	}
}
