package fetch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the fixed delay between the last keystroke and the
// search being fired
const DefaultDebounce = 300 * time.Millisecond

// QueryController turns a live-edited text value into rate-limited fetcher
// triggers. Every SetQuery cancels the previous pending timer and arms a
// new one; only the most recent timer fires. A fired timer executes the
// search for a non-empty trimmed query, or resets the fetcher for an empty
// one so previously displayed results are cleared.
type QueryController[E any] struct {
	mu        sync.Mutex
	fetcher   *Fetcher[[]E]
	bind      func(query string) Producer[[]E]
	onSuccess func(query string, results []E)
	delay     time.Duration
	timer     *time.Timer
	seq       uint64
	query     string
	stopped   bool
	logger    *logrus.Logger
}

// NewQueryController creates a controller over fetcher. bind produces the
// search operation for a given query; onSuccess, if non-nil, runs after a
// successful execution that yielded a non-empty result set (the telemetry
// hookup point) and may be nil.
func NewQueryController[E any](
	fetcher *Fetcher[[]E],
	bind func(query string) Producer[[]E],
	onSuccess func(query string, results []E),
	logger *logrus.Logger,
) *QueryController[E] {
	return &QueryController[E]{
		fetcher:   fetcher,
		bind:      bind,
		onSuccess: onSuccess,
		delay:     DefaultDebounce,
		logger:    logger,
	}
}

// SetDelay overrides the debounce delay. Mostly useful in tests.
func (c *QueryController[E]) SetDelay(delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = delay
}

// Query returns the latest raw text value
func (c *QueryController[E]) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetQuery records a new text value and re-arms the debounce timer. All
// previously armed timers become inert.
func (c *QueryController[E]) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	c.query = query
	if c.timer != nil {
		c.timer.Stop()
	}

	c.seq++
	seq := c.seq
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(seq)
	})
}

// Flush fires any pending timer immediately instead of waiting out the
// delay. Used by tests for deterministic triggering.
func (c *QueryController[E]) Flush() {
	c.mu.Lock()
	if c.timer == nil || !c.timer.Stop() {
		c.mu.Unlock()
		return
	}
	seq := c.seq
	c.mu.Unlock()

	c.fire(seq)
}

// Stop cancels any pending timer. Called on teardown; the controller
// accepts no further queries afterwards.
func (c *QueryController[E]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *QueryController[E]) fire(seq uint64) {
	c.mu.Lock()
	if c.stopped || seq != c.seq {
		c.mu.Unlock()
		return
	}
	query := c.query
	c.mu.Unlock()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		c.fetcher.Reset()
		return
	}

	c.fetcher.SetProducer(c.bind(trimmed))
	if err := c.fetcher.Execute(context.Background()); err != nil {
		c.logger.WithError(err).WithField("query", trimmed).Debug("Debounced search failed")
		return
	}

	results, ok := c.fetcher.Data()
	if ok && len(results) > 0 && c.onSuccess != nil {
		c.onSuccess(trimmed, results)
	}
}
