package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recorder collects the queries a controller actually fired
type recorder struct {
	mu      sync.Mutex
	queries []string
	results map[string][]string
	err     error
}

func (r *recorder) bind(query string) Producer[[]string] {
	return func(ctx context.Context) ([]string, error) {
		r.mu.Lock()
		r.queries = append(r.queries, query)
		results := r.results[query]
		err := r.err
		r.mu.Unlock()
		return results, err
	}
}

func (r *recorder) fired() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.queries))
	copy(out, r.queries)
	return out
}

func newTestController(rec *recorder, onSuccess func(string, []string)) *QueryController[string] {
	fetcher := New[[]string](nil, false, testLogger())
	return NewQueryController(fetcher, rec.bind, onSuccess, testLogger())
}

func TestBurstFiresOnceWithLastQuery(t *testing.T) {
	rec := &recorder{results: map[string][]string{"dark": {"The Dark Knight"}}}
	c := newTestController(rec, nil)
	c.SetDelay(20 * time.Millisecond)

	// Four keystrokes in quick succession
	c.SetQuery("d")
	c.SetQuery("da")
	c.SetQuery("dar")
	c.SetQuery("dark")

	time.Sleep(200 * time.Millisecond)

	fired := rec.fired()
	if len(fired) != 1 {
		t.Fatalf("Expected exactly one fired search, got %v", fired)
	}
	if fired[0] != "dark" {
		t.Errorf("Expected last query 'dark', got %q", fired[0])
	}
}

func TestFlushFiresPendingSearch(t *testing.T) {
	rec := &recorder{results: map[string][]string{"dune": {"Dune"}}}
	c := newTestController(rec, nil)
	c.SetDelay(time.Hour)

	c.SetQuery("dune")
	c.Flush()

	fired := rec.fired()
	if len(fired) != 1 || fired[0] != "dune" {
		t.Fatalf("Expected one fired search for 'dune', got %v", fired)
	}

	data, ok := c.fetcher.Data()
	if !ok || len(data) != 1 || data[0] != "Dune" {
		t.Errorf("Unexpected fetcher data: %v (stored=%v)", data, ok)
	}

	// A second flush with no pending timer is a no-op
	c.Flush()
	if len(rec.fired()) != 1 {
		t.Error("Flush without a pending timer should not fire")
	}
}

func TestQueryIsTrimmedBeforeFiring(t *testing.T) {
	rec := &recorder{results: map[string][]string{"dune": {"Dune"}}}
	c := newTestController(rec, nil)
	c.SetDelay(time.Hour)

	c.SetQuery("  dune  ")
	c.Flush()

	fired := rec.fired()
	if len(fired) != 1 || fired[0] != "dune" {
		t.Fatalf("Expected trimmed query 'dune', got %v", fired)
	}
	if c.Query() != "  dune  " {
		t.Errorf("Query() should return the raw value, got %q", c.Query())
	}
}

func TestEmptyQueryResetsResults(t *testing.T) {
	rec := &recorder{results: map[string][]string{"dark": {"The Dark Knight"}}}
	c := newTestController(rec, nil)
	c.SetDelay(time.Hour)

	c.SetQuery("dark")
	c.Flush()
	if _, ok := c.fetcher.Data(); !ok {
		t.Fatal("Expected results before clearing")
	}

	// Clearing the field resets the fetcher instead of searching
	c.SetQuery("   ")
	c.Flush()

	if data, ok := c.fetcher.Data(); ok {
		t.Errorf("Expected cleared results, got %v", data)
	}
	if len(rec.fired()) != 1 {
		t.Errorf("Whitespace query should not fire a search, fired %v", rec.fired())
	}
}

func TestStopCancelsPendingSearch(t *testing.T) {
	rec := &recorder{}
	c := newTestController(rec, nil)
	c.SetDelay(20 * time.Millisecond)

	c.SetQuery("dark")
	c.Stop()

	time.Sleep(100 * time.Millisecond)

	if len(rec.fired()) != 0 {
		t.Errorf("Stopped controller fired %v", rec.fired())
	}

	// Queries after Stop are ignored
	c.SetQuery("dune")
	c.Flush()
	if len(rec.fired()) != 0 {
		t.Errorf("Controller accepted a query after Stop: %v", rec.fired())
	}
}

func TestOnSuccessReceivesQueryAndResults(t *testing.T) {
	rec := &recorder{results: map[string][]string{"dark knight": {"The Dark Knight", "Dark Shadows"}}}

	var mu sync.Mutex
	var gotQuery string
	var gotResults []string
	c := newTestController(rec, func(query string, results []string) {
		mu.Lock()
		gotQuery = query
		gotResults = results
		mu.Unlock()
	})
	c.SetDelay(time.Hour)

	c.SetQuery(" dark knight ")
	c.Flush()

	mu.Lock()
	defer mu.Unlock()
	if gotQuery != "dark knight" {
		t.Errorf("Expected trimmed query 'dark knight', got %q", gotQuery)
	}
	if len(gotResults) != 2 || gotResults[0] != "The Dark Knight" {
		t.Errorf("Unexpected results passed to onSuccess: %v", gotResults)
	}
}

func TestOnSuccessSkippedForEmptyResults(t *testing.T) {
	rec := &recorder{results: map[string][]string{}}
	called := false
	c := newTestController(rec, func(string, []string) { called = true })
	c.SetDelay(time.Hour)

	c.SetQuery("nothing matches this")
	c.Flush()

	if called {
		t.Error("onSuccess should not run for an empty result set")
	}
}

func TestOnSuccessSkippedOnError(t *testing.T) {
	rec := &recorder{err: errors.New("search failed")}
	called := false
	c := newTestController(rec, func(string, []string) { called = true })
	c.SetDelay(time.Hour)

	c.SetQuery("dark")
	c.Flush()

	if called {
		t.Error("onSuccess should not run after a failed search")
	}
	if c.fetcher.Err() == nil {
		t.Error("Expected the search error to be stored")
	}
}
