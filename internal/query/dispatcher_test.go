package query_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/airwuu/appstore/internal/models"
	"github.com/airwuu/appstore/internal/query"
)

// recordingSearcher records every request and answers immediately.
type recordingSearcher struct {
	mu    sync.Mutex
	calls []query.Request
	apps  []models.App
}

func (s *recordingSearcher) Search(_ context.Context, req query.Request) ([]models.App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	return s.apps, nil
}

func (s *recordingSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *recordingSearcher) lastCall() query.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

// gatedSearcher blocks each call until its gate is released with a response.
// It deliberately ignores context cancellation so a superseded request can
// still "arrive" late.
type gatedSearcher struct {
	mu    sync.Mutex
	gates []chan []models.App
}

func (s *gatedSearcher) Search(_ context.Context, _ query.Request) ([]models.App, error) {
	gate := make(chan []models.App, 1)
	s.mu.Lock()
	s.gates = append(s.gates, gate)
	s.mu.Unlock()
	return <-gate, nil
}

func (s *gatedSearcher) waitForCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		count := len(s.gates)
		s.mu.Unlock()
		if count >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d searcher calls", n)
}

func (s *gatedSearcher) release(i int, apps []models.App) {
	s.mu.Lock()
	gate := s.gates[i]
	s.mu.Unlock()
	gate <- apps
}

func waitForGeneration(t *testing.T, d *query.Dispatcher, gen uint64) []models.App {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		apps, g := d.Results()
		if g >= gen {
			return apps
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for generation %d", gen)
	return nil
}

// TestDispatcherDebounceCollapsesBurst: rapid facet changes within the
// window produce exactly one request, carrying the final facet values.
func TestDispatcherDebounceCollapsesBurst(t *testing.T) {
	searcher := &recordingSearcher{apps: []models.App{{AppID: 1, AppName: "one"}}}
	d := query.NewDispatcher(searcher, 40*time.Millisecond, 50)
	defer d.Close()

	queries := []string{"m", "ma", "map", "maps", "maps pro"}
	for _, q := range queries {
		f := query.DefaultFacets()
		f.Query = q
		d.SetFacets(f)
		time.Sleep(2 * time.Millisecond)
	}

	waitForGeneration(t, d, 1)
	// Allow any spurious extra fire to land before counting.
	time.Sleep(100 * time.Millisecond)

	if got := searcher.callCount(); got != 1 {
		t.Fatalf("call count = %d, want 1", got)
	}
	if got := searcher.lastCall().Params.Get("q"); got != "maps pro" {
		t.Errorf("fired q = %q, want the final value %q", got, "maps pro")
	}

	apps, gen := d.Results()
	if gen != 1 {
		t.Errorf("generation = %d, want 1", gen)
	}
	if len(apps) != 1 || apps[0].AppName != "one" {
		t.Errorf("results = %+v, want the searcher's answer", apps)
	}
}

// TestDispatcherNoRequestBeforeFirstChange: constructing a dispatcher issues
// nothing on its own.
func TestDispatcherNoRequestBeforeFirstChange(t *testing.T) {
	searcher := &recordingSearcher{}
	d := query.NewDispatcher(searcher, 10*time.Millisecond, 50)
	defer d.Close()

	time.Sleep(60 * time.Millisecond)

	if got := searcher.callCount(); got != 0 {
		t.Fatalf("call count = %d, want 0", got)
	}
	apps, gen := d.Results()
	if gen != 0 || len(apps) != 0 {
		t.Errorf("results = %+v gen %d, want empty gen 0", apps, gen)
	}
}

// TestDispatcherStaleResponseRejected: when request B supersedes in-flight
// request A, A's late response must not overwrite B's results.
func TestDispatcherStaleResponseRejected(t *testing.T) {
	searcher := &gatedSearcher{}
	d := query.NewDispatcher(searcher, 10*time.Millisecond, 50)
	defer d.Close()

	fa := query.DefaultFacets()
	fa.Query = "first"
	d.SetFacets(fa)
	searcher.waitForCalls(t, 1) // A is in flight

	fb := query.DefaultFacets()
	fb.Query = "second"
	d.SetFacets(fb)
	searcher.waitForCalls(t, 2) // B is in flight, A superseded

	appsB := []models.App{{AppID: 2, AppName: "second"}}
	searcher.release(1, appsB)
	results := waitForGeneration(t, d, 2)
	if len(results) != 1 || results[0].AppName != "second" {
		t.Fatalf("results after B = %+v, want B's answer", results)
	}

	// A's response finally arrives; it must be dropped.
	appsA := []models.App{{AppID: 1, AppName: "first"}}
	searcher.release(0, appsA)
	time.Sleep(50 * time.Millisecond)

	results, gen := d.Results()
	if gen != 2 {
		t.Errorf("generation = %d, want 2", gen)
	}
	if len(results) != 1 || results[0].AppName != "second" {
		t.Errorf("results = %+v, stale response must not overwrite", results)
	}
}

// failingSearcher always errors.
type failingSearcher struct{}

func (failingSearcher) Search(context.Context, query.Request) ([]models.App, error) {
	return nil, context.DeadlineExceeded
}

// TestDispatcherErrorRendersEmpty: a failed read degrades to an empty result
// list, not a stuck previous state and not a crash.
func TestDispatcherErrorRendersEmpty(t *testing.T) {
	d := query.NewDispatcher(failingSearcher{}, 10*time.Millisecond, 50)
	defer d.Close()

	f := query.DefaultFacets()
	f.Query = "anything"
	d.SetFacets(f)

	apps := waitForGeneration(t, d, 1)
	if len(apps) != 0 {
		t.Errorf("results = %+v, want empty", apps)
	}
}
