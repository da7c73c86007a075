package query

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/airwuu/appstore/internal/models"
)

// Searcher executes one composed listing request.
type Searcher interface {
	Search(ctx context.Context, req Request) ([]models.App, error)
}

// Dispatcher turns a stream of facet changes into at most one outbound
// request per quiescence window, and guarantees that only the response to the
// most recently issued request is ever applied (last-request-wins). A burst
// of facet changes (slider drags, typing) collapses into a single request
// carrying the values at the time the window elapses.
type Dispatcher struct {
	searcher Searcher
	window   time.Duration
	limit    int

	mu      sync.Mutex
	facets  Facets
	timer   *time.Timer
	gen     uint64 // generation of the most recently issued request
	applied uint64 // generation of the currently visible results
	cancel  context.CancelFunc
	results []models.App
}

// NewDispatcher creates a Dispatcher with the default browse facets.
// No request is issued until the first facet change.
func NewDispatcher(searcher Searcher, window time.Duration, limit int) *Dispatcher {
	return &Dispatcher{
		searcher: searcher,
		window:   window,
		limit:    limit,
		facets:   DefaultFacets(),
	}
}

// Facets returns the current facet state.
func (d *Dispatcher) Facets() Facets {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.facets
}

// SetFacets records a facet change and (re)starts the quiescence window.
// A pending un-fired request from the previous facet state is cancelled;
// only the latest scheduled request may fire.
func (d *Dispatcher) SetFacets(f Facets) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.facets = f.Normalize()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire issues the request for the facet state at window expiry. It runs on
// the timer goroutine; a later fire supersedes this one via the generation
// counter even if this response arrives afterwards.
func (d *Dispatcher) fire() {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	if d.cancel != nil {
		// The superseded in-flight request must never overwrite state;
		// cancelling it also frees its connection.
		d.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	req := Compose(d.facets, d.limit)
	d.mu.Unlock()

	apps, err := d.searcher.Search(ctx, req)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		// A newer request has started; drop this response.
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("query: %s %s failed, rendering empty: %v", req.Path, req.Params.Encode(), err)
		}
		apps = nil
	}
	if apps == nil {
		apps = []models.App{}
	}
	d.results = apps
	d.applied = gen
}

// Results returns the currently visible result list and the generation of
// the request that produced it.
func (d *Dispatcher) Results() ([]models.App, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]models.App, len(d.results))
	copy(out, d.results)
	return out, d.applied
}

// Close cancels any pending timer and in-flight request.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
