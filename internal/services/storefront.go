package services

import (
	"context"
	"errors"
	"time"

	"github.com/airwuu/appstore/internal/gateway"
	"github.com/airwuu/appstore/internal/models"
	"github.com/airwuu/appstore/internal/query"
	"github.com/airwuu/appstore/internal/session"
)

// ErrNotLoggedIn is returned by mutations that require a session user.
var ErrNotLoggedIn = errors.New("not logged in")

// Storefront ties the three core pieces together: the session store, the
// remote gateway, and the debounced live-search dispatcher. Handlers talk to
// this and not to the pieces directly.
type Storefront struct {
	Sessions   *session.Store
	Gateway    *gateway.Client
	dispatcher *query.Dispatcher
	limit      int
}

// NewStorefront creates the storefront service. window is the facet
// quiescence window; limit caps every listing request.
func NewStorefront(sessions *session.Store, gw *gateway.Client, window time.Duration, limit int) *Storefront {
	if limit <= 0 {
		limit = query.DefaultLimit
	}
	return &Storefront{
		Sessions:   sessions,
		Gateway:    gw,
		dispatcher: query.NewDispatcher(gw, window, limit),
		limit:      limit,
	}
}

// Browse composes and executes one listing request immediately. This is the
// stateless path used when facets arrive fully-formed in a single request.
func (s *Storefront) Browse(ctx context.Context, f query.Facets) ([]models.App, error) {
	return s.Gateway.Search(ctx, query.Compose(f, s.limit))
}

// UpdateFacets records a live facet change; the dispatcher issues the
// request after the quiescence window.
func (s *Storefront) UpdateFacets(f query.Facets) {
	s.dispatcher.SetFacets(f)
}

// Facets returns the current live facet state.
func (s *Storefront) Facets() query.Facets {
	return s.dispatcher.Facets()
}

// Results returns the most recently applied live results and their request
// generation.
func (s *Storefront) Results() ([]models.App, uint64) {
	return s.dispatcher.Results()
}

// InstallApp records the install remotely, then updates the local installed
// set. Local state only changes after the server confirms.
func (s *Storefront) InstallApp(ctx context.Context, appID int64) error {
	user, ok := s.Sessions.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if err := s.Gateway.Install(ctx, appID, user.UserID); err != nil {
		return err
	}
	s.Sessions.InstallApp(appID)
	return nil
}

// UninstallApp is symmetric to InstallApp.
func (s *Storefront) UninstallApp(ctx context.Context, appID int64) error {
	user, ok := s.Sessions.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if err := s.Gateway.Uninstall(ctx, appID, user.UserID); err != nil {
		return err
	}
	s.Sessions.UninstallApp(appID)
	return nil
}

// Close releases the dispatcher's pending work.
func (s *Storefront) Close() {
	s.dispatcher.Close()
}
