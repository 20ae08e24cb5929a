// Package viewstore keeps the calculator views mounted by web clients. Each
// browser page owns one view; the page unmounts it when it goes away, and
// views whose page vanished without saying so are swept after an idle period.
package viewstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrViewNotFound is returned for ids that were never mounted or have been
// unmounted.
var ErrViewNotFound = errors.New("view not found")

type entry struct {
	mu       sync.Mutex
	view     *calculator.View
	lastUsed time.Time
}

// Store is safe for concurrent use. Access to a single view is serialized.
type Store struct {
	mu    sync.Mutex
	views map[string]*entry

	mounted prometheus.Gauge
	now     func() time.Time
}

// New creates an empty store and registers its gauge on reg.
func New(reg prometheus.Registerer) (*Store, error) {
	s := &Store{
		views: make(map[string]*entry),
		mounted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "calculator_views_mounted",
			Help: "Number of calculator views currently mounted by web clients.",
		}),
		now: time.Now,
	}

	if err := reg.Register(s.mounted); err != nil {
		return nil, fmt.Errorf("register views gauge: %w", err)
	}

	return s, nil
}

// Mount creates a view, subscribes it to keyboard shortcuts and returns its id.
func (s *Store) Mount(darkMode bool) string {
	v := calculator.NewView(darkMode)
	v.Mount()

	id := uuid.NewString()

	s.mu.Lock()
	s.views[id] = &entry{view: v, lastUsed: s.now()}
	s.mu.Unlock()

	s.mounted.Inc()

	return id
}

// Unmount releases the view's keyboard subscription and forgets it.
func (s *Store) Unmount(id string) error {
	s.mu.Lock()
	e, ok := s.views[id]
	if ok {
		delete(s.views, id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}

	e.mu.Lock()
	e.view.Unmount()
	e.mu.Unlock()

	s.mounted.Dec()

	return nil
}

// Do runs fn with exclusive access to the view and marks it as used.
func (s *Store) Do(id string, fn func(v *calculator.View) error) error {
	s.mu.Lock()
	e, ok := s.views[id]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Lost a race with Unmount.
	if !e.view.Mounted() {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}

	e.lastUsed = s.now()
	return fn(e.view)
}

// Len returns the number of mounted views.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Sweep unmounts every view that has not been used for longer than idle and
// returns how many were removed.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	entries := make(map[string]*entry, len(s.views))
	for id, e := range s.views {
		entries[id] = e
	}
	s.mu.Unlock()

	removed := 0
	for id, e := range entries {
		if s.unmountIfIdle(id, e, cutoff) {
			removed++
		}
	}

	return removed
}

// unmountIfIdle unmounts e only if it is still registered under id and was
// last used before cutoff. Both are checked under e.mu, so a Do that refreshed
// the view after Sweep looked at it keeps it alive.
func (s *Store) unmountIfIdle(id string, e *entry, cutoff time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.lastUsed.Before(cutoff) {
		return false
	}

	s.mu.Lock()
	registered := s.views[id] == e
	if registered {
		delete(s.views, id)
	}
	s.mu.Unlock()

	if !registered {
		return false
	}

	e.view.Unmount()
	s.mounted.Dec()

	return true
}

// Run sweeps idle views every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				observability.Logger.Info("swept idle views",
					zap.Int("removed", n),
					zap.Int("mounted", s.Len()),
				)
			}
		}
	}
}
