// Package memory is a process-local store for profiles, actions and matches.
// It backs the embeddable client and tests; the server uses Postgres.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/momcircle/matchd/internal/domain"
	"github.com/momcircle/matchd/internal/domain/geo"
	dominter "github.com/momcircle/matchd/internal/domain/interaction"
	domprofile "github.com/momcircle/matchd/internal/domain/profile"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
)

const defaultCityLimit = 50

type actionKey struct{ from, to string }

// Store is safe for concurrent use. Reads return copies.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]domprofile.Profile
	actions  map[actionKey]dominter.Action
	matches  map[dominter.Pair]dominter.Match
	filters  map[string]domrank.Filters
}

// New creates an empty store.
func New() *Store {
	return &Store{
		profiles: make(map[string]domprofile.Profile),
		actions:  make(map[actionKey]dominter.Action),
		matches:  make(map[dominter.Pair]dominter.Match),
		filters:  make(map[string]domrank.Filters),
	}
}

// PutProfile inserts or replaces a profile.
func (s *Store) PutProfile(p domprofile.Profile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: profile id is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return nil
}

// PutFilters stores the viewer's saved filters.
func (s *Store) PutFilters(viewerID string, f domrank.Filters) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[viewerID] = f
	return nil
}

// Get returns the profile or domain.ErrNotFound.
func (s *Store) Get(_ context.Context, id string) (domprofile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return domprofile.Profile{}, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// ListCompletedExcept returns every completed profile other than id, most recently updated first.
func (s *Store) ListCompletedExcept(_ context.Context, id string) ([]domprofile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domprofile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.Completed && p.ID != id {
			out = append(out, p)
		}
	}
	sortByRecency(out)
	return out, nil
}

// ListInCity returns one page of completed profiles in city other than
// excludeID, most recently updated first. City comparison ignores case and accents.
func (s *Store) ListInCity(
	_ context.Context, city, excludeID string, limit, offset int,
) ([]domprofile.Profile, error) {
	if city == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultCityLimit
	}
	offset = max(offset, 0)
	want := geo.Location{City: city}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domprofile.Profile
	for _, p := range s.profiles {
		if p.Completed && p.ID != excludeID && geo.SameCityAs(p.Location, want) {
			out = append(out, p)
		}
	}
	sortByRecency(out)
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

// Filters returns the viewer's saved filters; zero Filters when none are set.
func (s *Store) Filters(_ context.Context, viewerID string) (domrank.Filters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters[viewerID], nil
}

// UpsertAction replaces any earlier decision for the same ordered pair.
func (s *Store) UpsertAction(_ context.Context, a dominter.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[actionKey{a.From, a.To}] = a
	return nil
}

// GetAction returns from's decision about to or domain.ErrNotFound.
func (s *Store) GetAction(_ context.Context, from, to string) (dominter.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actions[actionKey{from, to}]
	if !ok {
		return dominter.Action{}, fmt.Errorf("action %s->%s: %w", from, to, domain.ErrNotFound)
	}
	return a, nil
}

// ActionsBy returns every decision the viewer made.
func (s *Store) ActionsBy(_ context.Context, viewerID string) ([]dominter.Action, error) {
	return s.collectActions(func(a dominter.Action) bool { return a.From == viewerID }), nil
}

// LikesToward returns every yes the viewer received.
func (s *Store) LikesToward(_ context.Context, viewerID string) ([]dominter.Action, error) {
	return s.collectActions(func(a dominter.Action) bool {
		return a.To == viewerID && a.Choice == dominter.Yes
	}), nil
}

// MatchesFor returns every match the viewer belongs to, oldest first.
func (s *Store) MatchesFor(_ context.Context, viewerID string) ([]dominter.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []dominter.Match
	for _, m := range s.matches {
		if m.UserLow == viewerID || m.UserHigh == viewerID {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b dominter.Match) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

// CreateMatch stores m unless its pair already has one, in which case the
// existing record is returned with created=false.
func (s *Store) CreateMatch(_ context.Context, m dominter.Match) (dominter.Match, bool, error) {
	pair := dominter.NewPair(m.UserLow, m.UserHigh)
	if pair.Low != m.UserLow {
		return dominter.Match{}, false, fmt.Errorf("%w: match users out of order", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.matches[pair]; ok {
		return existing, false, nil
	}
	s.matches[pair] = m
	return m, true, nil
}

func (s *Store) collectActions(keep func(dominter.Action) bool) []dominter.Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []dominter.Action
	for _, a := range s.actions {
		if keep(a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b dominter.Action) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

func sortByRecency(ps []domprofile.Profile) {
	slices.SortStableFunc(ps, func(a, b domprofile.Profile) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// FiltersView adapts Store to the ranking FiltersReader (method named Get).
type FiltersView struct{ s *Store }

// FiltersReader returns a view whose Get reads saved filters.
func (s *Store) FiltersReader() FiltersView { return FiltersView{s: s} }

// Get returns the viewer's saved filters.
func (v FiltersView) Get(ctx context.Context, viewerID string) (domrank.Filters, error) {
	return v.s.Filters(ctx, viewerID)
}
