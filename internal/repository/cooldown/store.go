// Package cooldown keeps the shared "match provider is rate limited" marker.
package cooldown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/momcircle/matchd/internal/db"
)

// store is the consumer interface for cooldown operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Store implements the magic-match Cooldown on a shared expiring store.
// The key carries the unix time the cooldown ends and expires with it, so
// all instances observe the same window.
type Store struct {
	store store
	key   string
	now   func() time.Time
}

// New creates a cooldown store. scope separates independent providers.
func New(s store, prefix, scope string) *Store {
	return &Store{
		store: s,
		key:   prefix + "cooldown:" + scope,
		now:   time.Now,
	}
}

// Active reports whether a cooldown is running.
func (s *Store) Active(ctx context.Context) (bool, error) {
	left, err := s.Remaining(ctx)
	if err != nil {
		return false, err
	}
	return left > 0, nil
}

// Remaining is how long the running cooldown has left, zero when none is.
// An unreadable value counts as a full second so the marker is still honored.
func (s *Store) Remaining(ctx context.Context) (time.Duration, error) {
	raw, err := s.store.Get(ctx, s.key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("cooldown GET %s: %w", s.key, err)
	}
	until, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Second, nil
	}
	return max(time.Unix(until, 0).Sub(s.now()), 0), nil
}

// Start begins a cooldown of ttl, at least one second.
func (s *Store) Start(ctx context.Context, ttl time.Duration) error {
	ttl = max(ttl, time.Second)
	until := strconv.FormatInt(s.now().Add(ttl).Unix(), 10)
	if err := s.store.SetWithTTL(ctx, s.key, []byte(until), ttl); err != nil {
		return fmt.Errorf("cooldown SET %s: %w", s.key, err)
	}
	return nil
}
