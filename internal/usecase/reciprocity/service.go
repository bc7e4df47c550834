// Package reciprocity records interest actions and turns mutual yeses into matches.
package reciprocity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/domain"
	"github.com/momcircle/matchd/internal/domain/interaction"
	"github.com/momcircle/matchd/internal/logger"
	"github.com/momcircle/matchd/internal/metrics"
)

// Service records actions and detects mutual interest.
type Service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

// New creates the service. notifier can be nil.
func New(store Store, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// RecordAction upserts from's decision about to. A yes that meets an
// existing yes from the other side creates the pair's single match record.
//
// Two simultaneous yeses may both see each other and both try to create the
// match; the store's unique pair key lets exactly one win and the other
// reports Recorded.
func (s *Service) RecordAction(
	ctx context.Context, from, to string, choice interaction.Choice, origin interaction.Origin,
) (interaction.Outcome, error) {
	log := logger.FromContext(ctx)

	action, err := interaction.NewAction(from, to, choice, origin, s.now().UTC())
	if err != nil {
		return interaction.Outcome{}, err
	}
	if err := s.store.UpsertAction(ctx, action); err != nil {
		return interaction.Outcome{}, fmt.Errorf("upsert action: %w", err)
	}
	metrics.ActionsTotal.WithLabelValues(string(choice)).Inc()

	if action.Origin == interaction.OriginMagicMatch && choice == interaction.Yes {
		s.notify(log, "magic_request_sent", func() error { return s.notifier.MagicRequestSent(ctx, action) })
	}

	recorded := interaction.Outcome{Kind: interaction.Recorded, Action: action}
	if choice != interaction.Yes {
		return recorded, nil
	}

	reverse, err := s.store.GetAction(ctx, to, from)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return recorded, nil
	case err != nil:
		return interaction.Outcome{}, fmt.Errorf("get reverse action: %w", err)
	case reverse.Choice != interaction.Yes:
		return recorded, nil
	}

	pair := interaction.NewPair(from, to)
	match, created, err := s.store.CreateMatch(ctx, interaction.Match{
		ID:        s.newID(),
		UserLow:   pair.Low,
		UserHigh:  pair.High,
		CreatedAt: action.CreatedAt,
	})
	if err != nil {
		return interaction.Outcome{}, fmt.Errorf("create match: %w", err)
	}
	if !created {
		log.Debug("Match already exists", zap.String("pair", pair.Key()))
		return recorded, nil
	}

	metrics.MutualMatchesTotal.Inc()
	log.Info("Mutual match created",
		zap.String("match_id", match.ID),
		zap.String("user_low", match.UserLow),
		zap.String("user_high", match.UserHigh),
	)
	s.notify(log, "mutual_match", func() error { return s.notifier.MutualMatch(ctx, match) })

	return interaction.Outcome{Kind: interaction.MutualMatch, Action: action, Match: &match}, nil
}

// notify publishes best-effort: a lost notification never fails the action.
func (s *Service) notify(log *zap.Logger, event string, fn func() error) {
	if s.notifier == nil {
		return
	}
	if err := fn(); err != nil {
		log.Warn("Failed to publish event", zap.String("event", event), zap.Error(err))
	}
}
