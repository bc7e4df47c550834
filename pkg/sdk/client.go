package matchd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/metrics"
	"github.com/momcircle/matchd/internal/repository/reasoncache"
	openaiPicker "github.com/momcircle/matchd/internal/transport/openai"
	magicmatchuc "github.com/momcircle/matchd/internal/usecase/magicmatch"
	"github.com/momcircle/matchd/internal/usecase/pool"
	rankinguc "github.com/momcircle/matchd/internal/usecase/ranking"
	"github.com/momcircle/matchd/internal/usecase/reciprocity"
)

// Internal interfaces, swapped out in tests.
type rankUseCase interface {
	Rank(ctx context.Context, viewerID string, mode SortMode, limit int) ([]Candidate, SortMode, error)
}

type magicUseCase interface {
	Select(ctx context.Context, viewerID string) (MagicMatchResult, error)
	CachedPick(viewerID, candidateID string) (MagicMatchResult, bool)
}

type actionUseCase interface {
	RecordAction(ctx context.Context, from, to string, choice Choice, origin Origin) (Outcome, error)
}

// Client is the matchd SDK entry point. It is safe for concurrent use.
type Client struct {
	rankSvc   rankUseCase
	magicSvc  magicUseCase
	actionSvc actionUseCase
	obs       *observer
}

// New wires a Client. Without storage options it uses a fresh MemoryStore.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		testPattern:     pool.DefaultTestPattern,
		reasonCacheSize: reasoncache.DefaultSize,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.profiles == nil || cfg.interactions == nil {
		mem := NewMemoryStore()
		if cfg.profiles == nil {
			cfg.profiles = mem
		}
		if cfg.interactions == nil {
			cfg.interactions = mem
		}
	}
	if cfg.picker != nil && cfg.openAI != nil {
		return nil, errors.New("matchd: WithPicker and WithOpenAI are mutually exclusive")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	if cfg.metricsReg != nil {
		metrics.RegisterMatchingMetrics(cfg.metricsReg)
	}
	return wireClient(cfg, obs)
}

func wireClient(cfg *clientConfig, obs *observer) (*Client, error) {
	reasons, err := reasoncache.New(cfg.reasonCacheSize)
	if err != nil {
		return nil, fmt.Errorf("matchd: reason cache: %w", err)
	}

	// Pass nil interface (not typed nil pointer!) when no model is configured.
	var picker magicmatchuc.Picker
	switch {
	case cfg.picker != nil:
		picker = cfg.picker
	case cfg.openAI != nil:
		picker = openaiPicker.NewPicker(&openaiPicker.Config{
			APIKey:  cfg.openAI.apiKey,
			BaseURL: cfg.openAI.baseURL,
			Model:   cfg.openAI.model,
		})
	}
	var notifier reciprocity.Notifier
	if cfg.notifier != nil {
		notifier = cfg.notifier
	}
	var filters rankinguc.FiltersReader
	if cfg.filters != nil {
		filters = cfg.filters
	}

	builder := pool.New(cfg.reservedIDs, cfg.testPattern)
	ranker := rankinguc.NewRanker(zap.NewNop())

	magicSvc := magicmatchuc.New(cfg.profiles, cfg.interactions, builder, ranker, picker, zap.NewNop()).
		WithReasonCache(reasons).
		WithPoolSize(cfg.magicPoolSize).
		WithTimeout(cfg.magicTimeout)

	return &Client{
		rankSvc:   rankinguc.New(cfg.profiles, cfg.interactions, filters, builder, ranker),
		magicSvc:  magicSvc,
		actionSvc: reciprocity.New(cfg.interactions, notifier),
		obs:       obs,
	}, nil
}

// Rank returns the viewer's candidates, best first. limit <= 0 returns all.
func (c *Client) Rank(ctx context.Context, viewerID string, mode SortMode, limit int) (_ []Candidate, err error) {
	done := c.obs.track("rank", slog.String("viewer_id", viewerID), slog.String("sort", string(mode)))
	defer func() { done(err) }()

	out, _, err := c.rankSvc.Rank(ctx, viewerID, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	return out, nil
}

// MagicMatch picks the single best same-city candidate. A rate-limited or
// failing picker still yields a resolved result.
func (c *Client) MagicMatch(ctx context.Context, viewerID string) (_ MagicMatchResult, err error) {
	done := c.obs.track("magic_match", slog.String("viewer_id", viewerID))
	defer func() { done(err) }()

	res, err := c.magicSvc.Select(ctx, viewerID)
	if err != nil {
		return MagicMatchResult{}, fmt.Errorf("magic match: %w", err)
	}
	return res, nil
}

// Reason returns the picker's justification for a pair from an earlier MagicMatch.
func (c *Client) Reason(viewerID, candidateID string) (MagicMatchResult, bool) {
	return c.magicSvc.CachedPick(viewerID, candidateID)
}

// RecordAction stores from's decision about to and reports a mutual match.
func (c *Client) RecordAction(
	ctx context.Context, from, to string, choice Choice, origin Origin,
) (_ Outcome, err error) {
	done := c.obs.track("record_action", slog.String("from", from), slog.String("to", to))
	defer func() { done(err) }()

	out, err := c.actionSvc.RecordAction(ctx, from, to, choice, origin)
	if err != nil {
		return Outcome{}, fmt.Errorf("record action: %w", err)
	}
	return out, nil
}
