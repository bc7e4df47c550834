package ranking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domrank "github.com/momcircle/matchd/internal/domain/ranking"
	"github.com/momcircle/matchd/internal/logger"
	"github.com/momcircle/matchd/internal/metrics"
	"github.com/momcircle/matchd/internal/usecase/pool"
)

// Service ranks the candidate list shown to a viewer.
type Service struct {
	profiles ProfileReader
	history  HistoryReader
	filters  FiltersReader
	pool     *pool.Builder
	ranker   *Ranker
}

// New creates a ranking service. filters can be nil.
func New(
	profiles ProfileReader, history HistoryReader, filters FiltersReader,
	builder *pool.Builder, ranker *Ranker,
) *Service {
	return &Service{
		profiles: profiles,
		history:  history,
		filters:  filters,
		pool:     builder,
		ranker:   ranker,
	}
}

// Rank loads one snapshot of the viewer's world and returns the ordered list
// together with the sort mode actually applied. limit <= 0 returns every candidate.
func (s *Service) Rank(
	ctx context.Context, viewerID string, mode domrank.SortMode, limit int,
) ([]domrank.CandidateScore, domrank.SortMode, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	viewer, err := s.profiles.Get(ctx, viewerID)
	if err != nil {
		return nil, "", fmt.Errorf("get viewer: %w", err)
	}

	filters, err := s.loadFilters(ctx, viewerID)
	if err != nil {
		return nil, "", err
	}

	all, err := s.profiles.ListCompletedExcept(ctx, viewerID)
	if err != nil {
		return nil, "", fmt.Errorf("list candidates: %w", err)
	}

	history, err := pool.LoadHistory(ctx, s.history, viewerID)
	if err != nil {
		return nil, "", err
	}

	candidates, stats := s.pool.Build(&viewer, all, history)
	metrics.RankingPoolSize.Observe(float64(len(candidates)))

	effective := ResolveMode(mode, filters)
	ranked := s.ranker.Rank(&viewer, candidates, history, filters, effective)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	metrics.RankingDuration.WithLabelValues(string(effective)).Observe(time.Since(start).Seconds())
	log.Debug("Ranked candidates",
		zap.String("viewer_id", viewerID),
		zap.String("sort", string(effective)),
		zap.Int("fetched", len(all)),
		zap.Int("pool", len(candidates)),
		zap.Int("returned", len(ranked)),
		zap.Any("excluded", stats),
	)
	return ranked, effective, nil
}

func (s *Service) loadFilters(ctx context.Context, viewerID string) (domrank.Filters, error) {
	if s.filters == nil {
		return domrank.Filters{}, nil
	}
	f, err := s.filters.Get(ctx, viewerID)
	if err != nil {
		return domrank.Filters{}, fmt.Errorf("load filters: %w", err)
	}
	return f, nil
}
