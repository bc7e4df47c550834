package magicmatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/domain"
	"github.com/momcircle/matchd/internal/domain/geo"
	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	"github.com/momcircle/matchd/internal/domain/profile"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
	"github.com/momcircle/matchd/internal/logger"
	"github.com/momcircle/matchd/internal/metrics"
	"github.com/momcircle/matchd/internal/usecase/pool"
	"github.com/momcircle/matchd/internal/usecase/ranking"
)

// Defaults.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultCooldown   = 60 * time.Second
	DefaultFetchLimit = 50
)

// Outcome labels for the magic_match_total metric.
const (
	outcomeAI           = "ai"
	outcomeFallback     = "fallback"
	outcomeRateLimited  = "rate_limited"
	outcomeNoCandidates = "no_candidates"
)

// Service selects the single best same-city match for a viewer.
//
// Each call walks Idle -> PoolFetched -> AIRequested -> {AISucceeded|AIFailed}
// -> Resolved, or stops at NoCandidates when the city pool is empty. The AI
// path is not deterministic and is not meant to be.
type Service struct {
	profiles ProfileReader
	history  HistoryReader
	pool     *pool.Builder
	ranker   *ranking.Ranker
	picker   Picker
	cooldown Cooldown
	cache    ReasonCache
	logger   *zap.Logger

	timeout     time.Duration
	cooldownTTL time.Duration
	poolSize    int
	fetchLimit  int
}

// New creates a selector. picker can be nil: every call then resolves via fallback.
func New(
	profiles ProfileReader, history HistoryReader,
	builder *pool.Builder, ranker *ranking.Ranker,
	picker Picker, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:    profiles,
		history:     history,
		pool:        builder,
		ranker:      ranker,
		picker:      picker,
		logger:      logger,
		timeout:     DefaultTimeout,
		cooldownTTL: DefaultCooldown,
		poolSize:    dommm.MaxCandidates,
		fetchLimit:  DefaultFetchLimit,
	}
}

// WithTimeout bounds the model call.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithCooldown skips the model for ttl after a 429.
func (s *Service) WithCooldown(c Cooldown, ttl time.Duration) *Service {
	s.cooldown = c
	if ttl > 0 {
		s.cooldownTTL = ttl
	}
	return s
}

// WithReasonCache stores successful picks for CachedPick.
func (s *Service) WithReasonCache(c ReasonCache) *Service {
	s.cache = c
	return s
}

// WithPoolSize caps how many candidates are sent to the model.
func (s *Service) WithPoolSize(n int) *Service {
	if n > 0 {
		s.poolSize = min(n, dommm.MaxCandidates)
	}
	return s
}

// WithFetchLimit sets how many same-city profiles are read per page.
func (s *Service) WithFetchLimit(n int) *Service {
	if n > 0 {
		s.fetchLimit = n
	}
	return s
}

// Select runs one magic-match invocation.
func (s *Service) Select(ctx context.Context, viewerID string) (dommm.Result, error) {
	ctx, log := logger.With(ctx, zap.String("viewer_id", viewerID))

	candidates, viewer, err := s.fetchPool(ctx, viewerID)
	if err != nil {
		return dommm.Result{}, err
	}
	if len(candidates) == 0 {
		metrics.MagicMatchTotal.WithLabelValues(outcomeNoCandidates).Inc()
		log.Info("Magic match found nobody in the city", zap.String("city", viewer.Location.City))
		return dommm.NoCandidates(), nil
	}

	if s.coolingDown(ctx, log) {
		metrics.MagicMatchTotal.WithLabelValues(outcomeRateLimited).Inc()
		return rateLimited(&candidates[0]), nil
	}

	if s.picker == nil {
		metrics.MagicMatchTotal.WithLabelValues(outcomeFallback).Inc()
		return fallback(&viewer, &candidates[0]), nil
	}

	pick, err := s.requestPick(ctx, &viewer, candidates)
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		s.startCooldown(ctx, log)
		log.Warn("Match provider rate limited, serving top candidate", zap.Error(err))
		metrics.MagicMatchTotal.WithLabelValues(outcomeRateLimited).Inc()
		return rateLimited(&candidates[0]), nil
	case err != nil:
		log.Warn("Match provider failed, falling back to top candidate", zap.Error(err))
		metrics.MagicMatchTotal.WithLabelValues(outcomeFallback).Inc()
		return fallback(&viewer, &candidates[0]), nil
	}

	chosen := candidates[pick.SelectedProfileIndex-1]
	res := dommm.Result{
		Status:           dommm.StatusResolved,
		Candidate:        &chosen.Candidate,
		MatchScore:       int(pick.MatchScore),
		PrimaryReason:    pick.PrimaryReason,
		SecondaryReasons: pick.SecondaryReasons,
		MatchType:        pick.MatchType,
		Source:           dommm.SourceAI,
	}
	if s.cache != nil {
		s.cache.Add(viewerID, chosen.Candidate.ID, res)
	}
	metrics.MagicMatchTotal.WithLabelValues(outcomeAI).Inc()
	return res, nil
}

// CachedPick returns a previously generated justification for the pair.
func (s *Service) CachedPick(viewerID, candidateID string) (dommm.Result, bool) {
	if s.cache == nil {
		return dommm.Result{}, false
	}
	return s.cache.Get(viewerID, candidateID)
}

// fetchPool builds the ranked same-city pool, capped at poolSize. City pages
// are read until poolSize candidates survive the exclusions or the city runs out.
func (s *Service) fetchPool(
	ctx context.Context, viewerID string,
) ([]domrank.CandidateScore, profile.Profile, error) {
	viewer, err := s.profiles.Get(ctx, viewerID)
	if err != nil {
		return nil, profile.Profile{}, fmt.Errorf("get viewer: %w", err)
	}
	if viewer.Location.City == "" {
		return nil, viewer, nil
	}

	history, err := pool.LoadHistory(ctx, s.history, viewerID)
	if err != nil {
		return nil, viewer, err
	}

	var eligible []profile.Profile
	for offset := 0; ; offset += s.fetchLimit {
		page, err := s.profiles.ListInCity(ctx, viewer.Location.City, viewerID, s.fetchLimit, offset)
		if err != nil {
			return nil, viewer, fmt.Errorf("list city profiles: %w", err)
		}
		kept, _ := s.pool.Build(&viewer, page, history)
		eligible = append(eligible, kept...)
		if len(eligible) >= s.poolSize || len(page) < s.fetchLimit {
			break
		}
	}

	ranked := s.ranker.Rank(&viewer, eligible, history, domrank.Filters{}, domrank.Recommended)
	if len(ranked) > s.poolSize {
		ranked = ranked[:s.poolSize]
	}
	return ranked, viewer, nil
}

// requestPick calls the model under the timeout and validates the answer.
func (s *Service) requestPick(
	ctx context.Context, viewer *profile.Profile, candidates []domrank.CandidateScore,
) (dommm.Pick, error) {
	req := dommm.Request{
		Viewer:     dommm.SummaryOf(viewer),
		Candidates: make([]dommm.Summary, len(candidates)),
	}
	for i := range candidates {
		req.Candidates[i] = dommm.SummaryOf(&candidates[i].Candidate)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pick, err := s.picker.Pick(ctx, req)
	if err != nil {
		return dommm.Pick{}, fmt.Errorf("pick: %w", err)
	}
	if err := pick.Validate(len(candidates)); err != nil {
		return dommm.Pick{}, err
	}
	pick.Normalize()
	return pick, nil
}

func (s *Service) coolingDown(ctx context.Context, log *zap.Logger) bool {
	if s.cooldown == nil || s.picker == nil {
		return false
	}
	active, err := s.cooldown.Active(ctx)
	if err != nil {
		log.Warn("Cooldown lookup failed", zap.Error(err))
		return false
	}
	return active
}

func (s *Service) startCooldown(ctx context.Context, log *zap.Logger) {
	if s.cooldown == nil {
		return
	}
	if err := s.cooldown.Start(ctx, s.cooldownTTL); err != nil {
		log.Warn("Failed to store provider cooldown", zap.Error(err))
	}
}

// Templated reasons for picks made without the model.
const (
	rateLimitedReason = "Our matchmaker is taking a short break. Here is a mom close to you; " +
		"try Magic Match again in a few minutes for a personal pick."
	fallbackReason = "She lives close to you and could be a great new friend to meet up with."
)

// fallback resolves to the top of the pool with templated reasons.
func fallback(viewer *profile.Profile, top *domrank.CandidateScore) dommm.Result {
	return dommm.Result{
		Status:           dommm.StatusResolved,
		Candidate:        &top.Candidate,
		MatchScore:       fallbackScore(top),
		PrimaryReason:    fallbackReason,
		SecondaryReasons: secondaryReasons(viewer, top),
		MatchType:        dommm.NearbyVibes,
		Source:           dommm.SourceFallback,
	}
}

func rateLimited(top *domrank.CandidateScore) dommm.Result {
	return dommm.Result{
		Status:        dommm.StatusResolved,
		Candidate:     &top.Candidate,
		MatchScore:    fallbackScore(top),
		PrimaryReason: rateLimitedReason,
		MatchType:     dommm.NearbyVibes,
		RateLimited:   true,
		Source:        dommm.SourceFallback,
	}
}

// fallbackScore is the composite, lifted by the GPS distance band when
// both sides shared coordinates, clamped into the pick range.
func fallbackScore(top *domrank.CandidateScore) int {
	score := float64(top.Composite)
	if top.DistanceScore != nil {
		score = math.Max(score, *top.DistanceScore)
	}
	return dommm.ClampScore(score)
}

func secondaryReasons(viewer *profile.Profile, top *domrank.CandidateScore) []string {
	var out []string
	if top.Tier == geo.SameArea && viewer.Location.Area != "" {
		out = append(out, "You are both in "+viewer.Location.Area)
	}
	if top.SameStage() {
		out = append(out, "Your little ones are at a similar stage")
	}
	switch {
	case top.InterestOverlap == 1:
		out = append(out, "You share an interest")
	case top.InterestOverlap > 1:
		out = append(out, fmt.Sprintf("You share %d interests", top.InterestOverlap))
	}
	if len(out) > dommm.MaxSecondaryReasons {
		out = out[:dommm.MaxSecondaryReasons]
	}
	return out
}
