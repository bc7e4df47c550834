package ranking

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/domain/age"
	"github.com/momcircle/matchd/internal/domain/geo"
	"github.com/momcircle/matchd/internal/domain/interaction"
	"github.com/momcircle/matchd/internal/domain/profile"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
	"github.com/momcircle/matchd/internal/domain/tag"
	"github.com/momcircle/matchd/internal/metrics"
)

// Ranker scores and orders a candidate pool. It holds no per-request state
// and is safe for concurrent use.
type Ranker struct {
	score  scoreFunc
	logger *zap.Logger
}

type scoreFunc func(
	viewer *profile.Profile, viewerTags tag.Set, viewerAge age.Months,
	candidate *profile.Profile, history interaction.History,
) domrank.CandidateScore

// NewRanker creates a Ranker.
func NewRanker(logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{score: Score, logger: logger}
}

// viewerFacts is everything about the viewer that scoring reuses per candidate.
type viewerFacts struct {
	profile *profile.Profile
	tags    tag.Set
	age     age.Months
}

// Rank scores every candidate, drops those failing the filters and sorts the
// rest. A candidate whose scoring panics is logged and skipped.
func (r *Ranker) Rank(
	viewer *profile.Profile,
	pool []profile.Profile,
	history interaction.History,
	filters domrank.Filters,
	mode domrank.SortMode,
) []domrank.CandidateScore {
	vf := viewerFacts{profile: viewer, tags: viewer.Tags(), age: viewer.AverageChildAge()}

	scored := make([]domrank.CandidateScore, 0, len(pool))
	for i := range pool {
		cs, err := r.scoreSafe(&vf, &pool[i], history)
		if err != nil {
			metrics.RankingScoringFailuresTotal.Inc()
			r.logger.Warn("Skipping candidate after scoring failure",
				zap.String("viewer_id", viewer.ID),
				zap.String("candidate_id", pool[i].ID),
				zap.Error(err),
			)
			continue
		}
		if !passes(&cs, &pool[i], &filters) {
			continue
		}
		scored = append(scored, cs)
	}

	Sort(scored, ResolveMode(mode, filters))
	return scored
}

// ResolveMode picks the effective ordering: an explicit mode wins, then the
// lifestyle-priority flag, then recommended.
func ResolveMode(mode domrank.SortMode, filters domrank.Filters) domrank.SortMode {
	if mode != "" {
		return mode
	}
	if filters.LifestylePriority {
		return domrank.Lifestyle
	}
	return domrank.Recommended
}

func (r *Ranker) scoreSafe(
	vf *viewerFacts, candidate *profile.Profile, history interaction.History,
) (cs domrank.CandidateScore, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("scoring panic: %v", rec)
		}
	}()
	return r.score(vf.profile, vf.tags, vf.age, candidate, history), nil
}

// Score computes every sub-score of candidate for the viewer.
func Score(
	viewer *profile.Profile, viewerTags tag.Set, viewerAge age.Months,
	candidate *profile.Profile, history interaction.History,
) domrank.CandidateScore {
	loc := geo.Score(viewer.Location, candidate.Location)
	candTags := candidate.Tags()
	interests := tag.ScoreInterests(viewerTags, candTags)
	diff := age.Diff(viewerAge, candidate.AverageChildAge())
	ageScore := age.Score(diff)

	return domrank.CandidateScore{
		Candidate:        *candidate,
		Tier:             loc.Tier,
		LocationScore:    loc.Score,
		DistanceKm:       loc.DistanceKm,
		DistanceScore:    loc.DistanceScore,
		AgeDiff:          diff,
		AgeScore:         ageScore,
		InterestOverlap:  interests.Overlap,
		InterestRatio:    interests.Ratio,
		LifestyleOverlap: tag.ScoreLifestyle(viewerTags, candTags),
		Composite:        domrank.Composite(loc.Score, ageScore, interests.Score()),
		LikedViewer:      history.LikesViewer(candidate.ID),
	}
}

// passes applies the filters as hard excludes.
func passes(cs *domrank.CandidateScore, candidate *profile.Profile, f *domrank.Filters) bool {
	if f.LocationTier != "" && !cs.Tier.AtLeast(f.LocationTier) {
		return false
	}
	if f.AgeRangeMonths != nil {
		d, ok := cs.AgeDiff.Value()
		if !ok || d > *f.AgeRangeMonths {
			return false
		}
	}
	if f.InterestThreshold != nil && cs.InterestRatio < *f.InterestThreshold {
		return false
	}
	if len(f.RequiredInterests) > 0 && !candidate.Tags().ContainsAll(f.RequiredInterests) {
		return false
	}
	return true
}

// Sort orders scores in place. Candidates who liked the viewer always come
// first; the mode picks the keys after that; equal keys keep pool order.
func Sort(scores []domrank.CandidateScore, mode domrank.SortMode) {
	slices.SortStableFunc(scores, func(a, b domrank.CandidateScore) int {
		ka, kb := sortKeys(&a, mode), sortKeys(&b, mode)
		for i := range ka {
			if c := cmp.Compare(kb[i], ka[i]); c != 0 {
				return c
			}
		}
		return 0
	})
}

// sortKeys lists the descending sort keys for mode.
func sortKeys(c *domrank.CandidateScore, mode domrank.SortMode) []float64 {
	liked := boolKey(c.LikedViewer)
	composite := float64(c.Composite)
	switch mode {
	case domrank.Nearby:
		return []float64{liked, float64(c.TierWeight()), composite}
	case domrank.Lifestyle:
		return []float64{liked, float64(c.LifestyleOverlap), composite}
	case domrank.SameStage:
		return []float64{liked, c.AgeScore, composite}
	default:
		return []float64{
			liked,
			float64(c.TierWeight()),
			float64(c.LifestyleOverlap),
			boolKey(c.SameStage()),
			composite,
		}
	}
}

func boolKey(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
