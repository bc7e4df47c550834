// Package magicmatch defines the single-best-match pick and its contract
// with the generative model.
package magicmatch

import (
	"fmt"
	"math"
	"strings"

	"github.com/momcircle/matchd/internal/domain"
	"github.com/momcircle/matchd/internal/domain/profile"
)

// Contract bounds.
const (
	MinScore            = 85
	MaxScore            = 100
	MaxSecondaryReasons = 3
	// MaxCandidates is the most summaries sent to the model in one request.
	MaxCandidates = 10
)

// MatchType is the headline reason category.
type MatchType string

// Match types.
const (
	SameStage       MatchType = "same_stage"
	SimilarMood     MatchType = "similar_mood"
	CommonSchedule  MatchType = "common_schedule"
	SharedInterests MatchType = "shared_interests"
	NearbyVibes     MatchType = "nearby_vibes"
)

// MatchTypes lists every valid match type.
func MatchTypes() []MatchType {
	return []MatchType{SameStage, SimilarMood, CommonSchedule, SharedInterests, NearbyVibes}
}

// IsValid checks if the type is one of the supported values.
func (t MatchType) IsValid() bool {
	for _, v := range MatchTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Status is the terminal state of a selection.
type Status string

// Terminal states.
const (
	StatusResolved     Status = "resolved"
	StatusNoCandidates Status = "no_candidates"
)

// Source records who produced a resolved pick. Callers must not branch on it.
type Source string

// Sources.
const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Summary is what the model sees about one person.
type Summary struct {
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Interests  []string `json:"interests"`
	ChildStage string   `json:"child_stage"`
	Bio        string   `json:"bio,omitempty"`
}

// Pick is the model's function-call payload.
type Pick struct {
	SelectedProfileIndex int       `json:"selectedProfileIndex"`
	MatchScore           float64   `json:"matchScore"`
	PrimaryReason        string    `json:"primaryReason"`
	SecondaryReasons     []string  `json:"secondaryReasons"`
	MatchType            MatchType `json:"matchType"`
}

// Validate checks the pick against a pool of poolSize summaries. The score
// is not validated here: Normalize clamps it into range.
func (p *Pick) Validate(poolSize int) error {
	switch {
	case p.SelectedProfileIndex < 1 || p.SelectedProfileIndex > poolSize:
		return fmt.Errorf("%w: index %d outside 1..%d", domain.ErrMalformedPick, p.SelectedProfileIndex, poolSize)
	case strings.TrimSpace(p.PrimaryReason) == "":
		return fmt.Errorf("%w: empty primary reason", domain.ErrMalformedPick)
	case !p.MatchType.IsValid():
		return fmt.Errorf("%w: unknown match type %q", domain.ErrMalformedPick, p.MatchType)
	case math.IsNaN(p.MatchScore):
		return fmt.Errorf("%w: score is NaN", domain.ErrMalformedPick)
	}
	return nil
}

// Normalize clamps the score, trims reasons and caps secondary reasons.
func (p *Pick) Normalize() {
	p.MatchScore = float64(ClampScore(p.MatchScore))
	p.PrimaryReason = strings.TrimSpace(p.PrimaryReason)
	reasons := make([]string, 0, MaxSecondaryReasons)
	for _, r := range p.SecondaryReasons {
		if r = strings.TrimSpace(r); r != "" && len(reasons) < MaxSecondaryReasons {
			reasons = append(reasons, r)
		}
	}
	p.SecondaryReasons = reasons
}

// ClampScore rounds v into [MinScore, MaxScore].
func ClampScore(v float64) int {
	return int(math.Max(MinScore, math.Min(MaxScore, math.Round(v))))
}

// Result is the resolved selection. The shape is the same for AI and fallback.
type Result struct {
	Status           Status           `json:"status"`
	Candidate        *profile.Profile `json:"candidate,omitempty"`
	MatchScore       int              `json:"match_score,omitempty"`
	PrimaryReason    string           `json:"primary_reason,omitempty"`
	SecondaryReasons []string         `json:"secondary_reasons,omitempty"`
	MatchType        MatchType        `json:"match_type,omitempty"`
	// RateLimited is set when the model answered 429 or is cooling down.
	RateLimited bool   `json:"rate_limited"`
	Source      Source `json:"-"`
}

// NoCandidates is the empty-pool outcome.
func NoCandidates() Result { return Result{Status: StatusNoCandidates} }
