// Package ranking defines the per-candidate score and the viewer's filters.
package ranking

import (
	"fmt"
	"math"

	"github.com/momcircle/matchd/internal/domain"
	"github.com/momcircle/matchd/internal/domain/age"
	"github.com/momcircle/matchd/internal/domain/geo"
	"github.com/momcircle/matchd/internal/domain/profile"
)

// Composite weights.
const (
	LocationWeight = 0.40
	AgeWeight      = 0.35
	InterestWeight = 0.25
)

// SortMode selects the secondary ordering of a ranked list.
type SortMode string

// Sort modes.
const (
	Nearby      SortMode = "nearby"
	Lifestyle   SortMode = "lifestyle"
	SameStage   SortMode = "same_stage"
	Recommended SortMode = "recommended"
)

// IsValid checks if the mode is one of the supported values.
func (m SortMode) IsValid() bool {
	return m == Nearby || m == Lifestyle || m == SameStage || m == Recommended
}

// ParseSortMode accepts "" as "not chosen".
func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(s)
	if s == "" || m.IsValid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown sort mode %q", domain.ErrInvalidInput, s)
}

// Filters are the viewer's hard excludes. Nil pointers and empty values are unset.
type Filters struct {
	LocationTier      geo.Tier `json:"location_tier,omitempty"`
	AgeRangeMonths    *float64 `json:"age_range_months,omitempty"`
	InterestThreshold *float64 `json:"interest_threshold,omitempty"`
	LifestylePriority bool     `json:"lifestyle_priority"`
	RequiredInterests []string `json:"required_interests,omitempty"`
}

// Validate rejects out-of-range thresholds.
func (f *Filters) Validate() error {
	if f.LocationTier != "" && !f.LocationTier.IsValid() {
		return fmt.Errorf("%w: unknown location tier %q", domain.ErrInvalidInput, f.LocationTier)
	}
	if f.AgeRangeMonths != nil && *f.AgeRangeMonths < 0 {
		return fmt.Errorf("%w: age range must be >= 0", domain.ErrInvalidInput)
	}
	if f.InterestThreshold != nil && (*f.InterestThreshold < 0 || *f.InterestThreshold > 100) {
		return fmt.Errorf("%w: interest threshold must be within 0..100", domain.ErrInvalidInput)
	}
	return nil
}

// CandidateScore is the ephemeral score of one candidate for one viewer.
type CandidateScore struct {
	Candidate profile.Profile `json:"candidate"`

	Tier          geo.Tier `json:"location_tier"`
	LocationScore float64  `json:"location_score"`
	DistanceKm    *float64 `json:"-"`
	DistanceScore *float64 `json:"-"`

	AgeDiff  age.Months `json:"age_diff_months"`
	AgeScore float64    `json:"age_score"`

	InterestOverlap  int     `json:"interest_overlap"`
	InterestRatio    float64 `json:"interest_ratio"`
	LifestyleOverlap int     `json:"lifestyle_overlap"`

	Composite   int  `json:"composite_score"`
	LikedViewer bool `json:"liked_you"`
}

// SameStage reports whether the children are known to be within a year.
func (c *CandidateScore) SameStage() bool { return age.SameStage(c.AgeDiff) }

// TierWeight is the tier rank with the lifestyle bonus applied.
func (c *CandidateScore) TierWeight() int { return c.Tier.Weight(c.LifestyleOverlap) }

// Composite combines the sub-scores into 0..100.
func Composite(location, ageScore, interest float64) int {
	return int(math.Round(location*LocationWeight + ageScore*AgeWeight + interest*InterestWeight))
}
