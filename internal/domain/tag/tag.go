// Package tag scores interest and lifestyle overlap between two profiles.
// Tags are reduced to fold.Key once, so every comparison is set equality.
package tag

import (
	"math"

	"github.com/momcircle/matchd/internal/domain/fold"
)

// Set is a normalized, de-duplicated tag set.
type Set map[string]struct{}

// NewSet normalizes tags and drops the ones that fold to nothing (pure emoji).
func NewSet(tags []string) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		if k := fold.Key(t); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// Has reports whether the set contains tag after normalization.
func (s Set) Has(tag string) bool {
	_, ok := s[fold.Key(tag)]
	return ok
}

// Len returns the number of distinct tags.
func (s Set) Len() int { return len(s) }

// Overlap counts tags present in both sets.
func Overlap(a, b Set) int {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if _, ok := large[k]; ok {
			n++
		}
	}
	return n
}

// ContainsAll reports whether s holds every required tag.
func (s Set) ContainsAll(required []string) bool {
	for _, r := range required {
		k := fold.Key(r)
		if k == "" {
			continue
		}
		if _, ok := s[k]; !ok {
			return false
		}
	}
	return true
}

// InterestScore is the overlap between two interest sets.
type InterestScore struct {
	Overlap int
	// Ratio is overlap / max(|viewer|, |candidate|, 1) scaled to 0..100.
	Ratio float64
}

// Score rounds Ratio to the nearest integer.
func (s InterestScore) Score() float64 { return math.Round(s.Ratio) }

// ScoreInterests compares two sets. The result is symmetric in its arguments.
func ScoreInterests(viewer, candidate Set) InterestScore {
	overlap := Overlap(viewer, candidate)
	denom := max(len(viewer), len(candidate), 1)
	return InterestScore{
		Overlap: overlap,
		Ratio:   float64(overlap) / float64(denom) * 100,
	}
}
