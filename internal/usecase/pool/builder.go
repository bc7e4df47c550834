// Package pool assembles the eligible candidate set for a viewer.
package pool

import (
	"regexp"

	"github.com/momcircle/matchd/internal/domain/interaction"
	"github.com/momcircle/matchd/internal/domain/profile"
)

// DefaultTestPattern flags seeded test and demo accounts by name or email.
var DefaultTestPattern = regexp.MustCompile(`(?i)(^|[^\p{L}])(test|demo|dummy|fake)([^\p{L}]|$)`)

// Exclusion is why a profile was left out of the pool.
type Exclusion string

// Exclusion reasons.
const (
	ExcludedSelf       Exclusion = "self"
	ExcludedReserved   Exclusion = "reserved"
	ExcludedIncomplete Exclusion = "incomplete"
	ExcludedTestData   Exclusion = "test_account"
	ExcludedActioned   Exclusion = "already_actioned"
	ExcludedMatched    Exclusion = "already_matched"
	ExcludedEmpty      Exclusion = "nothing_to_score"
)

// Stats counts exclusions per reason for one build.
type Stats map[Exclusion]int

// Builder filters profiles down to the candidates a viewer may see.
type Builder struct {
	reserved map[string]struct{}
	testRe   *regexp.Regexp
}

// New creates a Builder. A nil testPattern disables the test-account check.
func New(reservedIDs []string, testPattern *regexp.Regexp) *Builder {
	reserved := make(map[string]struct{}, len(reservedIDs))
	for _, id := range reservedIDs {
		if id != "" {
			reserved[id] = struct{}{}
		}
	}
	return &Builder{reserved: reserved, testRe: testPattern}
}

// Build returns the eligible candidates in their input order. Every check
// is an independent predicate, so the result does not depend on which
// check runs first.
func (b *Builder) Build(
	viewer *profile.Profile, all []profile.Profile, history interaction.History,
) ([]profile.Profile, Stats) {
	out := make([]profile.Profile, 0, len(all))
	stats := make(Stats)
	for i := range all {
		if reason, excluded := b.Exclude(viewer, &all[i], history); excluded {
			stats[reason]++
			continue
		}
		out = append(out, all[i])
	}
	return out, stats
}

// Exclude reports the first reason candidate is ineligible, if any.
func (b *Builder) Exclude(
	viewer, candidate *profile.Profile, history interaction.History,
) (Exclusion, bool) {
	switch {
	case candidate.ID == viewer.ID:
		return ExcludedSelf, true
	case b.isReserved(candidate.ID):
		return ExcludedReserved, true
	case !candidate.Completed:
		return ExcludedIncomplete, true
	case b.isTestAccount(candidate):
		return ExcludedTestData, true
	case history.HasActed(candidate.ID):
		return ExcludedActioned, true
	case history.IsMatched(candidate.ID):
		return ExcludedMatched, true
	case !candidate.HasPhoto() && !candidate.HasScoringData():
		return ExcludedEmpty, true
	}
	return "", false
}

func (b *Builder) isReserved(id string) bool {
	_, ok := b.reserved[id]
	return ok
}

func (b *Builder) isTestAccount(p *profile.Profile) bool {
	if b.testRe == nil {
		return false
	}
	return b.testRe.MatchString(p.Name) || b.testRe.MatchString(p.Email)
}
