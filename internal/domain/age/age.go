// Package age resolves child-age tokens to months.
//
// Two vocabularies are accepted: the canonical tokens written by the current
// profile editor ("3-years") and the free-text ranges stored by older app
// versions ("2-3 χρόνια"). Anything that cannot be pinned to one number
// resolves to Unknown. Unknown is never coerced into a default age.
package age

import (
	"fmt"
	"math"
	"strconv"

	"github.com/momcircle/matchd/internal/domain/fold"
)

// SameStageMonths is the largest average-age gap still considered the same stage.
const SameStageMonths = 12

// Months is an age in months that may be Unknown.
type Months struct {
	value float64
	known bool
}

// Unknown is the zero Months value.
var Unknown = Months{}

// Known wraps a resolved month value.
func Known(v float64) Months { return Months{value: v, known: true} }

// IsKnown reports whether m holds a resolved value.
func (m Months) IsKnown() bool { return m.known }

// Value returns the month value and whether it is known.
func (m Months) Value() (float64, bool) { return m.value, m.known }

func (m Months) String() string {
	if !m.known {
		return "unknown"
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// MarshalJSON encodes Unknown as null.
func (m Months) MarshalJSON() ([]byte, error) {
	if !m.known {
		return []byte("null"), nil
	}
	return []byte(m.String()), nil
}

// canonical holds range midpoints for the editor's tokens.
var canonical = map[string]float64{
	"0-3-months":  1.5,
	"3-6-months":  4.5,
	"6-12-months": 9,
	"1-year":      12,
	"2-years":     24,
	"3-years":     36,
	"4-years":     48,
	"5-years":     60,
	"6-years":     72,
	"7-years":     84,
	"8-years":     96,
	"9-years":     108,
	"10-years":    120,
	"11-years":    132,
	"12-years":    144,
	"13-18-years": 186,
}

// legacy maps free-text ranges from older clients.
var legacy = map[string]float64{
	"0-6 μηνών":   3,
	"6-12 μηνών":  9,
	"1-2 χρόνια":  18,
	"2-3 χρόνια":  30,
	"3-5 χρόνια":  48,
	"5-7 χρόνια":  72,
	"7-10 χρόνια": 102,
	"0-6 months":  3,
	"1-2 years":   18,
	"2-3 years":   30,
	"3-5 years":   48,
	"5-7 years":   72,
	"7-10 years":  102,
	"1 year":      12,
	"newborn":     1.5,
	"νεογέννητο":  1.5,
}

// ambiguous lists legacy labels that span too wide a range to score.
var ambiguous = []string{
	"needs-update",
	"10+ χρόνια",
	"10+ years",
	"σχολική ηλικία",
	"school age",
	"teen",
	"έφηβος",
}

var (
	canonicalIndex = indexBy(canonical)
	legacyIndex    = indexBy(legacy)
	ambiguousIndex = func() map[string]struct{} {
		m := make(map[string]struct{}, len(ambiguous))
		for _, a := range ambiguous {
			m[fold.Token(a)] = struct{}{}
		}
		return m
	}()
)

func indexBy(src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[fold.Token(k)] = v
	}
	return out
}

// Of resolves a single age token. Canonical tokens win over legacy labels;
// ambiguous or unrecognized input yields Unknown.
func Of(token string) Months {
	key := fold.Token(token)
	if key == "" {
		return Unknown
	}
	if _, ok := ambiguousIndex[key]; ok {
		return Unknown
	}
	if v, ok := canonicalIndex[key]; ok {
		return Known(v)
	}
	if v, ok := legacyIndex[key]; ok {
		return Known(v)
	}
	return Unknown
}

// CanonicalTokens returns every editor token.
func CanonicalTokens() []string {
	out := make([]string, 0, len(canonical))
	for k := range canonical {
		out = append(out, k)
	}
	return out
}

// Average returns the mean of the resolvable tokens. It is Unknown when
// the list is empty or when fewer than half of the children resolve: a
// family with mostly unmigrated ages would otherwise be scored on one child.
func Average(tokens []string) Months {
	if len(tokens) == 0 {
		return Unknown
	}
	var sum float64
	var n int
	for _, t := range tokens {
		if v, ok := Of(t).Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 || n*2 < len(tokens) {
		return Unknown
	}
	return Known(sum / float64(n))
}

// Diff returns |a-b|, Unknown when either side is.
func Diff(a, b Months) Months {
	if !a.known || !b.known {
		return Unknown
	}
	return Known(math.Abs(a.value - b.value))
}

// Score maps an age gap to 0..100: 100 - 2*diff floored at 0, and 0 for Unknown.
func Score(diff Months) float64 {
	if !diff.known {
		return 0
	}
	return math.Max(0, 100-2*diff.value)
}

// SameStage reports whether diff is known and within SameStageMonths.
func SameStage(diff Months) bool {
	return diff.known && diff.value <= SameStageMonths
}

// Label renders m for prompts: "3y", "9m" or "unknown".
func Label(m Months) string {
	if !m.known {
		return "unknown"
	}
	if m.value < 12 {
		return fmt.Sprintf("%.0fm", m.value)
	}
	return fmt.Sprintf("%.0fy", math.Floor(m.value/12))
}
