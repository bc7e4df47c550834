// Package fold canonicalizes free-form user text (tags, areas, age labels)
// so that comparisons downstream are plain equality.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String lowercases s, strips combining marks ("Κολωνάκι" -> "κολωνακι")
// and collapses whitespace runs to a single space.
func String(s string) string {
	return strings.Join(strings.Fields(stripMarks(strings.ToLower(s))), " ")
}

// Key reduces s to its lowercase letters and digits only. Separators,
// punctuation and emoji are dropped, so "Working Mom 💼", "working_mom"
// and "working-mom" share one key.
func Key(s string) string {
	folded := stripMarks(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Token lowercases s, strips marks and joins the words with "-", treating
// spaces and underscores as separators: "0-3 Months" -> "0-3-months".
func Token(s string) string {
	folded := stripMarks(strings.ToLower(s))
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	})
	return strings.Join(words, "-")
}

// stripMarks decomposes s, drops nonspacing marks and recomposes.
// transform.Chain carries state, so a fresh chain is built per call.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
