package magicmatch

import (
	"errors"
	"testing"

	"github.com/momcircle/matchd/internal/domain"
)

func TestPickValidate(t *testing.T) {
	valid := Pick{SelectedProfileIndex: 2, MatchScore: 92, PrimaryReason: "Both love yoga", MatchType: SharedInterests}
	if err := valid.Validate(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		mut  func(p *Pick)
	}{
		{"index zero", func(p *Pick) { p.SelectedProfileIndex = 0 }},
		{"index past pool", func(p *Pick) { p.SelectedProfileIndex = 4 }},
		{"blank reason", func(p *Pick) { p.PrimaryReason = "   " }},
		{"bad type", func(p *Pick) { p.MatchType = "soulmates" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mut(&p)
			if err := p.Validate(3); !errors.Is(err, domain.ErrMalformedPick) {
				t.Errorf("expected ErrMalformedPick, got %v", err)
			}
		})
	}
}

func TestPickNormalize(t *testing.T) {
	p := Pick{
		MatchScore:       42,
		PrimaryReason:    "  Same neighbourhood ",
		SecondaryReasons: []string{"a", " ", "b", "c", "d"},
	}
	p.Normalize()
	if p.MatchScore != MinScore {
		t.Errorf("score = %v, want %d", p.MatchScore, MinScore)
	}
	if p.PrimaryReason != "Same neighbourhood" {
		t.Errorf("reason = %q", p.PrimaryReason)
	}
	if len(p.SecondaryReasons) != MaxSecondaryReasons || p.SecondaryReasons[2] != "c" {
		t.Errorf("secondary = %v", p.SecondaryReasons)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 85}, {84.4, 85}, {90.6, 91}, {100, 100}, {140, 100},
	}
	for _, tc := range tests {
		if got := ClampScore(tc.in); got != tc.want {
			t.Errorf("ClampScore(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMatchTypeIsValid(t *testing.T) {
	for _, mt := range MatchTypes() {
		if !mt.IsValid() {
			t.Errorf("%q should be valid", mt)
		}
	}
	if MatchType("").IsValid() {
		t.Error("empty type should be invalid")
	}
}
