package interaction

import (
	"errors"
	"testing"
	"time"

	"github.com/momcircle/matchd/internal/domain"
)

func TestNewPair_ByteOrder(t *testing.T) {
	p := NewPair("a", "B")
	if p.Low != "B" || p.High != "a" {
		t.Errorf("pair = %+v, want uppercase first", p)
	}
}

func TestNewPair_OrderIndependent(t *testing.T) {
	a, b := NewPair("u2", "u1"), NewPair("u1", "u2")
	if a != b {
		t.Fatalf("pairs differ: %+v vs %+v", a, b)
	}
	if a.Low != "u1" || a.High != "u2" {
		t.Errorf("unexpected order: %+v", a)
	}
	if a.Other("u1") != "u2" || a.Other("u2") != "u1" {
		t.Error("Other broken")
	}
	if a.Key() != "u1:u2" {
		t.Errorf("Key = %q", a.Key())
	}
}

func TestNewAction_Validation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		from   string
		to     string
		choice Choice
		origin Origin
	}{
		{"self", "u1", "u1", Yes, OriginBrowse},
		{"missing to", "u1", "", Yes, OriginBrowse},
		{"bad choice", "u1", "u2", "maybe", OriginBrowse},
		{"bad origin", "u1", "u2", Yes, "push"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAction(tc.from, tc.to, tc.choice, tc.origin, now)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	a, err := NewAction("u1", "u2", No, "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Origin != OriginBrowse {
		t.Errorf("default origin = %q, want browse", a.Origin)
	}
}

func TestNewHistory(t *testing.T) {
	h := NewHistory("me",
		[]Action{{From: "me", To: "a", Choice: No}, {From: "me", To: "b", Choice: Yes}},
		[]Match{{UserLow: "c", UserHigh: "me"}},
		[]Action{{From: "d", To: "me", Choice: Yes}, {From: "e", To: "me", Choice: No}},
	)
	if !h.HasActed("a") || !h.HasActed("b") || h.HasActed("c") {
		t.Errorf("acted = %v", h.Acted)
	}
	if !h.IsMatched("c") || h.IsMatched("me") {
		t.Errorf("matched = %v", h.Matched)
	}
	if !h.LikesViewer("d") || h.LikesViewer("e") {
		t.Errorf("likedBy = %v", h.LikedBy)
	}
}
