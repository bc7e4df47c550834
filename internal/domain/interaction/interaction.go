// Package interaction models directional interest actions and the match
// records they produce.
package interaction

import (
	"fmt"
	"time"

	"github.com/momcircle/matchd/internal/domain"
)

// Choice is a yes/no interest decision.
type Choice string

// Choices.
const (
	Yes Choice = "yes"
	No  Choice = "no"
)

// IsValid reports whether c is yes or no.
func (c Choice) IsValid() bool { return c == Yes || c == No }

// Origin is the surface an action was taken from.
type Origin string

// Action origins.
const (
	OriginBrowse     Origin = "browse"
	OriginMagicMatch Origin = "magic_match"
)

// IsValid reports whether o is a known origin. Empty is treated as browse.
func (o Origin) IsValid() bool { return o == "" || o == OriginBrowse || o == OriginMagicMatch }

// Action is one directional decision. At most one exists per ordered pair;
// a later decision replaces the earlier one.
type Action struct {
	From      string    `db:"from_user" json:"from_user"`
	To        string    `db:"to_user" json:"to_user"`
	Choice    Choice    `db:"choice" json:"choice"`
	Origin    Origin    `db:"origin" json:"origin"`
	CreatedAt time.Time `db:"updated_at" json:"created_at"`
}

// NewAction validates and builds an Action stamped with now.
func NewAction(from, to string, choice Choice, origin Origin, now time.Time) (Action, error) {
	switch {
	case from == "" || to == "":
		return Action{}, fmt.Errorf("%w: both users are required", domain.ErrInvalidInput)
	case from == to:
		return Action{}, fmt.Errorf("%w: cannot act on yourself", domain.ErrInvalidInput)
	case !choice.IsValid():
		return Action{}, fmt.Errorf("%w: choice must be yes or no, got %q", domain.ErrInvalidInput, choice)
	case !origin.IsValid():
		return Action{}, fmt.Errorf("%w: unknown origin %q", domain.ErrInvalidInput, origin)
	}
	if origin == "" {
		origin = OriginBrowse
	}
	return Action{From: from, To: to, Choice: choice, Origin: origin, CreatedAt: now}, nil
}

// Pair is an unordered user pair stored with the smaller id first.
type Pair struct {
	Low  string
	High string
}

// NewPair orders a and b so that {a,b} and {b,a} produce the same Pair.
// Ordering is by bytes, matching the COLLATE "C" pair columns in Postgres.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// Other returns the member of the pair that is not id.
func (p Pair) Other(id string) string {
	if p.Low == id {
		return p.High
	}
	return p.Low
}

// Key is a stable string form of the pair.
func (p Pair) Key() string { return p.Low + ":" + p.High }

// Match is the single record of a mutual yes.
type Match struct {
	ID        string    `db:"id" json:"id"`
	UserLow   string    `db:"user_low" json:"user_low"`
	UserHigh  string    `db:"user_high" json:"user_high"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Pair returns the match's pair.
func (m Match) Pair() Pair { return Pair{Low: m.UserLow, High: m.UserHigh} }

// OutcomeKind tells the caller whether an action completed a match.
type OutcomeKind string

// Outcomes.
const (
	Recorded    OutcomeKind = "recorded"
	MutualMatch OutcomeKind = "mutual_match"
)

// Outcome is the result of recording an action.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Action Action      `json:"action"`
	// Match is set only for MutualMatch.
	Match *Match `json:"match,omitempty"`
}

// History is what a viewer has already done, loaded once per request.
type History struct {
	// Acted holds everyone the viewer sent an action to, either choice.
	Acted map[string]struct{}
	// Matched holds everyone the viewer already has a match with.
	Matched map[string]struct{}
	// LikedBy holds everyone who said yes to the viewer.
	LikedBy map[string]struct{}
}

// NewHistory builds lookup sets from raw records.
func NewHistory(viewer string, actions []Action, matches []Match, likes []Action) History {
	h := History{
		Acted:   make(map[string]struct{}, len(actions)),
		Matched: make(map[string]struct{}, len(matches)),
		LikedBy: make(map[string]struct{}, len(likes)),
	}
	for _, a := range actions {
		if a.From == viewer {
			h.Acted[a.To] = struct{}{}
		}
	}
	for _, m := range matches {
		h.Matched[m.Pair().Other(viewer)] = struct{}{}
	}
	for _, l := range likes {
		if l.To == viewer && l.Choice == Yes {
			h.LikedBy[l.From] = struct{}{}
		}
	}
	return h
}

// HasActed reports whether the viewer already acted on id.
func (h History) HasActed(id string) bool {
	_, ok := h.Acted[id]
	return ok
}

// IsMatched reports whether the viewer is matched with id.
func (h History) IsMatched(id string) bool {
	_, ok := h.Matched[id]
	return ok
}

// LikesViewer reports whether id said yes to the viewer.
func (h History) LikesViewer(id string) bool {
	_, ok := h.LikedBy[id]
	return ok
}
