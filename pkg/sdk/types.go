package matchd

import (
	"context"

	"github.com/momcircle/matchd/internal/domain/geo"
	"github.com/momcircle/matchd/internal/domain/interaction"
	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	"github.com/momcircle/matchd/internal/domain/profile"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
	"github.com/momcircle/matchd/internal/repository/memory"
)

// Profile data.
type (
	Profile  = profile.Profile
	Child    = profile.Child
	Gender   = profile.Gender
	Location = geo.Location
	Point    = geo.Point
	Tier     = geo.Tier
)

// Ranking.
type (
	SortMode  = domrank.SortMode
	Filters   = domrank.Filters
	Candidate = domrank.CandidateScore
)

// Sort modes. The zero value keeps the default order.
const (
	SortDefault     SortMode = ""
	SortNearby               = domrank.Nearby
	SortLifestyle            = domrank.Lifestyle
	SortSameStage            = domrank.SameStage
	SortRecommended          = domrank.Recommended
)

// Magic Match.
type (
	MagicMatchResult = dommm.Result
	PickRequest      = dommm.Request
	Pick             = dommm.Pick
	Summary          = dommm.Summary
	MatchType        = dommm.MatchType
)

// Interactions.
type (
	Choice  = interaction.Choice
	Origin  = interaction.Origin
	Action  = interaction.Action
	Outcome = interaction.Outcome
	Match   = interaction.Match
)

// Interaction values.
const (
	Yes              = interaction.Yes
	No               = interaction.No
	OriginBrowse     = interaction.OriginBrowse
	OriginMagicMatch = interaction.OriginMagicMatch
	Recorded         = interaction.Recorded
	MutualMatch      = interaction.MutualMatch
)

// ProfileSource reads profiles. Get returns ErrNotFound for unknown ids.
type ProfileSource interface {
	Get(ctx context.Context, id string) (Profile, error)
	ListCompletedExcept(ctx context.Context, id string) ([]Profile, error)
	ListInCity(ctx context.Context, city, excludeID string, limit, offset int) ([]Profile, error)
}

// InteractionStore persists actions and matches. CreateMatch must return the
// existing record with created=false when the pair already has a match.
type InteractionStore interface {
	ActionsBy(ctx context.Context, viewerID string) ([]Action, error)
	LikesToward(ctx context.Context, viewerID string) ([]Action, error)
	MatchesFor(ctx context.Context, viewerID string) ([]Match, error)
	UpsertAction(ctx context.Context, a Action) error
	GetAction(ctx context.Context, from, to string) (Action, error)
	CreateMatch(ctx context.Context, m Match) (Match, bool, error)
}

// FiltersSource returns a viewer's saved filters, zero Filters when unset.
type FiltersSource interface {
	Get(ctx context.Context, viewerID string) (Filters, error)
}

// Picker asks a generative model to choose one candidate. Return
// ErrRateLimited for HTTP 429.
type Picker interface {
	Pick(ctx context.Context, req PickRequest) (Pick, error)
}

// Notifier receives match events. Errors are logged, never returned to callers.
type Notifier interface {
	MutualMatch(ctx context.Context, m Match) error
	MagicRequestSent(ctx context.Context, a Action) error
}

// MemoryStore keeps profiles, filters and interactions in process memory.
type MemoryStore = memory.Store

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return memory.New() }
