package magicmatch

import (
	"context"
	"time"

	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	"github.com/momcircle/matchd/internal/domain/profile"
	"github.com/momcircle/matchd/internal/usecase/pool"
)

// Picker asks the generative model for one candidate. Implementations
// return domain.ErrRateLimited for HTTP 429 and any other error for failures.
type Picker interface {
	Pick(ctx context.Context, req dommm.Request) (dommm.Pick, error)
}

// ProfileReader loads the viewer and the same-city candidates.
type ProfileReader interface {
	Get(ctx context.Context, id string) (profile.Profile, error)
	ListInCity(ctx context.Context, city, excludeID string, limit, offset int) ([]profile.Profile, error)
}

// HistoryReader is the viewer's interaction history.
type HistoryReader = pool.HistoryReader

// Cooldown remembers that the model recently answered 429.
type Cooldown interface {
	Active(ctx context.Context) (bool, error)
	Start(ctx context.Context, ttl time.Duration) error
}

// ReasonCache keeps model justifications per (viewer, candidate) pair.
type ReasonCache interface {
	Get(viewerID, candidateID string) (dommm.Result, bool)
	Add(viewerID, candidateID string, r dommm.Result)
}
