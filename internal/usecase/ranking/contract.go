package ranking

import (
	"context"

	"github.com/momcircle/matchd/internal/domain/profile"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
	"github.com/momcircle/matchd/internal/usecase/pool"
)

// ProfileReader loads the viewer and the raw candidate set.
type ProfileReader interface {
	Get(ctx context.Context, id string) (profile.Profile, error)
	ListCompletedExcept(ctx context.Context, id string) ([]profile.Profile, error)
}

// HistoryReader is the viewer's interaction history.
type HistoryReader = pool.HistoryReader

// FiltersReader loads the viewer's saved filters. Missing rows yield zero Filters.
type FiltersReader interface {
	Get(ctx context.Context, viewerID string) (domrank.Filters, error)
}
