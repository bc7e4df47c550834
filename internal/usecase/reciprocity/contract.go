package reciprocity

import (
	"context"

	"github.com/momcircle/matchd/internal/domain/interaction"
)

// Store persists actions and matches. CreateMatch must be idempotent per
// unordered pair: when the pair already has a match it returns the existing
// record with created=false instead of an error.
type Store interface {
	UpsertAction(ctx context.Context, a interaction.Action) error
	GetAction(ctx context.Context, from, to string) (interaction.Action, error)
	CreateMatch(ctx context.Context, m interaction.Match) (interaction.Match, bool, error)
}

// Notifier hands events to the notification layer.
type Notifier interface {
	MutualMatch(ctx context.Context, m interaction.Match) error
	MagicRequestSent(ctx context.Context, a interaction.Action) error
}
