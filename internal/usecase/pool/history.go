package pool

import (
	"context"
	"fmt"

	"github.com/momcircle/matchd/internal/domain/interaction"
)

// HistoryReader reads what a viewer has done and received.
type HistoryReader interface {
	ActionsBy(ctx context.Context, viewerID string) ([]interaction.Action, error)
	LikesToward(ctx context.Context, viewerID string) ([]interaction.Action, error)
	MatchesFor(ctx context.Context, viewerID string) ([]interaction.Match, error)
}

// LoadHistory reads the viewer's actions, incoming likes and matches once.
func LoadHistory(ctx context.Context, r HistoryReader, viewerID string) (interaction.History, error) {
	actions, err := r.ActionsBy(ctx, viewerID)
	if err != nil {
		return interaction.History{}, fmt.Errorf("load actions: %w", err)
	}
	likes, err := r.LikesToward(ctx, viewerID)
	if err != nil {
		return interaction.History{}, fmt.Errorf("load likes: %w", err)
	}
	matches, err := r.MatchesFor(ctx, viewerID)
	if err != nil {
		return interaction.History{}, fmt.Errorf("load matches: %w", err)
	}
	return interaction.NewHistory(viewerID, actions, matches, likes), nil
}
