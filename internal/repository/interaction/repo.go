// Package interaction persists interest actions and match records in Postgres.
package interaction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/momcircle/matchd/internal/db"
	"github.com/momcircle/matchd/internal/db/postgres"
	"github.com/momcircle/matchd/internal/domain"
	dominter "github.com/momcircle/matchd/internal/domain/interaction"
)

// querier is the consumer interface over *sqlx.DB (ISP).
type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const (
	actionColumns = `from_user, to_user, choice, origin, updated_at`
	matchColumns  = `id, user_low, user_high, created_at`
)

const (
	queryUpsertAction = `INSERT INTO interest_actions (` + actionColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (from_user, to_user) DO UPDATE
		SET choice = EXCLUDED.choice, origin = EXCLUDED.origin, updated_at = EXCLUDED.updated_at`

	queryGetAction = `SELECT ` + actionColumns + ` FROM interest_actions
		WHERE from_user = $1 AND to_user = $2`

	queryActionsBy = `SELECT ` + actionColumns + ` FROM interest_actions WHERE from_user = $1`

	queryLikesToward = `SELECT ` + actionColumns + ` FROM interest_actions
		WHERE to_user = $1 AND choice = 'yes'`

	queryMatchesFor = `SELECT ` + matchColumns + ` FROM matches
		WHERE user_low = $1 OR user_high = $1`

	queryInsertMatch = `INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_low, user_high) DO NOTHING
		RETURNING ` + matchColumns

	queryGetMatch = `SELECT ` + matchColumns + ` FROM matches
		WHERE user_low = $1 AND user_high = $2`
)

// Repo implements the reciprocity store and the history reader.
type Repo struct {
	db querier
}

// New creates an interaction repository.
func New(q querier) *Repo {
	return &Repo{db: q}
}

// UpsertAction stores a, replacing any earlier decision for the same ordered pair.
func (r *Repo) UpsertAction(ctx context.Context, a dominter.Action) error {
	_, err := r.db.ExecContext(ctx, queryUpsertAction, a.From, a.To, a.Choice, a.Origin, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert action %s->%s: %w", a.From, a.To, postgres.Wrap(db.OpExec, err))
	}
	return nil
}

// GetAction returns the decision from -> to, or domain.ErrNotFound.
func (r *Repo) GetAction(ctx context.Context, from, to string) (dominter.Action, error) {
	var a dominter.Action
	if err := r.db.GetContext(ctx, &a, queryGetAction, from, to); err != nil {
		if postgres.IsNoRows(err) {
			return dominter.Action{}, fmt.Errorf("action %s->%s: %w", from, to, domain.ErrNotFound)
		}
		return dominter.Action{}, fmt.Errorf("get action %s->%s: %w", from, to, postgres.Wrap(db.OpQuery, err))
	}
	return a, nil
}

// ActionsBy returns every decision the viewer made.
func (r *Repo) ActionsBy(ctx context.Context, viewerID string) ([]dominter.Action, error) {
	var out []dominter.Action
	if err := r.db.SelectContext(ctx, &out, queryActionsBy, viewerID); err != nil {
		return nil, fmt.Errorf("actions by %s: %w", viewerID, postgres.Wrap(db.OpQuery, err))
	}
	return out, nil
}

// LikesToward returns every yes the viewer received.
func (r *Repo) LikesToward(ctx context.Context, viewerID string) ([]dominter.Action, error) {
	var out []dominter.Action
	if err := r.db.SelectContext(ctx, &out, queryLikesToward, viewerID); err != nil {
		return nil, fmt.Errorf("likes toward %s: %w", viewerID, postgres.Wrap(db.OpQuery, err))
	}
	return out, nil
}

// MatchesFor returns every match the viewer belongs to.
func (r *Repo) MatchesFor(ctx context.Context, viewerID string) ([]dominter.Match, error) {
	var out []dominter.Match
	if err := r.db.SelectContext(ctx, &out, queryMatchesFor, viewerID); err != nil {
		return nil, fmt.Errorf("matches for %s: %w", viewerID, postgres.Wrap(db.OpQuery, err))
	}
	return out, nil
}

// CreateMatch inserts m unless its pair already has a match. The unique
// (user_low, user_high) key decides concurrent inserts: the loser gets the
// winner's record and created=false.
func (r *Repo) CreateMatch(ctx context.Context, m dominter.Match) (dominter.Match, bool, error) {
	var inserted dominter.Match
	err := r.db.GetContext(ctx, &inserted, queryInsertMatch, m.ID, m.UserLow, m.UserHigh, m.CreatedAt)
	switch {
	case err == nil:
		return inserted, true, nil
	case !postgres.IsNoRows(err):
		return dominter.Match{}, false, fmt.Errorf("insert match %s:%s: %w",
			m.UserLow, m.UserHigh, postgres.Wrap(db.OpExec, err))
	}

	var existing dominter.Match
	if err := r.db.GetContext(ctx, &existing, queryGetMatch, m.UserLow, m.UserHigh); err != nil {
		return dominter.Match{}, false, fmt.Errorf("load match %s:%s: %w",
			m.UserLow, m.UserHigh, postgres.Wrap(db.OpQuery, err))
	}
	return existing, false, nil
}
