// Package profile reads ranking profiles from Postgres.
package profile

import (
	"context"
	"fmt"

	"github.com/momcircle/matchd/internal/db"
	"github.com/momcircle/matchd/internal/db/postgres"
	"github.com/momcircle/matchd/internal/domain"
	domprofile "github.com/momcircle/matchd/internal/domain/profile"
)

// querier is the consumer interface over *sqlx.DB (ISP).
type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

const columns = `id, name, email, bio, photo_url, city, area, latitude, longitude,
	interests, children, completed, updated_at`

const (
	queryGet = `SELECT ` + columns + ` FROM profiles WHERE id = $1`

	queryListCompletedExcept = `SELECT ` + columns + `
		FROM profiles
		WHERE completed AND id <> $1
		ORDER BY updated_at DESC`

	queryListInCity = `SELECT ` + columns + `
		FROM profiles
		WHERE completed AND id <> $1 AND city_key(city) = city_key($2)
		ORDER BY updated_at DESC, id
		LIMIT $3 OFFSET $4`
)

// Repo implements the ranking and magic-match profile readers.
type Repo struct {
	db querier
}

// New creates a profile repository.
func New(q querier) *Repo {
	return &Repo{db: q}
}

// Get returns one profile by id.
func (r *Repo) Get(ctx context.Context, id string) (domprofile.Profile, error) {
	var row row
	if err := r.db.GetContext(ctx, &row, queryGet, id); err != nil {
		if postgres.IsNoRows(err) {
			return domprofile.Profile{}, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		return domprofile.Profile{}, fmt.Errorf("get profile %s: %w", id, postgres.Wrap(db.OpQuery, err))
	}
	return row.toDomain(), nil
}

// ListCompletedExcept returns every completed profile other than id, most recently updated first.
func (r *Repo) ListCompletedExcept(ctx context.Context, id string) ([]domprofile.Profile, error) {
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, queryListCompletedExcept, id); err != nil {
		return nil, fmt.Errorf("list completed profiles: %w", postgres.Wrap(db.OpQuery, err))
	}
	return toDomainList(rows), nil
}

// ListInCity returns one page of completed profiles in city, excluding
// excludeID, most recently updated first. City comparison ignores case and accents.
func (r *Repo) ListInCity(
	ctx context.Context, city, excludeID string, limit, offset int,
) ([]domprofile.Profile, error) {
	if city == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, queryListInCity, excludeID, city, limit, offset); err != nil {
		return nil, fmt.Errorf("list profiles in %s: %w", city, postgres.Wrap(db.OpQuery, err))
	}
	return toDomainList(rows), nil
}
