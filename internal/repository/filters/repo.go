// Package filters reads per-viewer ranking filters from Postgres.
package filters

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/momcircle/matchd/internal/db"
	"github.com/momcircle/matchd/internal/db/postgres"
	"github.com/momcircle/matchd/internal/domain/geo"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
)

// querier is the consumer interface over *sqlx.DB (ISP).
type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

const queryGet = `SELECT location_tier, age_range_months, interest_threshold,
		lifestyle_priority, required_interests
	FROM ranking_filters WHERE user_id = $1`

type row struct {
	LocationTier      sql.NullString  `db:"location_tier"`
	AgeRangeMonths    sql.NullFloat64 `db:"age_range_months"`
	InterestThreshold sql.NullFloat64 `db:"interest_threshold"`
	LifestylePriority bool            `db:"lifestyle_priority"`
	RequiredInterests pq.StringArray  `db:"required_interests"`
}

func (r *row) toDomain() domrank.Filters {
	f := domrank.Filters{
		LocationTier:      geo.Tier(r.LocationTier.String),
		LifestylePriority: r.LifestylePriority,
		RequiredInterests: []string(r.RequiredInterests),
	}
	if r.AgeRangeMonths.Valid {
		v := r.AgeRangeMonths.Float64
		f.AgeRangeMonths = &v
	}
	if r.InterestThreshold.Valid {
		v := r.InterestThreshold.Float64
		f.InterestThreshold = &v
	}
	return f
}

// Repo implements the ranking filters reader.
type Repo struct {
	db querier
}

// New creates a filters repository.
func New(q querier) *Repo {
	return &Repo{db: q}
}

// Get returns the viewer's filters. A viewer without a row has no filters.
func (r *Repo) Get(ctx context.Context, viewerID string) (domrank.Filters, error) {
	var row row
	if err := r.db.GetContext(ctx, &row, queryGet, viewerID); err != nil {
		if postgres.IsNoRows(err) {
			return domrank.Filters{}, nil
		}
		return domrank.Filters{}, fmt.Errorf("get filters %s: %w", viewerID, postgres.Wrap(db.OpQuery, err))
	}
	f := row.toDomain()
	if err := f.Validate(); err != nil {
		return domrank.Filters{}, fmt.Errorf("filters %s: %w", viewerID, err)
	}
	return f, nil
}
