package profile

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/momcircle/matchd/internal/domain/geo"
	domprofile "github.com/momcircle/matchd/internal/domain/profile"
)

// row mirrors the profiles table.
type row struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Email     string          `db:"email"`
	Bio       string          `db:"bio"`
	PhotoURL  string          `db:"photo_url"`
	City      string          `db:"city"`
	Area      string          `db:"area"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	Longitude sql.NullFloat64 `db:"longitude"`
	Interests pq.StringArray  `db:"interests"`
	Children  []byte          `db:"children"`
	Completed bool            `db:"completed"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// toDomain converts a row. A malformed children document yields no children,
// which downstream scoring treats as unknown age. Out-of-range coordinates are dropped.
func (r *row) toDomain() domprofile.Profile {
	p := domprofile.Profile{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Bio:      r.Bio,
		PhotoURL: r.PhotoURL,
		Location: geo.Location{
			City: r.City,
			Area: r.Area,
		},
		Interests: []string(r.Interests),
		Completed: r.Completed,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Latitude.Valid && r.Longitude.Valid && geo.ValidateCoordinates(r.Latitude.Float64, r.Longitude.Float64) {
		p.Location.Point = &geo.Point{Lat: r.Latitude.Float64, Lon: r.Longitude.Float64}
	}
	if len(r.Children) > 0 {
		var children []domprofile.Child
		if err := json.Unmarshal(r.Children, &children); err == nil {
			p.Children = children
		}
	}
	return p
}

func toDomainList(rows []row) []domprofile.Profile {
	out := make([]domprofile.Profile, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}
