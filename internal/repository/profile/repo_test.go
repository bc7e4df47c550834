package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/momcircle/matchd/internal/db"
	"github.com/momcircle/matchd/internal/domain"
	"github.com/momcircle/matchd/internal/domain/age"
)

func sampleRow() row {
	return row{
		ID:        "u1",
		Name:      "Eleni",
		PhotoURL:  "https://cdn/u1.jpg",
		City:      "Athens",
		Area:      "Kifisia",
		Latitude:  sql.NullFloat64{Float64: 38.07, Valid: true},
		Longitude: sql.NullFloat64{Float64: 23.81, Valid: true},
		Interests: pq.StringArray{"yoga", "working_mom"},
		Children:  []byte(`[{"age_token":"1-year","gender":"girl"},{"age_token":"2-3 χρόνια"}]`),
		Completed: true,
		UpdatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGet(t *testing.T) {
	q := &mockQuerier{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE id = $1") || args[0] != "u1" {
				t.Errorf("unexpected query %q args %v", query, args)
			}
			*dest.(*row) = sampleRow()
			return nil
		},
	}

	p, err := New(q).Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Location.City != "Athens" || p.Location.Area != "Kifisia" {
		t.Errorf("location = %+v", p.Location)
	}
	if p.Location.Point == nil || p.Location.Point.Lat != 38.07 {
		t.Errorf("point = %+v", p.Location.Point)
	}
	if len(p.Children) != 2 || p.Children[0].Gender != "girl" {
		t.Fatalf("children = %+v", p.Children)
	}
	if got := p.AverageChildAge(); got != age.Known(21) {
		t.Errorf("average age = %v, want 21", got)
	}
	if len(p.Interests) != 2 {
		t.Errorf("interests = %v", p.Interests)
	}
}

func TestGet_NotFound(t *testing.T) {
	q := &mockQuerier{
		getFn: func(context.Context, any, string, ...any) error { return sql.ErrNoRows },
	}
	_, err := New(q).Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	q := &mockQuerier{
		getFn: func(context.Context, any, string, ...any) error { return errors.New("conn refused") },
	}
	_, err := New(q).Get(context.Background(), "u1")
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpQuery {
		t.Fatalf("expected *db.Error{QUERY}, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("store failure must not look like not found")
	}
}

func TestToDomain_NoPointAndBadChildren(t *testing.T) {
	r := sampleRow()
	r.Latitude = sql.NullFloat64{}
	r.Children = []byte(`{not json`)

	p := r.toDomain()
	if p.Location.Point != nil {
		t.Errorf("point should be nil, got %+v", p.Location.Point)
	}
	if p.Children != nil {
		t.Errorf("malformed children should decode to none, got %+v", p.Children)
	}
	if p.AverageChildAge().IsKnown() {
		t.Error("age should be unknown")
	}
}

func TestToDomain_OutOfRangeCoordinates(t *testing.T) {
	r := sampleRow()
	r.Latitude = sql.NullFloat64{Float64: 123.4, Valid: true}

	if p := r.toDomain(); p.Location.Point != nil {
		t.Errorf("invalid coordinates should be dropped, got %+v", p.Location.Point)
	}
}

func TestListCompletedExcept(t *testing.T) {
	q := &mockQuerier{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "completed AND id <> $1") {
				t.Errorf("unexpected query %q", query)
			}
			if args[0] != "viewer" {
				t.Errorf("args = %v", args)
			}
			a, b := sampleRow(), sampleRow()
			b.ID = "u2"
			*dest.(*[]row) = []row{a, b}
			return nil
		},
	}

	got, err := New(q).ListCompletedExcept(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].ID != "u2" {
		t.Errorf("got %+v", got)
	}
}

func TestListInCity(t *testing.T) {
	var gotArgs []any
	q := &mockQuerier{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "city_key(city) = city_key($2)") ||
				!strings.Contains(query, "ORDER BY updated_at DESC, id") ||
				!strings.Contains(query, "OFFSET $4") {
				t.Errorf("unexpected query %q", query)
			}
			gotArgs = args
			*dest.(*[]row) = []row{sampleRow()}
			return nil
		},
	}
	r := New(q)

	got, err := r.ListInCity(context.Background(), "Athens", "viewer", 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d profiles", len(got))
	}
	if gotArgs[0] != "viewer" || gotArgs[1] != "Athens" || gotArgs[2] != 50 || gotArgs[3] != 20 {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestListInCity_EmptyCity(t *testing.T) {
	q := &mockQuerier{
		selectFn: func(context.Context, any, string, ...any) error {
			t.Fatal("no query expected for empty city")
			return nil
		},
	}
	got, err := New(q).ListInCity(context.Background(), "", "viewer", 10, 0)
	if err != nil || got != nil {
		t.Fatalf("got %v, %v", got, err)
	}
}
