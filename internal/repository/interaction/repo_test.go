package interaction

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
	dominter "github.com/momcircle/matchd/internal/domain/interaction"
)

var now = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

func TestUpsertAction(t *testing.T) {
	var gotQuery string
	var gotArgs []any
	q := &mockQuerier{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			gotQuery, gotArgs = query, args
			return driverResult(1), nil
		},
	}
	a := dominter.Action{From: "a", To: "b", Choice: dominter.Yes, Origin: dominter.OriginMagicMatch, CreatedAt: now}

	if err := New(q).UpsertAction(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotQuery, "ON CONFLICT (from_user, to_user) DO UPDATE") {
		t.Errorf("query must upsert per ordered pair: %q", gotQuery)
	}
	if gotArgs[0] != "a" || gotArgs[1] != "b" || gotArgs[2] != dominter.Yes || gotArgs[3] != dominter.OriginMagicMatch {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestUpsertAction_Error(t *testing.T) {
	q := &mockQuerier{
		execFn: func(context.Context, string, ...any) (sql.Result, error) { return nil, errors.New("down") },
	}
	err := New(q).UpsertAction(context.Background(), dominter.Action{From: "a", To: "b"})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpExec {
		t.Fatalf("expected *db.Error{EXEC}, got %v", err)
	}
}

func TestGetAction(t *testing.T) {
	q := &mockQuerier{
		getFn: func(_ context.Context, dest any, _ string, args ...any) error {
			if args[0] != "b" || args[1] != "a" {
				t.Errorf("args = %v", args)
			}
			*dest.(*dominter.Action) = dominter.Action{From: "b", To: "a", Choice: dominter.Yes}
			return nil
		},
	}
	a, err := New(q).GetAction(context.Background(), "b", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Choice != dominter.Yes {
		t.Errorf("choice = %q", a.Choice)
	}
}

func TestGetAction_NotFound(t *testing.T) {
	q := &mockQuerier{
		getFn: func(context.Context, any, string, ...any) error { return sql.ErrNoRows },
	}
	_, err := New(q).GetAction(context.Background(), "b", "a")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryQueries(t *testing.T) {
	q := &mockQuerier{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if args[0] != "viewer" {
				t.Errorf("args = %v", args)
			}
			switch d := dest.(type) {
			case *[]dominter.Action:
				if strings.Contains(query, "choice = 'yes'") {
					*d = []dominter.Action{{From: "x", To: "viewer", Choice: dominter.Yes}}
				} else {
					*d = []dominter.Action{{From: "viewer", To: "y", Choice: dominter.No}}
				}
			case *[]dominter.Match:
				*d = []dominter.Match{{ID: "m1", UserLow: "viewer", UserHigh: "z"}}
			default:
				t.Fatalf("unexpected dest %T", dest)
			}
			return nil
		},
	}
	r := New(q)
	ctx := context.Background()

	acted, err := r.ActionsBy(ctx, "viewer")
	if err != nil || len(acted) != 1 || acted[0].To != "y" {
		t.Fatalf("ActionsBy = %+v, %v", acted, err)
	}
	likes, err := r.LikesToward(ctx, "viewer")
	if err != nil || len(likes) != 1 || likes[0].From != "x" {
		t.Fatalf("LikesToward = %+v, %v", likes, err)
	}
	matches, err := r.MatchesFor(ctx, "viewer")
	if err != nil || len(matches) != 1 || matches[0].ID != "m1" {
		t.Fatalf("MatchesFor = %+v, %v", matches, err)
	}
}

func TestCreateMatch_Inserted(t *testing.T) {
	m := dominter.Match{ID: "m1", UserLow: "a", UserHigh: "b", CreatedAt: now}
	q := &mockQuerier{
		getFn: func(_ context.Context, dest any, query string, _ ...any) error {
			if !strings.Contains(query, "ON CONFLICT (user_low, user_high) DO NOTHING") {
				t.Errorf("unexpected query %q", query)
			}
			*dest.(*dominter.Match) = m
			return nil
		},
	}
	got, created, err := New(q).CreateMatch(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || got.ID != "m1" {
		t.Errorf("got %+v created=%v", got, created)
	}
}

func TestCreateMatch_ExistingPair(t *testing.T) {
	calls := 0
	q := &mockQuerier{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			calls++
			if calls == 1 {
				return sql.ErrNoRows // conflict: RETURNING yields nothing
			}
			if !strings.HasPrefix(strings.TrimSpace(query), "SELECT") || args[0] != "a" || args[1] != "b" {
				t.Errorf("unexpected fallback query %q %v", query, args)
			}
			*dest.(*dominter.Match) = dominter.Match{ID: "winner", UserLow: "a", UserHigh: "b"}
			return nil
		},
	}
	got, created, err := New(q).CreateMatch(context.Background(),
		dominter.Match{ID: "loser", UserLow: "a", UserHigh: "b", CreatedAt: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("created should be false for an existing pair")
	}
	if got.ID != "winner" {
		t.Errorf("expected the existing record, got %+v", got)
	}
}

func TestCreateMatch_InsertError(t *testing.T) {
	q := &mockQuerier{
		getFn: func(context.Context, any, string, ...any) error { return &pq.Error{Code: "23505"} },
	}
	_, _, err := New(q).CreateMatch(context.Background(), dominter.Match{ID: "m", UserLow: "a", UserHigh: "b"})
	if !errors.Is(err, db.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got %v", err)
	}
}
