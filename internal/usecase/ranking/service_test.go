package ranking

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/domain"
	"github.com/momcircle/matchd/internal/domain/geo"
	"github.com/momcircle/matchd/internal/domain/interaction"
	"github.com/momcircle/matchd/internal/domain/profile"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
	"github.com/momcircle/matchd/internal/usecase/pool"
)

// --- Mocks ---

type mockProfiles struct {
	byID    map[string]profile.Profile
	all     []profile.Profile
	listErr error
}

func (m *mockProfiles) Get(_ context.Context, id string) (profile.Profile, error) {
	p, ok := m.byID[id]
	if !ok {
		return profile.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockProfiles) ListCompletedExcept(_ context.Context, id string) ([]profile.Profile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]profile.Profile, 0, len(m.all))
	for _, p := range m.all {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockHistory struct {
	actions []interaction.Action
	likes   []interaction.Action
	matches []interaction.Match
}

func (m *mockHistory) ActionsBy(context.Context, string) ([]interaction.Action, error) {
	return m.actions, nil
}

func (m *mockHistory) LikesToward(context.Context, string) ([]interaction.Action, error) {
	return m.likes, nil
}

func (m *mockHistory) MatchesFor(context.Context, string) ([]interaction.Match, error) {
	return m.matches, nil
}

type mockFilters struct {
	f   domrank.Filters
	err error
}

func (m *mockFilters) Get(context.Context, string) (domrank.Filters, error) { return m.f, m.err }

// --- Tests ---

func newTestService(profiles *mockProfiles, history *mockHistory, filters FiltersReader) *Service {
	return New(profiles, history, filters, pool.New(nil, pool.DefaultTestPattern), NewRanker(zap.NewNop()))
}

func fixtureProfiles() *mockProfiles {
	v := mom("v", "Athens", "Kolonaki", []string{"yoga", "single_mom"}, "2-years")
	all := []profile.Profile{
		v,
		mom("a", "Athens", "Glyfada", []string{"yoga"}, "2-years"),
		mom("b", "Athens", "Kolonaki", []string{"single_mom"}, "2-years"),
		mom("c", "Thessaloniki", "", []string{"yoga"}, "2-years"),
		mom("d", "Athens", "Kolonaki", []string{"yoga"}, "1-year"),
	}
	return &mockProfiles{byID: map[string]profile.Profile{"v": v}, all: all}
}

func TestService_Rank(t *testing.T) {
	history := &mockHistory{
		actions: []interaction.Action{{From: "v", To: "d", Choice: interaction.No}},
		likes:   []interaction.Action{{From: "c", To: "v", Choice: interaction.Yes}},
	}
	svc := newTestService(fixtureProfiles(), history, nil)

	got, _, err := svc.Rank(context.Background(), "v", domrank.Recommended, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"c", "b", "a"}
	if ids := candidateIDs(got); !equalIDs(ids, want) {
		t.Errorf("got %v, want %v", ids, want)
	}
}

func TestService_RankLimit(t *testing.T) {
	svc := newTestService(fixtureProfiles(), &mockHistory{}, nil)
	got, _, err := svc.Rank(context.Background(), "v", "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestService_RankUsesSavedFilters(t *testing.T) {
	filters := &mockFilters{f: domrank.Filters{LocationTier: geo.SameArea}}
	svc := newTestService(fixtureProfiles(), &mockHistory{}, filters)

	got, _, err := svc.Rank(context.Background(), "v", domrank.Nearby, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cs := range got {
		if cs.Tier != geo.SameArea {
			t.Errorf("%s has tier %s, want same_area only", cs.Candidate.ID, cs.Tier)
		}
	}
}

func TestService_RankViewerNotFound(t *testing.T) {
	svc := newTestService(fixtureProfiles(), &mockHistory{}, nil)
	_, _, err := svc.Rank(context.Background(), "ghost", "", 0)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_RankStoreError(t *testing.T) {
	profiles := fixtureProfiles()
	profiles.listErr = errors.New("connection reset")
	svc := newTestService(profiles, &mockHistory{}, nil)
	if _, _, err := svc.Rank(context.Background(), "v", "", 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_RankFiltersError(t *testing.T) {
	svc := newTestService(fixtureProfiles(), &mockHistory{}, &mockFilters{err: errors.New("boom")})
	if _, _, err := svc.Rank(context.Background(), "v", "", 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_RankReportsAppliedMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    domrank.SortMode
		filters domrank.Filters
		want    domrank.SortMode
	}{
		{"explicit", domrank.SameStage, domrank.Filters{LifestylePriority: true}, domrank.SameStage},
		{"lifestyle priority", "", domrank.Filters{LifestylePriority: true}, domrank.Lifestyle},
		{"default", "", domrank.Filters{}, domrank.Recommended},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(fixtureProfiles(), &mockHistory{}, &mockFilters{f: tt.filters})
			_, got, err := svc.Rank(context.Background(), "v", tt.mode, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("mode = %q, want %q", got, tt.want)
			}
		})
	}
}
