package pool

import (
	"math/rand/v2"
	"testing"

	"github.com/momcircle/matchd/internal/domain/interaction"
	"github.com/momcircle/matchd/internal/domain/profile"
)

func candidate(id string) profile.Profile {
	return profile.Profile{
		ID:        id,
		Name:      "Maria " + id,
		Email:     id + "@mail.gr",
		Completed: true,
		Interests: []string{"yoga"},
	}
}

func ids(ps []profile.Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestBuild_Exclusions(t *testing.T) {
	viewer := candidate("me")

	incomplete := candidate("incomplete")
	incomplete.Completed = false
	testName := candidate("tname")
	testName.Name = "Test User"
	demoMail := candidate("tmail")
	demoMail.Email = "demo_mom@mail.gr"
	empty := candidate("empty")
	empty.Interests = nil
	photoOnly := candidate("photo")
	photoOnly.Interests = nil
	photoOnly.PhotoURL = "https://cdn/p.jpg"
	contest := candidate("contest")
	contest.Name = "Contessa"

	all := []profile.Profile{
		viewer, candidate("admin"), incomplete, testName, demoMail,
		candidate("acted"), candidate("matched"), empty, photoOnly,
		candidate("ok"), contest,
	}
	history := interaction.NewHistory("me",
		[]interaction.Action{{From: "me", To: "acted", Choice: interaction.No}},
		[]interaction.Match{{UserLow: "matched", UserHigh: "me"}},
		nil,
	)

	b := New([]string{"admin"}, DefaultTestPattern)
	got, stats := b.Build(&viewer, all, history)

	want := []string{"photo", "ok", "contest"}
	if g := ids(got); len(g) != len(want) {
		t.Fatalf("pool = %v, want %v", g, want)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("pool[%d] = %q, want %q", i, got[i].ID, id)
		}
	}

	wantStats := Stats{
		ExcludedSelf: 1, ExcludedReserved: 1, ExcludedIncomplete: 1, ExcludedTestData: 2,
		ExcludedActioned: 1, ExcludedMatched: 1, ExcludedEmpty: 1,
	}
	for reason, n := range wantStats {
		if stats[reason] != n {
			t.Errorf("stats[%s] = %d, want %d", reason, stats[reason], n)
		}
	}
}

func TestBuild_PreservesOrderAndIsOrderIndependent(t *testing.T) {
	viewer := candidate("me")
	var all []profile.Profile
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		all = append(all, candidate(id))
	}
	all[2].Completed = false
	history := interaction.NewHistory("me", []interaction.Action{{From: "me", To: "e"}}, nil, nil)

	b := New(nil, DefaultTestPattern)
	got, _ := b.Build(&viewer, all, history)
	if g := ids(got); len(g) != 4 || g[0] != "a" || g[1] != "b" || g[2] != "d" || g[3] != "f" {
		t.Fatalf("pool = %v", g)
	}

	// Membership must not depend on input order.
	shuffled := append([]profile.Profile(nil), all...)
	r := rand.New(rand.NewPCG(1, 2))
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	again, _ := b.Build(&viewer, shuffled, history)
	seen := map[string]bool{}
	for _, p := range again {
		seen[p.ID] = true
	}
	for _, p := range got {
		if !seen[p.ID] {
			t.Errorf("%s missing after shuffle", p.ID)
		}
	}
	if len(again) != len(got) {
		t.Errorf("size changed after shuffle: %d vs %d", len(again), len(got))
	}
}

func TestDefaultTestPattern(t *testing.T) {
	match := []string{"test", "Test Mom", "demo_user@x.gr", "fake-account", "qa.dummy@mail.com", "test123@gmail.com"}
	for _, s := range match {
		if !DefaultTestPattern.MatchString(s) {
			t.Errorf("%q should match", s)
		}
	}
	noMatch := []string{"Contessa", "Testarossa", "Demosthenes", "maria@mail.gr"}
	for _, s := range noMatch {
		if DefaultTestPattern.MatchString(s) {
			t.Errorf("%q should not match", s)
		}
	}
}
