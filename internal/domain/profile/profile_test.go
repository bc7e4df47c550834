package profile

import "testing"

func TestHasScoringData(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
		want bool
	}{
		{"empty", Profile{}, false},
		{"emoji only interests", Profile{Interests: []string{"🎉", " "}}, false},
		{"interests", Profile{Interests: []string{"yoga"}}, true},
		{"children", Profile{Children: []Child{{AgeToken: "needs-update"}}}, true},
	}
	for _, tc := range tests {
		if got := tc.p.HasScoringData(); got != tc.want {
			t.Errorf("%s: HasScoringData = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAverageChildAge(t *testing.T) {
	p := Profile{Children: []Child{{AgeToken: "3-years"}, {AgeToken: "1-year", Gender: GenderGirl}}}
	v, ok := p.AverageChildAge().Value()
	if !ok || v != 24 {
		t.Errorf("AverageChildAge = %v/%v, want 24", v, ok)
	}
	if got := p.AgeTokens(); len(got) != 2 || got[0] != "3-years" {
		t.Errorf("AgeTokens = %v", got)
	}
}

func TestHasPhoto(t *testing.T) {
	if (&Profile{PhotoURL: "  "}).HasPhoto() {
		t.Error("blank url is not a photo")
	}
	if !(&Profile{PhotoURL: "https://cdn/x.jpg"}).HasPhoto() {
		t.Error("expected photo")
	}
}
