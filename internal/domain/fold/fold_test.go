package fold

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Kolonaki", "kolonaki"},
		{"  Κολωνάκι ", "κολωνακι"},
		{"Νέα   Σμύρνη", "νεα σμυρνη"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := String(tc.in); got != tc.want {
			t.Errorf("String(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"working_mom", "workingmom"},
		{"Working Mom 💼", "workingmom"},
		{"working-mom", "workingmom"},
		{"WFH mom!", "wfhmom"},
		{"Γιόγκα 🧘", "γιογκα"},
		{"🎉", ""},
	}
	for _, tc := range tests {
		if got := Key(tc.in); got != tc.want {
			t.Errorf("Key(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0-3 months", "0-3-months"},
		{"0-3-months", "0-3-months"},
		{"3_years", "3-years"},
		{" 2-3 Χρόνια ", "2-3-χρονια"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Token(tc.in); got != tc.want {
			t.Errorf("Token(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
