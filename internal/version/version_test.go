package version

import "testing"

func TestString(t *testing.T) {
	Version, Commit, Date = "v1.0.0", "abc123", "2025-06-01"
	t.Cleanup(func() { Version, Commit, Date = "dev", "unknown", "unknown" })

	if got, want := String(), "matchd v1.0.0 (commit abc123, built 2025-06-01)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
