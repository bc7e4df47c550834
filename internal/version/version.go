// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/momcircle/matchd/internal/version.Version=v1.2.0 \
//	    -X github.com/momcircle/matchd/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String is the one-line build description used in startup logs.
func String() string {
	return fmt.Sprintf("matchd %s (commit %s, built %s)", Version, Commit, Date)
}
