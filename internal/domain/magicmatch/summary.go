package magicmatch

import (
	"fmt"
	"strings"

	"github.com/momcircle/matchd/internal/domain/age"
	"github.com/momcircle/matchd/internal/domain/profile"
)

// Request is one function-calling round: the viewer and up to
// MaxCandidates numbered candidates (index 1 is the first).
type Request struct {
	Viewer     Summary
	Candidates []Summary
}

// SummaryOf renders the fields the model may see about p. Coordinates are
// never included.
func SummaryOf(p *profile.Profile) Summary {
	return Summary{
		Name:       p.Name,
		Location:   locationLabel(p),
		Interests:  p.Interests,
		ChildStage: childStage(p),
		Bio:        p.Bio,
	}
}

func locationLabel(p *profile.Profile) string {
	switch {
	case p.Location.Area != "" && p.Location.City != "":
		return p.Location.Area + ", " + p.Location.City
	case p.Location.City != "":
		return p.Location.City
	default:
		return p.Location.Area
	}
}

func childStage(p *profile.Profile) string {
	if len(p.Children) == 0 {
		return "no children listed"
	}
	labels := make([]string, len(p.Children))
	for i, c := range p.Children {
		labels[i] = age.Label(c.Months())
	}
	noun := "child"
	if len(labels) > 1 {
		noun = "children"
	}
	return fmt.Sprintf("%d %s: %s", len(labels), noun, strings.Join(labels, ", "))
}
