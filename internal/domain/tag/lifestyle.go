package tag

import "github.com/momcircle/matchd/internal/domain/fold"

// Lifestyle tag identifiers. Clients may send them as ids or as labels
// ("Working Mom 💼"); both fold to the same key.
const (
	SingleMom     = "single_mom"
	WorkingMom    = "working_mom"
	WFHMom        = "wfh_mom"
	StayAtHomeMom = "stay_at_home_mom"
	StudentMom    = "student_mom"
	FirstTimeMom  = "first_time_mom"
	TwinMom       = "twin_mom"
	ExpatMom      = "expat_mom"
)

var lifestyleKeys = func() Set {
	return NewSet([]string{
		SingleMom, WorkingMom, WFHMom, StayAtHomeMom,
		StudentMom, FirstTimeMom, TwinMom, ExpatMom,
	})
}()

// IsLifestyle reports whether tag is one of the lifestyle identifiers.
func IsLifestyle(tag string) bool {
	_, ok := lifestyleKeys[fold.Key(tag)]
	return ok
}

// Lifestyle returns the lifestyle subset of s.
func Lifestyle(s Set) Set {
	out := make(Set)
	for k := range s {
		if _, ok := lifestyleKeys[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// ScoreLifestyle counts shared lifestyle tags.
func ScoreLifestyle(viewer, candidate Set) int {
	return Overlap(Lifestyle(viewer), Lifestyle(candidate))
}
