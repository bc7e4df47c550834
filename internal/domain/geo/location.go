package geo

import "github.com/momcircle/matchd/internal/domain/fold"

// Tier is a coarse proximity bucket derived from declared location only.
type Tier string

// Proximity tiers, nearest first.
const (
	SameArea Tier = "same_area"
	SameCity Tier = "same_city"
	Other    Tier = "other"
)

// IsValid reports whether t is a known tier.
func (t Tier) IsValid() bool {
	return t == SameArea || t == SameCity || t == Other
}

// Rank orders tiers: SameArea 2, SameCity 1, Other 0.
func (t Tier) Rank() int {
	switch t {
	case SameArea:
		return 2
	case SameCity:
		return 1
	default:
		return 0
	}
}

// Weight is Rank with the SameArea bonus: shared lifestyle lifts it to 3.
func (t Tier) Weight(lifestyleOverlap int) int {
	if t == SameArea && lifestyleOverlap > 0 {
		return 3
	}
	return t.Rank()
}

// AtLeast reports whether t is as close as min.
func (t Tier) AtLeast(min Tier) bool { return t.Rank() >= min.Rank() }

// Score is the numeric value of a tier for the composite: 100, 70 or 30.
func (t Tier) Score() float64 {
	switch t {
	case SameArea:
		return 100
	case SameCity:
		return 70
	default:
		return farScore
	}
}

// Location is a declared city/area with optional coordinates.
type Location struct {
	City  string `json:"city"`
	Area  string `json:"area,omitempty"`
	Point *Point `json:"point,omitempty"`
}

// Result is the outcome of comparing two locations.
type Result struct {
	Tier  Tier
	Score float64
	// DistanceKm and DistanceScore are set only when both sides carry coordinates.
	DistanceKm    *float64
	DistanceScore *float64
}

// Score compares two declared locations. Areas match case- and
// accent-insensitively; an area match across two different declared cities
// does not count. Coordinates never change the tier.
func Score(viewer, candidate Location) Result {
	tier := tierOf(viewer, candidate)
	res := Result{Tier: tier, Score: tier.Score()}

	if viewer.Point != nil && candidate.Point != nil {
		km := DistanceKm(*viewer.Point, *candidate.Point)
		ds := DistanceScore(km)
		res.DistanceKm = &km
		res.DistanceScore = &ds
	}
	return res
}

func tierOf(viewer, candidate Location) Tier {
	vCity, cCity := fold.String(viewer.City), fold.String(candidate.City)
	vArea, cArea := fold.String(viewer.Area), fold.String(candidate.Area)

	citiesAgree := vCity == "" || cCity == "" || vCity == cCity
	if vArea != "" && vArea == cArea && citiesAgree {
		return SameArea
	}
	if vCity != "" && vCity == cCity {
		return SameCity
	}
	return Other
}

// SameCityAs reports whether both declared cities are set and equal.
func SameCityAs(a, b Location) bool {
	ac := fold.String(a.City)
	return ac != "" && ac == fold.String(b.City)
}
