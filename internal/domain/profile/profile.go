// Package profile holds the read model of a user profile as seen by ranking.
package profile

import (
	"strings"
	"time"

	"github.com/momcircle/matchd/internal/domain/age"
	"github.com/momcircle/matchd/internal/domain/geo"
	"github.com/momcircle/matchd/internal/domain/tag"
)

// Gender of a child. Empty means not declared.
type Gender string

// Child gender values.
const (
	GenderUnset Gender = ""
	GenderBoy   Gender = "boy"
	GenderGirl  Gender = "girl"
)

// Child is one entry of a profile's ordered children list.
type Child struct {
	AgeToken string `json:"age_token"`
	Gender   Gender `json:"gender,omitempty"`
}

// Months resolves the child's age token.
func (c Child) Months() age.Months { return age.Of(c.AgeToken) }

// Profile is an immutable snapshot used for one ranking request.
type Profile struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email,omitempty"`
	Bio       string       `json:"bio,omitempty"`
	PhotoURL  string       `json:"photo_url,omitempty"`
	Location  geo.Location `json:"location"`
	Interests []string     `json:"interests"`
	Children  []Child      `json:"children"`
	Completed bool         `json:"completed"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// HasPhoto reports whether a profile photo is set.
func (p *Profile) HasPhoto() bool { return strings.TrimSpace(p.PhotoURL) != "" }

// HasScoringData reports whether interests or children are declared.
func (p *Profile) HasScoringData() bool {
	return len(tag.NewSet(p.Interests)) > 0 || len(p.Children) > 0
}

// AgeTokens returns the children's raw age tokens in order.
func (p *Profile) AgeTokens() []string {
	out := make([]string, len(p.Children))
	for i, c := range p.Children {
		out[i] = c.AgeToken
	}
	return out
}

// AverageChildAge is the mean resolved age of the children.
func (p *Profile) AverageChildAge() age.Months { return age.Average(p.AgeTokens()) }

// Tags returns the normalized interest set.
func (p *Profile) Tags() tag.Set { return tag.NewSet(p.Interests) }
