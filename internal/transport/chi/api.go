package chi

import (
	"time"

	"github.com/momcircle/matchd/internal/domain/interaction"
	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	"github.com/momcircle/matchd/internal/domain/profile"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
)

// ErrorCode is the machine-readable error kind in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeProviderError    ErrorCode = "provider_error"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ListCandidatesParams are the query parameters of GET /v1/users/{userID}/candidates.
type ListCandidatesParams struct {
	Sort  *string `form:"sort,omitempty" json:"sort,omitempty"`
	Limit *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// ActionRequest is the body of POST /v1/users/{userID}/actions.
type ActionRequest struct {
	ToUser string `json:"to_user" validate:"required,max=128"`
	Choice string `json:"choice" validate:"required,oneof=yes no"`
	Origin string `json:"origin,omitempty" validate:"omitempty,oneof=browse magic_match"`
}

// ChildView is one child as shown to other users.
type ChildView struct {
	AgeToken string         `json:"age_token"`
	Gender   profile.Gender `json:"gender,omitempty"`
}

// ProfileView is the public part of a profile. Email and coordinates are never exposed.
type ProfileView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	PhotoURL  string      `json:"photo_url,omitempty"`
	Bio       string      `json:"bio,omitempty"`
	City      string      `json:"city,omitempty"`
	Area      string      `json:"area,omitempty"`
	Interests []string    `json:"interests"`
	Children  []ChildView `json:"children"`
}

// CandidateItem is one ranked candidate.
type CandidateItem struct {
	Profile          ProfileView `json:"profile"`
	LocationTier     string      `json:"location_tier"`
	LocationScore    float64     `json:"location_score"`
	AgeScore         float64     `json:"age_score"`
	InterestScore    float64     `json:"interest_score"`
	InterestOverlap  int         `json:"interest_overlap"`
	LifestyleOverlap int         `json:"lifestyle_overlap"`
	CompositeScore   int         `json:"composite_score"`
	SameStage        bool        `json:"same_stage"`
	LikedYou         bool        `json:"liked_you"`
}

// CandidateListResponse is the ranked list.
type CandidateListResponse struct {
	Sort  string          `json:"sort"`
	Items []CandidateItem `json:"items"`
}

// MagicMatchResponse is a Magic-Match outcome.
type MagicMatchResponse struct {
	Status           string       `json:"status"`
	Candidate        *ProfileView `json:"candidate,omitempty"`
	MatchScore       int          `json:"match_score,omitempty"`
	PrimaryReason    string       `json:"primary_reason,omitempty"`
	SecondaryReasons []string     `json:"secondary_reasons,omitempty"`
	MatchType        string       `json:"match_type,omitempty"`
	RateLimited      bool         `json:"rate_limited"`
}

// MatchView is a created match record.
type MatchView struct {
	ID        string    `json:"id"`
	Users     [2]string `json:"users"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionResponse is the outcome of recording an action.
type ActionResponse struct {
	Outcome string     `json:"outcome"`
	Match   *MatchView `json:"match,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func profileToView(p *profile.Profile) ProfileView {
	children := make([]ChildView, len(p.Children))
	for i, c := range p.Children {
		children[i] = ChildView{AgeToken: c.AgeToken, Gender: c.Gender}
	}
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	return ProfileView{
		ID:        p.ID,
		Name:      p.Name,
		PhotoURL:  p.PhotoURL,
		Bio:       p.Bio,
		City:      p.Location.City,
		Area:      p.Location.Area,
		Interests: interests,
		Children:  children,
	}
}

func candidateToItem(c *domrank.CandidateScore) CandidateItem {
	return CandidateItem{
		Profile:          profileToView(&c.Candidate),
		LocationTier:     string(c.Tier),
		LocationScore:    c.LocationScore,
		AgeScore:         c.AgeScore,
		InterestScore:    c.InterestRatio,
		InterestOverlap:  c.InterestOverlap,
		LifestyleOverlap: c.LifestyleOverlap,
		CompositeScore:   c.Composite,
		SameStage:        c.SameStage(),
		LikedYou:         c.LikedViewer,
	}
}

func magicMatchToResponse(r *dommm.Result) MagicMatchResponse {
	resp := MagicMatchResponse{
		Status:           string(r.Status),
		MatchScore:       r.MatchScore,
		PrimaryReason:    r.PrimaryReason,
		SecondaryReasons: r.SecondaryReasons,
		MatchType:        string(r.MatchType),
		RateLimited:      r.RateLimited,
	}
	if r.Candidate != nil {
		v := profileToView(r.Candidate)
		resp.Candidate = &v
	}
	return resp
}

func outcomeToResponse(o *interaction.Outcome) ActionResponse {
	resp := ActionResponse{Outcome: string(o.Kind)}
	if o.Match != nil {
		resp.Match = &MatchView{
			ID:        o.Match.ID,
			Users:     [2]string{o.Match.UserLow, o.Match.UserHigh},
			CreatedAt: o.Match.CreatedAt,
		}
	}
	return resp
}
