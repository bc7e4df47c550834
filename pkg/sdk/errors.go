package matchd

import "github.com/momcircle/matchd/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound      = domain.ErrNotFound
	ErrInvalidInput  = domain.ErrInvalidInput
	ErrRateLimited   = domain.ErrRateLimited
	ErrProviderError = domain.ErrProviderError
	ErrMalformedPick = domain.ErrMalformedPick
)
