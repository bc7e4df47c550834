package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a malformed request argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited signals the generative model rejected the call with HTTP 429.
	ErrRateLimited = errors.New("rate limited")
	// ErrProviderError signals any other generative model failure.
	ErrProviderError = errors.New("match provider error")
	// ErrMalformedPick signals a tool-call payload that violates the selection contract.
	ErrMalformedPick = errors.New("malformed match pick")
)
