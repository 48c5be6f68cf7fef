package service

import "errors"

var (
	// ErrEmailUsed is returned when signup finds the email already registered.
	ErrEmailUsed = errors.New("email already in use")

	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrOutOfTokens is returned when a user's consumable balance is exhausted.
	ErrOutOfTokens = errors.New("token balance exhausted")

	// ErrUpstream is returned when the external generation service fails.
	ErrUpstream = errors.New("recipe service unavailable")

	// ErrMalformedRecipe is returned when the upstream response text cannot
	// be parsed into sections. Treated the same as ErrUpstream at the
	// handler boundary: the request fails and no token is consumed.
	ErrMalformedRecipe = errors.New("malformed recipe response")

	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
)
