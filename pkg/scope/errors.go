package scope

import "errors"

var (
	// ErrInvalidToken is returned when a token is invalid, expired, or malformed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingToken is returned when the request carries no credential.
	ErrMissingToken = errors.New("missing token")
	// ErrMalformedHeader is returned when Authorization is present but not a bearer credential.
	ErrMalformedHeader = errors.New("malformed authorization header")
)
