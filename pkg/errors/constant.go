package errors

import "net/http"

const (
	// MessageUnauthorized is the default message for 401.
	MessageUnauthorized = "Unauthorized"
	// MessageBadRequest is the default message for 400.
	MessageBadRequest = "Bad request"
	// MessageUnavailable is the default message for 503.
	MessageUnavailable = "Service unavailable"
)

const (
	StatusBadRequest   = http.StatusBadRequest
	StatusUnauthorized = http.StatusUnauthorized
	StatusUnavailable  = http.StatusServiceUnavailable
)
