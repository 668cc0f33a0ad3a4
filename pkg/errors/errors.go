package errors

import "net/http"

// NewHTTPError returns an HTTPError whose code and status are both code.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message, StatusCode: code}
}

// NewUnauthorizedHTTPError returns a 401 Unauthorized error.
func NewUnauthorizedHTTPError() *HTTPError {
	return NewHTTPError(StatusUnauthorized, MessageUnauthorized)
}

// NewBadRequestHTTPError returns a 400 Bad Request error.
func NewBadRequestHTTPError() *HTTPError {
	return NewHTTPError(StatusBadRequest, MessageBadRequest)
}

// NewUnavailableHTTPError returns a 503 with the given message.
func NewUnavailableHTTPError(message string) *HTTPError {
	if message == "" {
		message = MessageUnavailable
	}
	return NewHTTPError(http.StatusServiceUnavailable, message)
}

func (e *HTTPError) Error() string {
	return e.Message
}
