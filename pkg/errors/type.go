package errors

// HTTPError is an error that maps directly onto an HTTP response.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}
