package scope

// Verifier resolves a bearer token to a Principal.
// Implementations are safe for concurrent use.
type Verifier interface {
	Verify(token string) (Principal, error)
}
