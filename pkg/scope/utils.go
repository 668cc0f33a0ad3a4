package scope

import "context"

type principalKey struct{}

// SetPrincipalToContext returns a copy of ctx carrying p.
func SetPrincipalToContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipalFromContext returns the Principal stored by SetPrincipalToContext.
func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
