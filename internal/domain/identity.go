// internal/domain/identity.go
package domain

import "context"

// Identity is the request-scoped identity resolved from a bearer token by the
// external identity service. It is never persisted by this system.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type identityCtxKey struct{}

// WithIdentity returns a copy of ctx carrying the resolved identity.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, ident)
}

// IdentityFromContext returns the identity attached by the auth gate, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return ident, ok
}
