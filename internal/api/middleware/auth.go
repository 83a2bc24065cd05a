// internal/api/middleware/auth.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"opledger/internal/domain"
)

// maxProbeBodyBytes bounds how much of a request body the gate will buffer when
// probing for a declared owner id.
const maxProbeBodyBytes = 1 << 20

// IdentityResolver resolves a bearer token into an identity.
// *identity.Client implements this.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// AuthGate intercepts every inbound request: it resolves the bearer token via the
// external identity service, rejects missing/invalid tokens, enforces that a
// body-declared owner matches the resolved identity, and attaches the identity to
// the request context for downstream handlers.
//
// Every failure mode collapses to the same generic 401; the specific cause is
// logged but never exposed to the caller.
type AuthGate struct {
	resolver IdentityResolver
	logger   *slog.Logger
}

// NewAuthGate creates a new AuthGate.
func NewAuthGate(resolver IdentityResolver, logger *slog.Logger) *AuthGate {
	return &AuthGate{
		resolver: resolver,
		logger:   logger,
	}
}

// Handler wraps next with the authentication gate.
func (g *AuthGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			g.logger.Warn("Request rejected: missing token", "path", r.URL.Path)
			g.unauthorized(w)
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			g.logger.Warn("Request rejected: malformed Authorization header", "path", r.URL.Path)
			g.unauthorized(w)
			return
		}

		ident, err := g.resolver.Resolve(r.Context(), token)
		if err != nil {
			g.logger.Warn("Request rejected: invalid token", "path", r.URL.Path, "error", err)
			g.unauthorized(w)
			return
		}

		// If the body declares an owner id, it must match the resolved identity.
		// The id handlers act on always comes from the context, never the body.
		declaredOwner, err := g.probeBodyOwner(r)
		if err != nil {
			g.logger.Warn("Request rejected: unreadable body", "path", r.URL.Path, "error", err)
			g.unauthorized(w)
			return
		}
		if declaredOwner != nil && *declaredOwner != ident.ID {
			g.logger.Warn("Request rejected: ownership mismatch",
				"path", r.URL.Path, "declared_user_id", *declaredOwner, "identity_id", ident.ID)
			g.unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), ident)))
	})
}

// probeBodyOwner reads a userId field out of a JSON request body, if present,
// and restores the body so downstream handlers can decode it again.
func (g *AuthGate) probeBodyOwner(r *http.Request) (*int64, error) {
	if r.Body == nil || r.ContentLength == 0 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxProbeBodyBytes))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	var probe struct {
		UserID *int64 `json:"userId"`
	}
	// A body that isn't JSON (or has no userId) simply has no declared owner;
	// shape validation is the handler's job.
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, nil
	}
	return probe.UserID, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (g *AuthGate) unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
