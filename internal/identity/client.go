// internal/identity/client.go
package identity

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"opledger/internal/domain"
	"opledger/internal/util"
)

// Client resolves bearer tokens against the external identity service.
// Every call re-validates the token; nothing is cached locally.
type Client struct {
	authAPIURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new identity Client.
func NewClient(authAPIURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		authAPIURL: authAPIURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Resolve exchanges a bearer token for the canonical identity.
// Any transport failure, non-success status, or malformed response collapses to
// util.ErrUnauthorized; the underlying cause is logged but never returned, so
// callers cannot distinguish failure modes.
func (c *Client) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authAPIURL, nil)
	if err != nil {
		c.logger.Error("Failed to build identity request", "error", err)
		return nil, util.ErrUnauthorized
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Identity service call failed", "error", err)
		return nil, util.ErrUnauthorized
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("Identity service rejected token", "status", resp.StatusCode)
		return nil, util.ErrUnauthorized
	}

	var ident domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		c.logger.Warn("Failed to decode identity response", "error", err)
		return nil, util.ErrUnauthorized
	}
	if ident.ID == 0 {
		c.logger.Warn("Identity response missing id")
		return nil, util.ErrUnauthorized
	}

	return &ident, nil
}
