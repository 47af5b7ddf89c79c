// Package identity verifies bearer tokens against an external identity
// provider.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/askbase/askbase/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client calls the identity provider's verification endpoint to resolve a
// bearer token into a user ID.
type Client struct {
	httpClient *http.Client
	verifyURL  string
}

// NewClient creates an identity client for the given verification endpoint.
func NewClient(verifyURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		verifyURL:  verifyURL,
	}
}

type verifyResponse struct {
	UserID string `json:"user_id"`
}

// VerifyToken checks the token with the identity provider and returns the
// user ID it belongs to. Any non-200 response maps to an unauthorized error.
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.verifyURL, nil)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to build verify request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeUnauthorized, "identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.NewDomainError(domain.ErrCodeUnauthorized,
			fmt.Sprintf("token rejected with status %d", resp.StatusCode))
	}

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeUnauthorized, "invalid verify response", err)
	}

	if payload.UserID == "" {
		return "", domain.ErrInvalidToken
	}

	return payload.UserID, nil
}

// NoOpVerifier accepts every token. It is used when no identity provider is
// configured so the service stays usable in local development.
type NoOpVerifier struct{}

// VerifyToken always succeeds with a fixed local user ID.
func (NoOpVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	return "local", nil
}
