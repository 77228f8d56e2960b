package googleauth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Identity is the subset of Google ID token claims the service consumes.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Verifier validates a Google ID token and extracts the identity claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// APIVerifier validates tokens against Google's public keys, bound to our
// OAuth client ID as the required audience.
type APIVerifier struct {
	clientID string
}

func NewAPIVerifier(clientID string) *APIVerifier {
	return &APIVerifier{clientID: clientID}
}

func (v *APIVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", err)
	}
	return &Identity{
		Subject: payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
