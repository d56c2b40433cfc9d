// Package identity resolves bearer tokens to the email of the signed-in user.
package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoEmail      = errors.New("token carries no email")
)

// Verifier checks a raw ID token and returns the principal's email.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// BearerToken extracts the token from an Authorization header value. The
// scheme must be Bearer and the token must be non-empty.
func BearerToken(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
