package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = BearerToken("bearer  xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, err := BearerToken(h)
		assert.ErrorIs(t, err, ErrMissingToken, h)
	}
}

func TestJWTVerifierRoundTrip(t *testing.T) {
	v := NewJWTVerifier("secret")
	tok, err := v.Issue("a@example.com", time.Hour)
	require.NoError(t, err)

	email, err := v.VerifyToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)
}

func TestJWTVerifierRejects(t *testing.T) {
	v := NewJWTVerifier("secret")
	ctx := context.Background()

	other, err := NewJWTVerifier("other").Issue("a@example.com", time.Hour)
	require.NoError(t, err)
	_, err = v.VerifyToken(ctx, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := v.Issue("a@example.com", -time.Minute)
	require.NoError(t, err)
	_, err = v.VerifyToken(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "x",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = v.VerifyToken(ctx, noEmail)
	assert.ErrorIs(t, err, ErrNoEmail)

	_, err = v.VerifyToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type fakeIDTokens struct {
	token *auth.Token
	err   error
}

func (f fakeIDTokens) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return f.token, f.err
}

func TestFirebaseVerifierReadsEmailClaim(t *testing.T) {
	v := &FirebaseVerifier{client: fakeIDTokens{token: &auth.Token{
		UID:    "uid-1",
		Claims: map[string]interface{}{"email": "b@example.com"},
	}}}
	email, err := v.VerifyToken(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", email)

	v = &FirebaseVerifier{client: fakeIDTokens{token: &auth.Token{UID: "uid-2"}}}
	_, err = v.VerifyToken(context.Background(), "t")
	assert.ErrorIs(t, err, ErrNoEmail)

	v = &FirebaseVerifier{client: fakeIDTokens{err: errors.New("expired")}}
	_, err = v.VerifyToken(context.Background(), "t")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
