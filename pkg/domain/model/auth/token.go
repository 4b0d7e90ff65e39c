package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// TokenID identifies a server-side session token
type TokenID string

// TokenSecret is the secret half of a session token. It is redacted from
// structured logs.
type TokenSecret string

// String returns the string representation of the token ID
func (id TokenID) String() string {
	return string(id)
}

// Validate checks if the token ID is valid
func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

// Token is a server-side session credential minted after ID token
// verification. Sub/Email/Name mirror the verified identity claims.
type Token struct {
	ID        TokenID
	Secret    TokenSecret
	Sub       string
	Email     string
	Name      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenTTL is the lifetime of a minted session token
const TokenTTL = 24 * time.Hour

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(buf)
}

// NewToken mints a session token for a verified identity
func NewToken(sub, email, name string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(randomHex(16)),
		Secret:    TokenSecret(randomHex(32)),
		Sub:       sub,
		Email:     email,
		Name:      name,
		ExpiresAt: now.Add(TokenTTL),
		CreatedAt: now,
	}
}

// AnonymousSub is the subject used when authentication is disabled
const AnonymousSub = "anonymous"

// NewAnonymousUser returns a token representing the anonymous development
// user (no-auth mode only).
func NewAnonymousUser() *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID("anonymous"),
		Sub:       AnonymousSub,
		Name:      "Anonymous",
		ExpiresAt: now.Add(TokenTTL),
		CreatedAt: now,
	}
}

// Validate checks the token's required fields
func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}
	if t.Sub == "" {
		return goerr.New("token subject is required", goerr.V("id", t.ID))
	}
	if t.ExpiresAt.IsZero() {
		return goerr.New("token expiry is required", goerr.V("id", t.ID))
	}
	return nil
}

// IsExpired reports whether the token expired as of now
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ErrNotAuthenticated is returned when no token is attached to the context
var ErrNotAuthenticated = goerr.New("not authenticated")

type ctxTokenKey struct{}

// ContextWithToken attaches an authenticated token to the context
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext retrieves the authenticated token from the context
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, ErrNotAuthenticated
	}
	return token, nil
}
