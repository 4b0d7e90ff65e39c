package usecase

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model/auth"
)

// AuthUseCaseInterface abstracts authentication so the HTTP controller can
// run with real token verification or the no-auth development mode.
type AuthUseCaseInterface interface {
	// SignIn verifies an identity provider ID token and mints a session
	// token persisted in the repository.
	SignIn(ctx context.Context, idToken string) (*auth.Token, error)

	// ValidateToken checks a session token's id/secret pair
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)

	// Logout revokes a session token
	Logout(ctx context.Context, tokenID auth.TokenID) error

	// IsNoAuthn reports whether this is the development no-auth mode
	IsNoAuthn() bool
}

const (
	// googleJWKSURL serves the public keys Google signs Identity Platform
	// ID tokens with, in JWK format.
	googleJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

	jwksCacheKey  = "jwks"
	jwksCacheTTL  = 1 * time.Hour
	tokenCacheTTL = 5 * time.Minute
)

// AuthUseCase verifies Google Identity Platform ID tokens and manages
// repository-persisted session tokens.
type AuthUseCase struct {
	repo      interfaces.Repository
	projectID string
	jwksURL   string
	cache     *gocache.Cache
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithJWKSURL overrides the key endpoint, for tests.
func WithJWKSURL(url string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.jwksURL = url
	}
}

func NewAuthUseCase(repo interfaces.Repository, projectID string, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		repo:      repo,
		projectID: projectID,
		jwksURL:   googleJWKSURL,
		cache:     gocache.New(tokenCacheTTL, 10*time.Minute),
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

func (uc *AuthUseCase) keySet(ctx context.Context) (jwk.Set, error) {
	if cached, ok := uc.cache.Get(jwksCacheKey); ok {
		if set, ok := cached.(jwk.Set); ok {
			return set, nil
		}
	}

	set, err := jwk.Fetch(ctx, uc.jwksURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch JWKS", goerr.V("url", uc.jwksURL))
	}

	uc.cache.Set(jwksCacheKey, set, jwksCacheTTL)
	return set, nil
}

// SignIn verifies the ID token's signature, issuer and audience, then mints
// and stores a session token for the subject.
func (uc *AuthUseCase) SignIn(ctx context.Context, idToken string) (*auth.Token, error) {
	keySet, err := uc.keySet(ctx)
	if err != nil {
		return nil, err
	}

	// Allow 10 seconds of clock skew to handle time synchronization differences
	parsed, err := jwt.Parse([]byte(idToken),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithIssuer("https://securetoken.google.com/"+uc.projectID),
		jwt.WithAudience(uc.projectID),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "failed to verify ID token", goerr.V("reason", err.Error()))
	}

	sub := parsed.Subject()
	if sub == "" {
		return nil, goerr.Wrap(ErrInvalidToken, "sub claim not found in token")
	}

	email := claimString(parsed, "email")
	name := claimString(parsed, "name")
	if name == "" {
		name = email
	}

	token := auth.NewToken(sub, email, name)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token")
	}

	uc.cache.Set(string(token.ID), token, tokenCacheTTL)
	return token, nil
}

// ValidateToken checks the token against the verification cache first and
// falls back to the repository.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	if cached, ok := uc.cache.Get(string(tokenID)); ok {
		if token, ok := cached.(*auth.Token); ok {
			if token.Secret != tokenSecret {
				return nil, goerr.Wrap(ErrInvalidToken, "token secret mismatch")
			}
			if token.IsExpired(time.Now()) {
				uc.cache.Delete(string(tokenID))
				return nil, goerr.Wrap(ErrInvalidToken, "token expired")
			}
			return token, nil
		}
	}

	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "token not found")
	}
	if token.Secret != tokenSecret {
		return nil, goerr.Wrap(ErrInvalidToken, "token secret mismatch")
	}
	if token.IsExpired(time.Now()) {
		return nil, goerr.Wrap(ErrInvalidToken, "token expired")
	}

	uc.cache.Set(string(tokenID), token, tokenCacheTTL)
	return token, nil
}

// Logout deletes the token
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	uc.cache.Delete(string(tokenID))
	return uc.repo.DeleteToken(ctx, tokenID)
}

func claimString(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
