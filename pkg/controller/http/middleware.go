package http

import (
	"net/http"
	"strings"

	"github.com/readylab-io/waypoint/pkg/domain/model/auth"
)

// authMiddleware validates authentication for protected requests
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// For NoAuthn mode or when authUC is not configured, always use anonymous user
			if authUC == nil || authUC.IsNoAuthn() {
				token := auth.NewAnonymousUser()
				ctx := auth.ContextWithToken(r.Context(), token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			tokenID, tokenSecret, ok := credentialsFromRequest(r)
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			token, err := authUC.ValidateToken(r.Context(), tokenID, tokenSecret)
			if err != nil {
				http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// credentialsFromRequest reads the session token pair from cookies, or from
// an "Authorization: Bearer <id>:<secret>" header for non-browser clients.
func credentialsFromRequest(r *http.Request) (auth.TokenID, auth.TokenSecret, bool) {
	idCookie, idErr := r.Cookie(cookieTokenID)
	secretCookie, secretErr := r.Cookie(cookieTokenSecret)
	if idErr == nil && secretErr == nil {
		return auth.TokenID(idCookie.Value), auth.TokenSecret(secretCookie.Value), true
	}

	header := r.Header.Get("Authorization")
	if bearer, found := strings.CutPrefix(header, "Bearer "); found {
		if id, secret, ok := strings.Cut(bearer, ":"); ok && id != "" && secret != "" {
			return auth.TokenID(id), auth.TokenSecret(secret), true
		}
	}

	return "", "", false
}
