package http

import (
	"net/http"

	"github.com/readylab-io/waypoint/pkg/domain/model/auth"
	"github.com/readylab-io/waypoint/pkg/usecase"
	"github.com/readylab-io/waypoint/pkg/utils/errutil"
)

type AuthUseCase = usecase.AuthUseCaseInterface

const (
	cookieTokenID     = "token_id"
	cookieTokenSecret = "token_secret"
)

type signInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type userMeResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func setTokenCookies(w http.ResponseWriter, r *http.Request, token *auth.Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieTokenID,
		Value:    token.ID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  token.ExpiresAt,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cookieTokenSecret,
		Value:    string(token.Secret),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  token.ExpiresAt,
	})
}

func clearTokenCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{cookieTokenID, cookieTokenSecret} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// authSignInHandler exchanges a verified identity provider ID token for a
// session token pair delivered as cookies and in the response body.
func authSignInHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authUC == nil {
			respondJSON(w, r, http.StatusNotFound, errorResponse{Error: "authentication is not configured"})
			return
		}

		var req signInRequest
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		token, err := authUC.SignIn(r.Context(), req.IDToken)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		setTokenCookies(w, r, token)
		respondJSON(w, r, http.StatusOK, map[string]any{
			"token_id":     token.ID.String(),
			"token_secret": string(token.Secret),
			"expires_at":   token.ExpiresAt,
			"user": userMeResponse{
				Sub:   token.Sub,
				Email: token.Email,
				Name:  token.Name,
			},
		})
	}
}

func authLogoutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authUC != nil {
			if tokenID, _, ok := credentialsFromRequest(r); ok {
				if err := authUC.Logout(r.Context(), tokenID); err != nil {
					errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
					return
				}
			}
		}

		clearTokenCookies(w, r)
		respondJSON(w, r, http.StatusOK, successResponse{Success: true})
	}
}

func authMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromContext(r.Context())
		if err != nil {
			respondJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
			return
		}

		respondJSON(w, r, http.StatusOK, userMeResponse{
			Sub:   token.Sub,
			Email: token.Email,
			Name:  token.Name,
		})
	}
}
