package http

import (
	"errors"
	"net/http"

	"github.com/readylab-io/waypoint/pkg/domain/model/auth"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/guide"
	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
	"github.com/readylab-io/waypoint/pkg/usecase"
	"github.com/readylab-io/waypoint/pkg/utils/errutil"
)

// handleError maps use case errors onto HTTP status codes. Backend failures
// surface as 502 so a client can tell them apart from this service's own
// faults.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var status int

	var statusErr *mlbackend.StatusError
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound),
		errors.Is(err, usecase.ErrProjectNotFound),
		errors.Is(err, usecase.ErrGuideNotFound),
		errors.Is(err, usecase.ErrActionItemNotFound),
		errors.Is(err, usecase.ErrToolNotFound):
		status = http.StatusNotFound

	case errors.Is(err, usecase.ErrAccessDenied):
		status = http.StatusForbidden

	case errors.Is(err, usecase.ErrStepNotReached),
		errors.Is(err, usecase.ErrPreconditionFailed),
		errors.Is(err, usecase.ErrNoFurtherStep),
		errors.Is(err, guide.ErrUnknownFormat):
		status = http.StatusBadRequest

	case errors.Is(err, usecase.ErrStepInFlight):
		status = http.StatusConflict

	case errors.Is(err, usecase.ErrInvalidToken):
		status = http.StatusUnauthorized

	case errors.As(err, &statusErr):
		status = http.StatusBadGateway

	default:
		status = http.StatusInternalServerError
	}

	errutil.HandleHTTP(r.Context(), w, err, status)
}

// currentUser extracts the authenticated user's id from the request context.
func currentUser(r *http.Request) (types.UserID, error) {
	token, err := auth.TokenFromContext(r.Context())
	if err != nil {
		return "", err
	}
	return types.UserID(token.Sub), nil
}
