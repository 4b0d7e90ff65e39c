package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/usecase"
	"github.com/readylab-io/waypoint/pkg/utils/errutil"
)

type createSessionRequest struct {
	Tool        string `json:"tool" validate:"required"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type updateSessionRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type dataFileResponse struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	URL         string `json:"url,omitempty"`
}

type sessionResponse struct {
	ID          string                    `json:"id"`
	Tool        string                    `json:"tool"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Status      string                    `json:"status"`
	CurrentStep int                       `json:"current_step"`
	StepData    map[string]map[string]any `json:"step_data"`
	DataFile    *dataFileResponse         `json:"data_file,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

func toSessionResponse(s *model.Session) sessionResponse {
	resp := sessionResponse{
		ID:          string(s.ID),
		Tool:        string(s.Tool),
		Name:        s.Name,
		Description: s.Description,
		Status:      s.Status.String(),
		CurrentStep: s.CurrentStep,
		StepData:    s.StepData,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if resp.StepData == nil {
		resp.StepData = map[string]map[string]any{}
	}
	if s.DataFile != nil {
		resp.DataFile = &dataFileResponse{
			Name:        s.DataFile.Name,
			Size:        s.DataFile.Size,
			ContentType: s.DataFile.ContentType,
			URL:         s.DataFile.URL,
		}
	}
	return resp
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	tool, err := types.ParseToolID(req.Tool)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	session, err := s.uc.Session.Create(r.Context(), userID, tool, req.Name, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, toSessionResponse(session))
}

func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var opts []interfaces.ListSessionOption
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		opts = append(opts, interfaces.WithLimit(limit))
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := types.ParseSessionStatus(raw)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		opts = append(opts, interfaces.WithStatus(status))
	}

	sessions, err := s.uc.Session.List(r.Context(), userID, opts...)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]sessionResponse, len(sessions))
	for i, session := range sessions {
		resp[i] = toSessionResponse(session)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"sessions": resp})
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	id := types.SessionID(chi.URLParam(r, "sessionID"))
	session, err := s.uc.Session.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toSessionResponse(session))
}

func (s *Server) updateSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	id := types.SessionID(chi.URLParam(r, "sessionID"))
	session, err := s.uc.Session.Update(r.Context(), userID, id, usecase.SessionUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toSessionResponse(session))
}

func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	id := types.SessionID(chi.URLParam(r, "sessionID"))
	if err := s.uc.Session.Delete(r.Context(), userID, id); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, successResponse{Success: true})
}
