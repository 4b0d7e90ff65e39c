package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/guide"
	"github.com/readylab-io/waypoint/pkg/usecase"
	"github.com/readylab-io/waypoint/pkg/utils/errutil"
)

type putGuideProgressRequest struct {
	Title             string         `json:"title" validate:"max=200"`
	CompletedSections []string       `json:"completed_sections"`
	TotalSections     int            `json:"total_sections" validate:"required,min=1"`
	FormData          map[string]any `json:"form_data"`
}

func (s *Server) putGuideProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req putGuideProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	projectID := types.ProjectID(chi.URLParam(r, "projectID"))
	guideID := types.GuideID(chi.URLParam(r, "guideID"))

	progress, err := s.uc.Guide.UpdateProgress(r.Context(), userID, projectID, guideID, usecase.ProgressUpdate{
		Title:             req.Title,
		CompletedSections: req.CompletedSections,
		TotalSections:     req.TotalSections,
		FormData:          req.FormData,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toGuideProgressResponse(progress))
}

func (s *Server) getGuideProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	projectID := types.ProjectID(chi.URLParam(r, "projectID"))
	guideID := types.GuideID(chi.URLParam(r, "guideID"))

	progress, err := s.uc.Guide.GetProgress(r.Context(), userID, projectID, guideID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toGuideProgressResponse(progress))
}

// exportGuideHandler streams the rendered progress document as a download.
func (s *Server) exportGuideHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	projectID := types.ProjectID(chi.URLParam(r, "projectID"))
	guideID := types.GuideID(chi.URLParam(r, "guideID"))

	format := guide.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = guide.FormatHTML
	}

	data, contentType, err := s.uc.Guide.Export(r.Context(), userID, projectID, guideID, format)
	if err != nil {
		handleError(w, r, err)
		return
	}

	ext := "html"
	if format == guide.FormatJSON {
		ext = "json"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-progress.%s", guideID, ext)))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // header already committed
}
