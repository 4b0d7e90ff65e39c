package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/usecase"
	"github.com/readylab-io/waypoint/pkg/utils/errutil"
)

type createProjectRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Organization string `json:"organization" validate:"max=200"`
	Stage        string `json:"stage"`
}

type updateProjectRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Organization *string `json:"organization" validate:"omitempty,max=200"`
	Stage        *string `json:"stage"`
}

type timelineEventResponse struct {
	Label  string    `json:"label"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

type guideProgressResponse struct {
	GuideID              string         `json:"guide_id"`
	Title                string         `json:"title,omitempty"`
	CompletedSections    []string       `json:"completed_sections"`
	TotalSections        int            `json:"total_sections"`
	CompletionPercentage int            `json:"completion_percentage"`
	FormData             map[string]any `json:"form_data,omitempty"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type projectResponse struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Organization string                  `json:"organization,omitempty"`
	Stage        string                  `json:"stage"`
	Timeline     []timelineEventResponse `json:"timeline"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func toProjectResponse(p *model.Project) projectResponse {
	resp := projectResponse{
		ID:           string(p.ID),
		Name:         p.Name,
		Organization: p.Organization,
		Stage:        p.Stage.String(),
		Timeline:     make([]timelineEventResponse, len(p.Timeline)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for i, ev := range p.Timeline {
		resp.Timeline[i] = timelineEventResponse{Label: ev.Label, Detail: ev.Detail, At: ev.OccurredAt}
	}
	return resp
}

func toGuideProgressResponse(g *model.GuideProgress) guideProgressResponse {
	return guideProgressResponse{
		GuideID:              string(g.GuideID),
		Title:                g.Title,
		CompletedSections:    g.CompletedSections,
		TotalSections:        g.TotalSections,
		CompletionPercentage: g.CompletionPercentage,
		FormData:             g.FormData,
		UpdatedAt:            g.UpdatedAt,
	}
}

func (s *Server) createProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	project, err := s.uc.Project.Create(r.Context(), userID, req.Name, req.Organization, types.ProjectStage(req.Stage))
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, toProjectResponse(project))
}

func (s *Server) listProjectsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	projects, err := s.uc.Project.List(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]projectResponse, len(projects))
	for i, p := range projects {
		resp[i] = toProjectResponse(p)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"projects": resp})
}

func (s *Server) getProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	id := types.ProjectID(chi.URLParam(r, "projectID"))
	project, err := s.uc.Project.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toProjectResponse(project))
}

func (s *Server) updateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	update := usecase.ProjectUpdate{
		Name:         req.Name,
		Organization: req.Organization,
	}
	if req.Stage != nil {
		stage := types.ProjectStage(*req.Stage)
		update.Stage = &stage
	}

	id := types.ProjectID(chi.URLParam(r, "projectID"))
	project, err := s.uc.Project.Update(r.Context(), userID, id, update)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toProjectResponse(project))
}

func (s *Server) deleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	id := types.ProjectID(chi.URLParam(r, "projectID"))
	if err := s.uc.Project.Delete(r.Context(), userID, id); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	dashboard, err := s.uc.Project.Dashboard(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	projects := make([]projectResponse, len(dashboard.Projects))
	for i, p := range dashboard.Projects {
		projects[i] = toProjectResponse(p)
	}
	sessions := make([]sessionResponse, len(dashboard.RecentSessions))
	for i, sess := range dashboard.RecentSessions {
		sessions[i] = toSessionResponse(sess)
	}
	items := make([]actionItemResponse, len(dashboard.OpenActionItems))
	for i, item := range dashboard.OpenActionItems {
		items[i] = toActionItemResponse(item)
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"projects":          projects,
		"recent_sessions":   sessions,
		"open_action_items": items,
		"generated_at":      dashboard.GeneratedAt,
	})
}
