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

type createActionItemRequest struct {
	ProjectID string         `json:"project_id" validate:"required"`
	Title     string         `json:"title" validate:"required,max=300"`
	Category  string         `json:"category" validate:"max=100"`
	Priority  string         `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	DueDate   *time.Time     `json:"due_date"`
	Metadata  map[string]any `json:"metadata"`
}

type updateActionItemRequest struct {
	Title    *string    `json:"title" validate:"omitempty,max=300"`
	Priority *string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status   *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	DueDate  *time.Time `json:"due_date"`
}

type generateActionItemsRequest struct {
	ProjectID string         `json:"project_id" validate:"required"`
	Scores    map[string]int `json:"scores" validate:"required,min=1,dive,min=0,max=100"`
}

type actionItemResponse struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Title     string         `json:"title"`
	Category  string         `json:"category,omitempty"`
	Priority  string         `json:"priority"`
	Status    string         `json:"status"`
	DueDate   *time.Time     `json:"due_date,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toActionItemResponse(item *model.ActionItem) actionItemResponse {
	return actionItemResponse{
		ID:        string(item.ID),
		ProjectID: string(item.ProjectID),
		Title:     item.Title,
		Category:  item.Category,
		Priority:  item.Priority.String(),
		Status:    item.Status.String(),
		DueDate:   item.DueDate,
		Metadata:  item.Metadata,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func (s *Server) createActionItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req createActionItemRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	item := &model.ActionItem{
		ProjectID: types.ProjectID(req.ProjectID),
		Title:     req.Title,
		Category:  req.Category,
		Priority:  types.Priority(req.Priority),
		DueDate:   req.DueDate,
		Metadata:  req.Metadata,
	}
	if item.Priority == "" {
		item.Priority = types.PriorityMedium
	}

	created, err := s.uc.ActionItem.Create(r.Context(), userID, item)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, toActionItemResponse(created))
}

func (s *Server) listActionItemsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var items []*model.ActionItem
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		items, err = s.uc.ActionItem.ListByProject(r.Context(), userID, types.ProjectID(raw))
	} else {
		items, err = s.uc.ActionItem.List(r.Context(), userID)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]actionItemResponse, len(items))
	for i, item := range items {
		resp[i] = toActionItemResponse(item)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"action_items": resp})
}

func (s *Server) updateActionItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req updateActionItemRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	update := usecase.ActionItemUpdate{
		Title:   req.Title,
		DueDate: req.DueDate,
	}
	if req.Priority != nil {
		p := types.Priority(*req.Priority)
		update.Priority = &p
	}
	if req.Status != nil {
		st := types.ActionItemStatus(*req.Status)
		update.Status = &st
	}

	id := types.ActionItemID(chi.URLParam(r, "actionItemID"))
	item, err := s.uc.ActionItem.Update(r.Context(), userID, id, update)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toActionItemResponse(item))
}

func (s *Server) deleteActionItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	id := types.ActionItemID(chi.URLParam(r, "actionItemID"))
	if err := s.uc.ActionItem.Delete(r.Context(), userID, id); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) generateActionItemsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req generateActionItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	items, err := s.uc.ActionItem.GenerateFromAssessment(r.Context(), userID, usecase.AssessmentResult{
		ProjectID: types.ProjectID(req.ProjectID),
		Scores:    req.Scores,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]actionItemResponse, len(items))
	for i, item := range items {
		resp[i] = toActionItemResponse(item)
	}
	respondJSON(w, r, http.StatusCreated, map[string]any{"action_items": resp})
}
