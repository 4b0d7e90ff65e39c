package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

type stepResponseItem struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type toolResponse struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	RequiresPremium  bool               `json:"requires_premium"`
	AllowedFileTypes []string           `json:"allowed_file_types"`
	MaxFileSize      int64              `json:"max_file_size"`
	Steps            []stepResponseItem `json:"steps"`
}

func toToolResponse(cfg *model.ToolConfig) toolResponse {
	resp := toolResponse{
		ID:               string(cfg.ID),
		Title:            cfg.Title,
		Description:      cfg.Description,
		RequiresPremium:  cfg.RequiresPremium,
		AllowedFileTypes: cfg.AllowedFileTypes,
		MaxFileSize:      cfg.MaxFileSize,
		Steps:            make([]stepResponseItem, len(cfg.Steps)),
	}
	for i, step := range cfg.Steps {
		resp.Steps[i] = stepResponseItem{
			ID:          step.ID,
			Key:         step.Key.String(),
			Name:        step.Name,
			Description: step.Description,
		}
	}
	return resp
}

func (s *Server) listToolsHandler(w http.ResponseWriter, r *http.Request) {
	configs := s.uc.Tools().List()
	resp := make([]toolResponse, len(configs))
	for i, cfg := range configs {
		resp[i] = toToolResponse(cfg)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"tools": resp})
}

func (s *Server) getToolHandler(w http.ResponseWriter, r *http.Request) {
	tool, err := types.ParseToolID(chi.URLParam(r, "tool"))
	if err != nil {
		respondJSON(w, r, http.StatusNotFound, errorResponse{Error: "unknown tool"})
		return
	}

	cfg, err := s.uc.Tools().Get(tool)
	if err != nil {
		respondJSON(w, r, http.StatusNotFound, errorResponse{Error: "unknown tool"})
		return
	}

	respondJSON(w, r, http.StatusOK, toToolResponse(cfg))
}
