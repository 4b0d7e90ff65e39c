package http

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
	"github.com/readylab-io/waypoint/pkg/usecase"
	"github.com/readylab-io/waypoint/pkg/utils/errutil"
	"github.com/readylab-io/waypoint/pkg/utils/safe"
)

// maxUploadMemory caps how much of a multipart body is held in memory; the
// rest spills to temp files.
const maxUploadMemory = 8 << 20

type advanceStepRequest struct {
	TargetColumn string         `json:"target_column"`
	TextColumn   string         `json:"text_column"`
	Options      map[string]any `json:"options"`
	Features     map[string]any `json:"features"`
}

type gotoStepRequest struct {
	Step int `json:"step" validate:"required,min=1"`
}

type stepResponse struct {
	Session sessionResponse `json:"session"`
	Result  map[string]any  `json:"result,omitempty"`
}

// advanceStepHandler runs the session's current step. The upload step sends
// multipart/form-data with a "file" field; every other step sends JSON.
func (s *Server) advanceStepHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	id := types.SessionID(chi.URLParam(r, "sessionID"))

	input, err := s.parseAdvanceInput(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	if input.File != nil {
		if closer, ok := input.File.Reader.(io.Closer); ok {
			defer safe.Close(r.Context(), closer)
		}
	}

	session, result, err := s.uc.Workflow.Advance(r.Context(), userID, id, input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, stepResponse{
		Session: toSessionResponse(session),
		Result:  result.Raw(),
	})
}

func (s *Server) parseAdvanceInput(r *http.Request) (usecase.AdvanceInput, error) {
	var input usecase.AdvanceInput

	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		contentType = ""
	}

	if contentType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return input, goerr.Wrap(err, "failed to parse multipart form")
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			return input, goerr.Wrap(err, "file field is required")
		}
		// The reader is drained inside Advance before the handler returns
		input.File = &mlbackend.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		}
		input.TargetColumn = r.FormValue("target_column")
		input.TextColumn = r.FormValue("text_column")
		return input, nil
	}

	if r.ContentLength == 0 {
		return input, nil
	}

	var req advanceStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return input, goerr.Wrap(err, "failed to decode request body")
	}
	input.TargetColumn = req.TargetColumn
	input.TextColumn = strings.TrimSpace(req.TextColumn)
	input.Options = req.Options
	input.Features = req.Features
	return input, nil
}

func (s *Server) backStepHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	id := types.SessionID(chi.URLParam(r, "sessionID"))
	session, err := s.uc.Workflow.Back(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, stepResponse{Session: toSessionResponse(session)})
}

func (s *Server) gotoStepHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	var req gotoStepRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	id := types.SessionID(chi.URLParam(r, "sessionID"))
	session, err := s.uc.Workflow.GoTo(r.Context(), userID, id, req.Step)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, stepResponse{Session: toSessionResponse(session)})
}

func (s *Server) resetStepHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
		return
	}

	id := types.SessionID(chi.URLParam(r, "sessionID"))
	session, err := s.uc.Workflow.Reset(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, stepResponse{Session: toSessionResponse(session)})
}
