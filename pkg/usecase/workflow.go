package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
	"github.com/readylab-io/waypoint/pkg/service/progress"
	"github.com/readylab-io/waypoint/pkg/service/storage"
	"github.com/readylab-io/waypoint/pkg/utils/logging"
)

// WorkflowUseCase drives a session through its tool's step pipeline. State
// lives on the Session document (CurrentStep, StepData); this type owns the
// transition rules and the backend dispatch per step.
type WorkflowUseCase struct {
	repo         interfaces.Repository
	backend      mlbackend.Service
	storage      storage.Service
	tools        *model.ToolRegistry
	hub          *progress.Hub
	demoFallback bool

	mu       sync.Mutex
	inFlight map[types.SessionID]struct{}
}

func NewWorkflowUseCase(repo interfaces.Repository, backend mlbackend.Service, storage storage.Service, tools *model.ToolRegistry, hub *progress.Hub, demoFallback bool) *WorkflowUseCase {
	return &WorkflowUseCase{
		repo:         repo,
		backend:      backend,
		storage:      storage,
		tools:        tools,
		hub:          hub,
		demoFallback: demoFallback,
		inFlight:     make(map[types.SessionID]struct{}),
	}
}

// AdvanceInput carries the per-step payload. Only the fields relevant to the
// session's current step are read.
type AdvanceInput struct {
	// File is required on the upload step
	File *mlbackend.UploadFile

	// TargetColumn is required on the validate step of supervised tools
	TargetColumn string

	// TextColumn selects the text column for NLP validation
	TextColumn string

	// Options are forwarded on preprocess and train
	Options map[string]any

	// Features are the input values for predict
	Features map[string]any
}

// acquire marks the session as having a step operation in flight. A second
// concurrent operation fails fast instead of queueing, mirroring a UI that
// disables its buttons while a request runs.
func (uc *WorkflowUseCase) acquire(id types.SessionID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inFlight[id]; busy {
		return goerr.Wrap(ErrStepInFlight, "step operation already running", goerr.V(SessionIDKey, string(id)))
	}
	uc.inFlight[id] = struct{}{}
	return nil
}

func (uc *WorkflowUseCase) release(id types.SessionID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inFlight, id)
}

func (uc *WorkflowUseCase) getOwned(ctx context.Context, userID types.UserID, id types.SessionID) (*model.Session, error) {
	session, err := uc.repo.Session().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrSessionNotFound, "session not found", goerr.V(SessionIDKey, string(id)))
	}
	if session.UserID != userID {
		return nil, goerr.Wrap(ErrAccessDenied, "session belongs to another user", goerr.V(SessionIDKey, string(id)))
	}
	return session, nil
}

// Advance runs the session's current step: precondition check, backend
// dispatch, result merge, then step/status increment. On any dispatch
// failure the session is left exactly as it was, unless demo fallback mode
// substitutes a synthesized payload.
func (uc *WorkflowUseCase) Advance(ctx context.Context, userID types.UserID, id types.SessionID, input AdvanceInput) (*model.Session, *mlbackend.StepResult, error) {
	if err := uc.acquire(id); err != nil {
		return nil, nil, err
	}
	defer uc.release(id)

	session, err := uc.getOwned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := uc.tools.Get(session.Tool)
	if err != nil {
		return nil, nil, goerr.Wrap(ErrToolNotFound, "unknown tool for session",
			goerr.V(SessionIDKey, string(id)), goerr.V(ToolKey, string(session.Tool)))
	}

	step, err := cfg.StepAt(session.CurrentStep)
	if err != nil {
		return nil, nil, goerr.Wrap(ErrNoFurtherStep, "no step to run",
			goerr.V(SessionIDKey, string(id)), goerr.V("current_step", session.CurrentStep))
	}

	if err := uc.checkPrecondition(session, cfg, step.Key, input); err != nil {
		return nil, nil, err
	}

	result, err := uc.dispatch(ctx, session, cfg, step.Key, input)
	if err != nil || !result.Success() {
		if err == nil {
			err = goerr.New("backend reported step failure",
				goerr.V(SessionIDKey, string(id)), goerr.V(StepKey, step.Key.String()))
		}
		if !uc.demoFallback {
			return nil, nil, goerr.Wrap(err, "step dispatch failed",
				goerr.V(SessionIDKey, string(id)), goerr.V(StepKey, step.Key.String()))
		}
		logging.From(ctx).Warn("step dispatch failed, using demo fallback",
			"session_id", string(id),
			"step", step.Key.String(),
			"error", err.Error())
		result = demoFallbackResult(step.Key)
	}

	session.SetStepData(step.Key, result.Raw())
	session.Status = step.Key.StatusAfter(session.Status)
	if session.CurrentStep < cfg.StepCount() {
		session.CurrentStep++
	}

	if step.Key == types.StepTrain {
		uc.hub.Watch(session.ID, session.Tool)
	}

	updated, err := uc.repo.Session().Update(ctx, session)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to persist step result", goerr.V(SessionIDKey, string(id)))
	}

	return updated, result, nil
}

// checkPrecondition rejects an advance before any network call is made.
func (uc *WorkflowUseCase) checkPrecondition(session *model.Session, cfg *model.ToolConfig, key types.StepKey, input AdvanceInput) error {
	switch key {
	case types.StepUpload:
		if input.File == nil {
			return goerr.Wrap(ErrPreconditionFailed, "upload requires a file")
		}
		if err := cfg.AllowsFile(input.File.Name, input.File.Size); err != nil {
			return goerr.Wrap(ErrPreconditionFailed, "file not accepted", goerr.V("reason", err.Error()))
		}

	case types.StepValidate:
		if session.Tool.Supervised() && input.TargetColumn == "" {
			return goerr.Wrap(ErrPreconditionFailed, "target column is required",
				goerr.V(ToolKey, string(session.Tool)))
		}

	case types.StepPreprocess:
		if session.StepDataFor(types.StepValidate) == nil {
			return goerr.Wrap(ErrPreconditionFailed, "validation has not completed")
		}

	case types.StepTrain:
		if session.StepDataFor(types.StepPreprocess) == nil {
			return goerr.Wrap(ErrPreconditionFailed, "preprocessing has not completed")
		}

	case types.StepPredict:
		if len(input.Features) == 0 {
			return goerr.Wrap(ErrPreconditionFailed, "predict requires feature values")
		}
		for name, value := range input.Features {
			if value == nil || value == "" {
				return goerr.Wrap(ErrPreconditionFailed, "every feature needs a value",
					goerr.V("feature", name))
			}
		}
	}

	return nil
}

func (uc *WorkflowUseCase) dispatch(ctx context.Context, session *model.Session, cfg *model.ToolConfig, key types.StepKey, input AdvanceInput) (*mlbackend.StepResult, error) {
	if uc.backend == nil {
		return nil, goerr.New("no backend configured")
	}

	endpoint := cfg.Endpoints[key]

	switch key {
	case types.StepUpload:
		return uc.dispatchUpload(ctx, session, cfg, endpoint, input)

	case types.StepValidate:
		return uc.backend.Validate(ctx, endpoint, session.ID, mlbackend.ValidateParams{
			TargetColumn: input.TargetColumn,
			TextColumn:   input.TextColumn,
		})

	case types.StepPreprocess:
		return uc.backend.Preprocess(ctx, endpoint, session.ID, input.Options)

	case types.StepTrain:
		return uc.backend.Train(ctx, endpoint, session.ID, input.Options)

	case types.StepResults:
		return uc.backend.Results(ctx, endpoint, session.ID)

	case types.StepPredict:
		return uc.backend.Predict(ctx, endpoint, session.ID, input.Features)

	default:
		return nil, goerr.New("unknown step", goerr.V(StepKey, key.String()))
	}
}

// dispatchUpload buffers the file so it can be archived in object storage
// and forwarded to the backend from the same bytes. The precondition already
// capped the declared size; the limit reader catches a client that lied.
func (uc *WorkflowUseCase) dispatchUpload(ctx context.Context, session *model.Session, cfg *model.ToolConfig, endpoint string, input AdvanceInput) (*mlbackend.StepResult, error) {
	data, err := io.ReadAll(io.LimitReader(input.File.Reader, cfg.MaxFileSize+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read upload", goerr.V("file", input.File.Name))
	}
	if int64(len(data)) > cfg.MaxFileSize {
		return nil, goerr.Wrap(ErrPreconditionFailed, "file exceeds size limit",
			goerr.V("file", input.File.Name), goerr.V("limit", cfg.MaxFileSize))
	}

	dataFile := &model.DataFile{
		Name:        input.File.Name,
		Size:        int64(len(data)),
		ContentType: input.File.ContentType,
	}

	if uc.storage != nil {
		path := fmt.Sprintf("sessions/%s/%s", session.ID, input.File.Name)
		url, err := uc.storage.Put(ctx, path, input.File.ContentType, bytes.NewReader(data))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to store data file", goerr.V("path", path))
		}
		dataFile.Path = path
		dataFile.URL = url
	}

	result, err := uc.backend.Upload(ctx, endpoint, session.ID, &mlbackend.UploadFile{
		Name:        input.File.Name,
		ContentType: input.File.ContentType,
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
	}, mlbackend.UploadParams{
		TargetColumn: input.TargetColumn,
		TextColumn:   input.TextColumn,
	})
	if err != nil {
		return nil, err
	}

	session.DataFile = dataFile
	return result, nil
}

// Back moves one step backwards without discarding anything. Step 1 is the
// floor.
func (uc *WorkflowUseCase) Back(ctx context.Context, userID types.UserID, id types.SessionID) (*model.Session, error) {
	if err := uc.acquire(id); err != nil {
		return nil, err
	}
	defer uc.release(id)

	session, err := uc.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if session.CurrentStep > 1 {
		session.CurrentStep--
		if session, err = uc.repo.Session().Update(ctx, session); err != nil {
			return nil, goerr.Wrap(err, "failed to persist step change", goerr.V(SessionIDKey, string(id)))
		}
	}

	return session, nil
}

// GoTo jumps to a previously reached step. Jumping ahead of CurrentStep is
// rejected and leaves the session unchanged.
func (uc *WorkflowUseCase) GoTo(ctx context.Context, userID types.UserID, id types.SessionID, n int) (*model.Session, error) {
	if err := uc.acquire(id); err != nil {
		return nil, err
	}
	defer uc.release(id)

	session, err := uc.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if n < 1 || n > session.CurrentStep {
		return nil, goerr.Wrap(ErrStepNotReached, "cannot jump to step",
			goerr.V(SessionIDKey, string(id)),
			goerr.V("target_step", n),
			goerr.V("current_step", session.CurrentStep))
	}

	if n != session.CurrentStep {
		session.CurrentStep = n
		if session, err = uc.repo.Session().Update(ctx, session); err != nil {
			return nil, goerr.Wrap(err, "failed to persist step change", goerr.V(SessionIDKey, string(id)))
		}
	}

	return session, nil
}

// Reset discards the session's pipeline state and starts over under a fresh
// id. The old record and its stored data file are removed.
func (uc *WorkflowUseCase) Reset(ctx context.Context, userID types.UserID, id types.SessionID) (*model.Session, error) {
	if err := uc.acquire(id); err != nil {
		return nil, err
	}
	defer uc.release(id)

	session, err := uc.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if uc.storage != nil && session.DataFile != nil && session.DataFile.Path != "" {
		if err := uc.storage.Delete(ctx, session.DataFile.Path); err != nil {
			logging.From(ctx).Warn("failed to delete session data file",
				"session_id", string(id),
				"path", session.DataFile.Path,
				"error", err.Error())
		}
	}

	fresh := &model.Session{
		ID:          types.NewSessionID(),
		UserID:      session.UserID,
		Tool:        session.Tool,
		Name:        session.Name,
		Description: session.Description,
		Status:      types.SessionStatusCreated,
		CurrentStep: 1,
		StepData:    map[string]map[string]any{},
	}
	if uc.demoFallback {
		fresh.ID = types.NewLocalSessionID()
	}

	created, err := uc.repo.Session().Create(ctx, fresh)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create reset session", goerr.V(SessionIDKey, string(id)))
	}

	if err := uc.repo.Session().Delete(ctx, id); err != nil {
		return nil, goerr.Wrap(err, "failed to remove old session",
			goerr.V(SessionIDKey, string(id)),
			goerr.V("new_session_id", string(created.ID)))
	}

	return created, nil
}

// demoFallbackResult synthesizes a plausible step payload for demo mode.
// Every payload is marked so a client can tell canned data from real data.
func demoFallbackResult(key types.StepKey) *mlbackend.StepResult {
	raw := map[string]any{
		"success":       true,
		"demo_fallback": true,
	}

	switch key {
	case types.StepUpload:
		raw["columns"] = []any{"feature_1", "feature_2", "feature_3", "target"}
		raw["rows"] = 100
	case types.StepValidate:
		raw["is_valid"] = true
		raw["feature_columns"] = []any{"feature_1", "feature_2", "feature_3"}
	case types.StepTrain:
		raw["best_model"] = "demo_model"
	case types.StepResults:
		raw["summary"] = map[string]any{"best_model": "demo_model", "score": 0.9}
	case types.StepPredict:
		raw["prediction"] = 0.0
	}

	return mlbackend.NewStepResult(raw)
}
