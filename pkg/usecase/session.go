package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
	"github.com/readylab-io/waypoint/pkg/service/storage"
	"github.com/readylab-io/waypoint/pkg/utils/logging"
)

type SessionUseCase struct {
	repo         interfaces.Repository
	backend      mlbackend.Service
	storage      storage.Service
	tools        *model.ToolRegistry
	demoFallback bool
}

func NewSessionUseCase(repo interfaces.Repository, backend mlbackend.Service, storage storage.Service, tools *model.ToolRegistry, demoFallback bool) *SessionUseCase {
	return &SessionUseCase{
		repo:         repo,
		backend:      backend,
		storage:      storage,
		tools:        tools,
		demoFallback: demoFallback,
	}
}

// Create starts a new tool session at the first step. Outside demo mode the
// backend is asked for a session id so both sides agree on it; demo mode
// mints a local id and never calls out.
func (uc *SessionUseCase) Create(ctx context.Context, userID types.UserID, tool types.ToolID, name, description string) (*model.Session, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user id")
	}
	if _, err := uc.tools.Get(tool); err != nil {
		return nil, goerr.Wrap(ErrToolNotFound, "unknown tool", goerr.V(ToolKey, string(tool)))
	}

	var id types.SessionID
	switch {
	case uc.demoFallback:
		id = types.NewLocalSessionID()

	case uc.backend != nil:
		backendID, err := uc.backend.CreateSession(ctx, tool, name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create backend session", goerr.V(ToolKey, string(tool)))
		}
		id = backendID

	default:
		id = types.NewSessionID()
	}

	session := &model.Session{
		ID:          id,
		UserID:      userID,
		Tool:        tool,
		Name:        name,
		Description: description,
		Status:      types.SessionStatusCreated,
		CurrentStep: 1,
		StepData:    map[string]map[string]any{},
	}

	created, err := uc.repo.Session().Create(ctx, session)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist session", goerr.V(SessionIDKey, string(id)))
	}

	return created, nil
}

func (uc *SessionUseCase) List(ctx context.Context, userID types.UserID, opts ...interfaces.ListSessionOption) ([]*model.Session, error) {
	sessions, err := uc.repo.Session().ListByUser(ctx, userID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sessions")
	}
	return sessions, nil
}

// Get returns the session if it exists and belongs to the user.
func (uc *SessionUseCase) Get(ctx context.Context, userID types.UserID, id types.SessionID) (*model.Session, error) {
	session, err := uc.repo.Session().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrSessionNotFound, "session not found", goerr.V(SessionIDKey, string(id)))
	}
	if session.UserID != userID {
		return nil, goerr.Wrap(ErrAccessDenied, "session belongs to another user", goerr.V(SessionIDKey, string(id)))
	}
	return session, nil
}

// SessionUpdate carries the mutable session fields. Nil means unchanged.
type SessionUpdate struct {
	Name        *string
	Description *string
}

func (uc *SessionUseCase) Update(ctx context.Context, userID types.UserID, id types.SessionID, update SessionUpdate) (*model.Session, error) {
	session, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		session.Name = *update.Name
	}
	if update.Description != nil {
		session.Description = *update.Description
	}

	updated, err := uc.repo.Session().Update(ctx, session)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update session", goerr.V(SessionIDKey, string(id)))
	}
	return updated, nil
}

// Delete removes the session and any stored data file. A missing storage
// object is not fatal; the session record wins.
func (uc *SessionUseCase) Delete(ctx context.Context, userID types.UserID, id types.SessionID) error {
	session, err := uc.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if uc.storage != nil && session.DataFile != nil && session.DataFile.Path != "" {
		if err := uc.storage.Delete(ctx, session.DataFile.Path); err != nil {
			logging.From(ctx).Warn("failed to delete session data file",
				"session_id", string(id),
				"path", session.DataFile.Path,
				"error", err.Error())
		}
	}

	if err := uc.repo.Session().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V(SessionIDKey, string(id)))
	}
	return nil
}
