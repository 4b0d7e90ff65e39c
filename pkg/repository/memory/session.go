package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[types.SessionID]*model.Session
}

func newSessionRepository() *sessionRepository {
	return &sessionRepository{
		sessions: make(map[types.SessionID]*model.Session),
	}
}

func copySession(s *model.Session) *model.Session {
	copied := *s
	if s.StepData != nil {
		copied.StepData = make(map[string]map[string]any, len(s.StepData))
		for k, v := range s.StepData {
			copied.StepData[k] = copyAnyMap(v)
		}
	}
	if s.DataFile != nil {
		df := *s.DataFile
		copied.DataFile = &df
	}
	return &copied
}

func (r *sessionRepository) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copySession(s)
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := created.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session")
	}

	r.sessions[created.ID] = created
	return copySession(created), nil
}

func (r *sessionRepository) Get(ctx context.Context, id types.SessionID) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
	}

	return copySession(s), nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID types.UserID, opts ...interfaces.ListSessionOption) ([]*model.Session, error) {
	cfg := interfaces.BuildListSessionConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*model.Session, 0)
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		if st := cfg.Status(); st != nil && s.Status != *st {
			continue
		}
		sessions = append(sessions, copySession(s))
	}

	// Most recently updated first, matching the Firestore query ordering
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	if limit := cfg.Limit(); limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	return sessions, nil
}

func (r *sessionRepository) Update(ctx context.Context, s *model.Session) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.sessions[s.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", s.ID))
	}

	updated := copySession(s)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session")
	}

	r.sessions[updated.ID] = updated
	return copySession(updated), nil
}

func (r *sessionRepository) Delete(ctx context.Context, id types.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
	}

	delete(r.sessions, id)
	return nil
}
