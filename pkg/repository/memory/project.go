package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

type projectRepository struct {
	mu       sync.RWMutex
	projects map[types.ProjectID]*model.Project
}

func newProjectRepository() *projectRepository {
	return &projectRepository{
		projects: make(map[types.ProjectID]*model.Project),
	}
}

func copyProject(p *model.Project) *model.Project {
	copied := *p
	if p.Guides != nil {
		copied.Guides = make(map[string]model.GuideProgress, len(p.Guides))
		for k, v := range p.Guides {
			g := v
			g.CompletedSections = copyStringSlice(v.CompletedSections)
			g.FormData = copyAnyMap(v.FormData)
			copied.Guides[k] = g
		}
	}
	if p.Timeline != nil {
		copied.Timeline = make([]model.TimelineEvent, len(p.Timeline))
		copy(copied.Timeline, p.Timeline)
	}
	return &copied
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyProject(p)
	created.ID = types.NewProjectID()
	created.Stage = created.Stage.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := created.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid project")
	}

	r.projects[created.ID] = created
	return copyProject(created), nil
}

func (r *projectRepository) Get(ctx context.Context, id types.ProjectID) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.projects[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}

	return copyProject(p), nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*model.Project, 0)
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			projects = append(projects, copyProject(p))
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.projects[p.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", p.ID))
	}

	updated := copyProject(p)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid project")
	}

	r.projects[updated.ID] = updated
	return copyProject(updated), nil
}

func (r *projectRepository) Delete(ctx context.Context, id types.ProjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[id]; !exists {
		return goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}

	delete(r.projects, id)
	return nil
}
