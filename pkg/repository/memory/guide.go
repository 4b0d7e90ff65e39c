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

type guideKey struct {
	projectID types.ProjectID
	guideID   types.GuideID
}

type guideRepository struct {
	mu       sync.RWMutex
	progress map[guideKey]*model.GuideProgress
}

func newGuideRepository() *guideRepository {
	return &guideRepository{
		progress: make(map[guideKey]*model.GuideProgress),
	}
}

func copyGuideProgress(g *model.GuideProgress) *model.GuideProgress {
	copied := *g
	copied.CompletedSections = copyStringSlice(g.CompletedSections)
	copied.FormData = copyAnyMap(g.FormData)
	return &copied
}

func (r *guideRepository) Put(ctx context.Context, g *model.GuideProgress) (*model.GuideProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := copyGuideProgress(g)
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid guide progress")
	}

	r.progress[guideKey{updated.ProjectID, updated.GuideID}] = updated
	return copyGuideProgress(updated), nil
}

func (r *guideRepository) Get(ctx context.Context, projectID types.ProjectID, guideID types.GuideID) (*model.GuideProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, exists := r.progress[guideKey{projectID, guideID}]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "guide progress not found",
			goerr.V("project_id", projectID), goerr.V("guide_id", guideID))
	}

	return copyGuideProgress(g), nil
}

func (r *guideRepository) ListByProject(ctx context.Context, projectID types.ProjectID) ([]*model.GuideProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	progress := make([]*model.GuideProgress, 0)
	for key, g := range r.progress {
		if key.projectID == projectID {
			progress = append(progress, copyGuideProgress(g))
		}
	}

	sort.Slice(progress, func(i, j int) bool {
		return progress[i].UpdatedAt.After(progress[j].UpdatedAt)
	})

	return progress, nil
}

func (r *guideRepository) Delete(ctx context.Context, projectID types.ProjectID, guideID types.GuideID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := guideKey{projectID, guideID}
	if _, exists := r.progress[key]; !exists {
		return goerr.Wrap(ErrNotFound, "guide progress not found",
			goerr.V("project_id", projectID), goerr.V("guide_id", guideID))
	}

	delete(r.progress, key)
	return nil
}
