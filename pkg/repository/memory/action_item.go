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

type actionItemRepository struct {
	mu    sync.RWMutex
	items map[types.ActionItemID]*model.ActionItem
}

func newActionItemRepository() *actionItemRepository {
	return &actionItemRepository{
		items: make(map[types.ActionItemID]*model.ActionItem),
	}
}

func copyActionItem(item *model.ActionItem) *model.ActionItem {
	copied := *item
	copied.Metadata = copyAnyMap(item.Metadata)
	if item.DueDate != nil {
		due := *item.DueDate
		copied.DueDate = &due
	}
	return &copied
}

func (r *actionItemRepository) create(item *model.ActionItem, now time.Time) (*model.ActionItem, error) {
	created := copyActionItem(item)
	created.ID = types.NewActionItemID()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := created.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid action item")
	}

	r.items[created.ID] = created
	return copyActionItem(created), nil
}

func (r *actionItemRepository) Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.create(item, time.Now().UTC())
}

func (r *actionItemRepository) CreateMany(ctx context.Context, items []*model.ActionItem) ([]*model.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := make([]*model.ActionItem, len(items))
	for i, item := range items {
		c, err := r.create(item, now)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create action item", goerr.V("index", i))
		}
		created[i] = c
	}

	return created, nil
}

func (r *actionItemRepository) Get(ctx context.Context, id types.ActionItemID) (*model.ActionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", id))
	}

	return copyActionItem(item), nil
}

func (r *actionItemRepository) ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.ActionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.ActionItem, 0)
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			items = append(items, copyActionItem(item))
		}
	}
	sortActionItems(items)

	return items, nil
}

func (r *actionItemRepository) ListByProject(ctx context.Context, projectID types.ProjectID) ([]*model.ActionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.ActionItem, 0)
	for _, item := range r.items {
		if item.ProjectID == projectID {
			items = append(items, copyActionItem(item))
		}
	}
	sortActionItems(items)

	return items, nil
}

func sortActionItems(items []*model.ActionItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func (r *actionItemRepository) Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[item.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", item.ID))
	}

	updated := copyActionItem(item)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid action item")
	}

	r.items[updated.ID] = updated
	return copyActionItem(updated), nil
}

func (r *actionItemRepository) Delete(ctx context.Context, id types.ActionItemID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", id))
	}

	delete(r.items, id)
	return nil
}
