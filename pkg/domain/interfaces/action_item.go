package interfaces

import (
	"context"

	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// ActionItemRepository defines the interface for ActionItem data access
type ActionItemRepository interface {
	// Create creates a new action item with an auto-generated ID
	Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error)

	// CreateMany persists a batch of new action items in one call
	CreateMany(ctx context.Context, items []*model.ActionItem) ([]*model.ActionItem, error)

	// Get retrieves an action item by ID
	Get(ctx context.Context, id types.ActionItemID) (*model.ActionItem, error)

	// ListByOwner retrieves all action items owned by a user
	ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.ActionItem, error)

	// ListByProject retrieves all action items of a project
	ListByProject(ctx context.Context, projectID types.ProjectID) ([]*model.ActionItem, error)

	// Update replaces an existing action item and refreshes UpdatedAt
	Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error)

	// Delete deletes an action item by ID
	Delete(ctx context.Context, id types.ActionItemID) error
}
