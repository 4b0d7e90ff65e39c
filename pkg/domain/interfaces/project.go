package interfaces

import (
	"context"

	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// ProjectRepository defines the interface for Project data access
type ProjectRepository interface {
	// Create creates a new project with an auto-generated ID
	Create(ctx context.Context, p *model.Project) (*model.Project, error)

	// Get retrieves a project by ID
	Get(ctx context.Context, id types.ProjectID) (*model.Project, error)

	// ListByOwner retrieves all projects owned by a user
	ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.Project, error)

	// Update replaces an existing project and refreshes UpdatedAt
	Update(ctx context.Context, p *model.Project) (*model.Project, error)

	// Delete deletes a project by ID
	Delete(ctx context.Context, id types.ProjectID) error
}
