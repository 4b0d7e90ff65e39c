package interfaces

import (
	"context"

	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// GuideRepository defines the interface for guide progress data access.
// Progress documents are keyed by (project, guide).
type GuideRepository interface {
	// Put creates or replaces a progress document and refreshes UpdatedAt
	Put(ctx context.Context, g *model.GuideProgress) (*model.GuideProgress, error)

	// Get retrieves the progress document for one guide of one project
	Get(ctx context.Context, projectID types.ProjectID, guideID types.GuideID) (*model.GuideProgress, error)

	// ListByProject retrieves all progress documents of a project
	ListByProject(ctx context.Context, projectID types.ProjectID) ([]*model.GuideProgress, error)

	// Delete removes a progress document
	Delete(ctx context.Context, projectID types.ProjectID, guideID types.GuideID) error
}
