package interfaces

import (
	"context"

	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// SessionRepository defines the interface for Session data access.
// Session IDs are assigned by the caller (server-issued or locally
// generated), not by the repository.
type SessionRepository interface {
	// Create persists a new session and stamps CreatedAt/UpdatedAt
	Create(ctx context.Context, s *model.Session) (*model.Session, error)

	// Get retrieves a session by ID
	Get(ctx context.Context, id types.SessionID) (*model.Session, error)

	// ListByUser retrieves a user's sessions ordered by UpdatedAt
	// descending. Options can cap the result count or filter by status.
	ListByUser(ctx context.Context, userID types.UserID, opts ...ListSessionOption) ([]*model.Session, error)

	// Update replaces an existing session and refreshes UpdatedAt
	Update(ctx context.Context, s *model.Session) (*model.Session, error)

	// Delete deletes a session by ID
	Delete(ctx context.Context, id types.SessionID) error
}
