package interfaces

import (
	"context"

	"github.com/readylab-io/waypoint/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Session() SessionRepository
	Project() ProjectRepository
	Guide() GuideRepository
	ActionItem() ActionItemRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	Close() error
}
