package interfaces

import "github.com/readylab-io/waypoint/pkg/domain/types"

// ListSessionOption is a functional option for filtering sessions in ListByUser
type ListSessionOption func(*listSessionConfig)

type listSessionConfig struct {
	limit  int
	status *types.SessionStatus
}

// WithLimit caps the number of sessions returned (0 means no cap)
func WithLimit(limit int) ListSessionOption {
	return func(c *listSessionConfig) {
		c.limit = limit
	}
}

// WithStatus filters sessions by status
func WithStatus(status types.SessionStatus) ListSessionOption {
	return func(c *listSessionConfig) {
		c.status = &status
	}
}

// BuildListSessionConfig builds a listSessionConfig from options
func BuildListSessionConfig(opts ...ListSessionOption) *listSessionConfig {
	cfg := &listSessionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Limit returns the configured limit, or 0 when unset
func (c *listSessionConfig) Limit() int {
	return c.limit
}

// Status returns the status filter value, or nil if not set
func (c *listSessionConfig) Status() *types.SessionStatus {
	return c.status
}
