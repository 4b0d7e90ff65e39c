package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrGuideNotFound      = errors.New("guide progress not found")
	ErrActionItemNotFound = errors.New("action item not found")
	ErrToolNotFound       = errors.New("tool not found")

	// Workflow errors
	ErrStepNotReached     = errors.New("step has not been reached yet")
	ErrStepInFlight       = errors.New("another step operation is in flight for this session")
	ErrNoFurtherStep      = errors.New("session is already at the final step")
	ErrPreconditionFailed = errors.New("step precondition not satisfied")

	// Access control errors
	ErrAccessDenied = errors.New("access denied")

	// Auth errors
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Context keys for error values
const (
	SessionIDKey  = "session_id"
	ProjectIDKey  = "project_id"
	GuideIDKey    = "guide_id"
	ActionIDKey   = "action_item_id"
	StepKey       = "step"
	ToolKey       = "tool"
)
