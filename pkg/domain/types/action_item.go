package types

import "fmt"

// ActionItemStatus represents the status of an action item
type ActionItemStatus string

const (
	ActionItemStatusPending    ActionItemStatus = "pending"
	ActionItemStatusInProgress ActionItemStatus = "in_progress"
	ActionItemStatusCompleted  ActionItemStatus = "completed"
)

// AllActionItemStatuses returns all valid action item statuses
func AllActionItemStatuses() []ActionItemStatus {
	return []ActionItemStatus{
		ActionItemStatusPending,
		ActionItemStatusInProgress,
		ActionItemStatusCompleted,
	}
}

// IsValid checks if the action item status is valid
func (s ActionItemStatus) IsValid() bool {
	switch s {
	case ActionItemStatusPending, ActionItemStatusInProgress, ActionItemStatusCompleted:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as pending
func (s ActionItemStatus) Normalize() ActionItemStatus {
	if s == "" {
		return ActionItemStatusPending
	}
	return s
}

// String returns the string representation of the action item status
func (s ActionItemStatus) String() string {
	return string(s)
}

// ParseActionItemStatus parses a string into an ActionItemStatus
func ParseActionItemStatus(s string) (ActionItemStatus, error) {
	status := ActionItemStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid action item status: %s", s)
	}
	return status, nil
}

// Priority represents the priority of an action item
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// AllPriorities returns all valid priorities in ascending order
func AllPriorities() []Priority {
	return []Priority{
		PriorityLow,
		PriorityMedium,
		PriorityHigh,
		PriorityCritical,
	}
}

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}
