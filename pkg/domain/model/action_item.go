package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// ActionItem is a prioritized follow-up task, either created by a user or
// derived from an assessment result.
type ActionItem struct {
	ID        types.ActionItemID
	ProjectID types.ProjectID
	OwnerID   types.UserID
	Title     string
	Category  string
	Priority  types.Priority
	Status    types.ActionItemStatus
	DueDate   *time.Time
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the action item's required fields
func (a *ActionItem) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid action item")
	}
	if err := a.OwnerID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid action item", goerr.V("id", a.ID))
	}
	if a.Title == "" {
		return goerr.New("action item title is required", goerr.V("id", a.ID))
	}
	if !a.Priority.IsValid() {
		return goerr.New("invalid action item priority", goerr.V("id", a.ID), goerr.V("priority", a.Priority))
	}
	if !a.Status.Normalize().IsValid() {
		return goerr.New("invalid action item status", goerr.V("id", a.ID), goerr.V("status", a.Status))
	}
	return nil
}
