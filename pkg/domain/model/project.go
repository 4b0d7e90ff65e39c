package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// TimelineEvent records a notable event in a project's history
type TimelineEvent struct {
	Label      string
	Detail     string
	OccurredAt time.Time
}

// Project is the top-level domain object the dashboard aggregates. Guides
// holds per-guide progress keyed by guide ID.
type Project struct {
	ID           types.ProjectID
	OwnerID      types.UserID
	Name         string
	Organization string
	Stage        types.ProjectStage
	Guides       map[string]GuideProgress
	Timeline     []TimelineEvent
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the project's required fields
func (p *Project) Validate() error {
	if err := p.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid project")
	}
	if err := p.OwnerID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid project", goerr.V("id", p.ID))
	}
	if p.Name == "" {
		return goerr.New("project name is required", goerr.V("id", p.ID))
	}
	if !p.Stage.Normalize().IsValid() {
		return goerr.New("invalid project stage", goerr.V("id", p.ID), goerr.V("stage", p.Stage))
	}
	return nil
}

// AppendTimeline records an event at the end of the project timeline
func (p *Project) AppendTimeline(label, detail string, at time.Time) {
	p.Timeline = append(p.Timeline, TimelineEvent{
		Label:      label,
		Detail:     detail,
		OccurredAt: at,
	})
}
