package model

import (
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// GuideProgress tracks a user's section-level progress through a guide for
// one project.
type GuideProgress struct {
	GuideID           types.GuideID
	ProjectID         types.ProjectID
	Title             string
	CompletedSections []string
	TotalSections     int
	FormData          map[string]any

	// CompletionPercentage is derived from CompletedSections and
	// TotalSections; Recompute keeps it consistent on every write.
	CompletionPercentage int

	UpdatedAt time.Time
}

// Validate checks the guide progress document's required fields
func (g *GuideProgress) Validate() error {
	if err := g.GuideID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid guide progress")
	}
	if err := g.ProjectID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid guide progress", goerr.V("guide_id", g.GuideID))
	}
	if g.TotalSections < 0 {
		return goerr.New("total sections must not be negative",
			goerr.V("guide_id", g.GuideID), goerr.V("total", g.TotalSections))
	}
	if len(g.CompletedSections) > g.TotalSections {
		return goerr.New("completed sections exceed total",
			goerr.V("guide_id", g.GuideID),
			goerr.V("completed", len(g.CompletedSections)),
			goerr.V("total", g.TotalSections))
	}
	return nil
}

// Recompute updates CompletionPercentage from the section counts, rounded
// to the nearest integer.
func (g *GuideProgress) Recompute() {
	if g.TotalSections <= 0 {
		g.CompletionPercentage = 0
		return
	}
	ratio := float64(len(g.CompletedSections)) / float64(g.TotalSections)
	g.CompletionPercentage = int(math.Round(ratio * 100))
}
