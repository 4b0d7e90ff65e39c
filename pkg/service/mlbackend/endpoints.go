package mlbackend

import (
	"fmt"

	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// Step endpoints come from the tool registry; the paths here are the
// session-lifecycle endpoints that exist outside any step.

func sessionEndpoint(tool types.ToolID) string {
	return fmt.Sprintf("/api/%s/session", tool)
}

func statusEndpoint(tool types.ToolID) string {
	return fmt.Sprintf("/api/%s/status", tool)
}

const healthEndpoint = "/health"
