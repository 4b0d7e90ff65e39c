package model

import (
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// Step describes one stage of a tool pipeline
type Step struct {
	ID          int
	Key         types.StepKey
	Name        string
	Description string
}

// ToolConfig is the immutable static descriptor of a tool workflow. It is
// defined at startup and never mutated.
type ToolConfig struct {
	ID              types.ToolID
	Title           string
	Description     string
	RequiresPremium bool

	// AllowedFileTypes holds lowercase dotted extensions such as ".csv"
	AllowedFileTypes []string

	// MaxFileSize is the upload size limit in bytes, enforced before any
	// request is attempted
	MaxFileSize int64

	Steps     []Step
	Endpoints map[types.StepKey]string
}

// Validate checks the tool config for structural problems
func (c *ToolConfig) Validate() error {
	if !c.ID.IsValid() {
		return goerr.New("invalid tool ID", goerr.V("id", c.ID))
	}
	if c.Title == "" {
		return goerr.New("tool title is required", goerr.V("id", c.ID))
	}
	if len(c.Steps) == 0 {
		return goerr.New("tool has no steps", goerr.V("id", c.ID))
	}
	if c.MaxFileSize <= 0 {
		return goerr.New("tool max file size must be positive", goerr.V("id", c.ID))
	}
	if len(c.AllowedFileTypes) == 0 {
		return goerr.New("tool has no allowed file types", goerr.V("id", c.ID))
	}

	for _, ext := range c.AllowedFileTypes {
		if !strings.HasPrefix(ext, ".") || ext != strings.ToLower(ext) {
			return goerr.New("file type must be a lowercase dotted extension",
				goerr.V("id", c.ID), goerr.V("ext", ext))
		}
	}

	seen := make(map[types.StepKey]bool)
	for i, step := range c.Steps {
		if step.ID != i+1 {
			return goerr.New("step IDs must be sequential from 1",
				goerr.V("id", c.ID), goerr.V("step", step.Key), goerr.V("step_id", step.ID))
		}
		if !step.Key.IsValid() {
			return goerr.New("invalid step key", goerr.V("id", c.ID), goerr.V("step", step.Key))
		}
		if seen[step.Key] {
			return goerr.New("duplicate step key", goerr.V("id", c.ID), goerr.V("step", step.Key))
		}
		seen[step.Key] = true

		if _, ok := c.Endpoints[step.Key]; !ok {
			return goerr.New("step has no endpoint", goerr.V("id", c.ID), goerr.V("step", step.Key))
		}
	}

	return nil
}

// StepCount returns the number of configured steps
func (c *ToolConfig) StepCount() int {
	return len(c.Steps)
}

// StepAt returns the step descriptor for a 1-based step number
func (c *ToolConfig) StepAt(n int) (Step, error) {
	if n < 1 || n > len(c.Steps) {
		return Step{}, goerr.New("step number out of range",
			goerr.V("id", c.ID), goerr.V("step", n), goerr.V("count", len(c.Steps)))
	}
	return c.Steps[n-1], nil
}

// AllowsFile checks an upload candidate against the tool's allowed
// extensions and size limit. The check runs before the request is even
// attempted.
func (c *ToolConfig) AllowsFile(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, a := range c.AllowedFileTypes {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return goerr.New("file type is not allowed for this tool",
			goerr.V("tool", c.ID), goerr.V("file", name), goerr.V("ext", ext),
			goerr.V("allowed", c.AllowedFileTypes))
	}
	if size > c.MaxFileSize {
		return goerr.New("file exceeds the tool's size limit",
			goerr.V("tool", c.ID), goerr.V("file", name), goerr.V("size", size),
			goerr.V("limit", c.MaxFileSize))
	}
	return nil
}
