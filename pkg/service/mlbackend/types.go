package mlbackend

import (
	"context"
	"io"

	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// Service is the client-side contract of the remote analysis backend. All
// model training and statistical work happens there; this module only
// orchestrates the calls.
type Service interface {
	// CreateSession asks the backend to open a session for a tool and
	// returns the server-issued session ID.
	CreateSession(ctx context.Context, tool types.ToolID, name string) (types.SessionID, error)

	// Upload sends a data file as multipart/form-data with a single
	// "file" field; session and column selections travel as query
	// parameters.
	Upload(ctx context.Context, endpoint string, sessionID types.SessionID, file *UploadFile, params UploadParams) (*StepResult, error)

	// Validate runs backend data validation. This is the only call with
	// a client-enforced timeout (30s), matching the behavior the rest of
	// the pipeline relies on.
	Validate(ctx context.Context, endpoint string, sessionID types.SessionID, params ValidateParams) (*StepResult, error)

	// Preprocess applies the given preprocessing options
	Preprocess(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error)

	// Train starts model training with the given options
	Train(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error)

	// Results fetches the training results
	Results(ctx context.Context, endpoint string, sessionID types.SessionID) (*StepResult, error)

	// Predict runs a single prediction over the supplied feature values
	Predict(ctx context.Context, endpoint string, sessionID types.SessionID, features map[string]any) (*StepResult, error)

	// TrainingStatus polls the backend for training progress
	TrainingStatus(ctx context.Context, tool types.ToolID, sessionID types.SessionID) (*TrainingStatus, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error
}

// UploadFile is a data file ready to be sent to the backend
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadParams are the query parameters attached to an upload call
type UploadParams struct {
	TargetColumn string
	TextColumn   string
}

// ValidateParams are the parameters of a validation call
type ValidateParams struct {
	TargetColumn string
	TextColumn   string
}

// StepResult is the decoded response of a step call. The backend's JSON
// shapes vary per endpoint and omit fields freely; the typed accessors
// fill defaults at this boundary so callers never chase missing keys.
type StepResult struct {
	raw map[string]any
}

// NewStepResult wraps an already-decoded payload. Used by tests and the
// demo fallback synthesizer.
func NewStepResult(raw map[string]any) *StepResult {
	if raw == nil {
		raw = map[string]any{}
	}
	return &StepResult{raw: raw}
}

// Raw returns the full payload for storage in session step data
func (r *StepResult) Raw() map[string]any {
	return r.raw
}

// Success reports the payload's success flag. A 2xx response with no
// explicit flag counts as success.
func (r *StepResult) Success() bool {
	if v, ok := r.raw["success"].(bool); ok {
		return v
	}
	if v, ok := r.raw["is_valid"].(bool); ok {
		return v
	}
	return true
}

// Columns returns the column names reported by the backend, if any
func (r *StepResult) Columns() []string {
	return stringSlice(r.raw["columns"])
}

// FeatureColumns returns the feature column names reported by the
// backend, if any.
func (r *StepResult) FeatureColumns() []string {
	return stringSlice(r.raw["feature_columns"])
}

// BestModel returns the name of the best model, or empty
func (r *StepResult) BestModel() string {
	if v, ok := r.raw["best_model"].(string); ok {
		return v
	}
	return ""
}

// Summary returns the summary object, or an empty map
func (r *StepResult) Summary() map[string]any {
	if v, ok := r.raw["summary"].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// TrainingStatus is the backend's view of a training run
type TrainingStatus struct {
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
}

// Training states reported by the backend
const (
	TrainingStateRunning   = "running"
	TrainingStateCompleted = "completed"
	TrainingStateFailed    = "failed"
)

// Done reports whether the training run has finished, successfully or not
func (s *TrainingStatus) Done() bool {
	return s.State == TrainingStateCompleted || s.State == TrainingStateFailed
}
