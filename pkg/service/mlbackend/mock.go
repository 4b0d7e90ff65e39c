package mlbackend

import (
	"context"

	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// Mock is a test double for Service. Unset functions return empty results.
type Mock struct {
	CreateSessionFunc  func(ctx context.Context, tool types.ToolID, name string) (types.SessionID, error)
	UploadFunc         func(ctx context.Context, endpoint string, sessionID types.SessionID, file *UploadFile, params UploadParams) (*StepResult, error)
	ValidateFunc       func(ctx context.Context, endpoint string, sessionID types.SessionID, params ValidateParams) (*StepResult, error)
	PreprocessFunc     func(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error)
	TrainFunc          func(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error)
	ResultsFunc        func(ctx context.Context, endpoint string, sessionID types.SessionID) (*StepResult, error)
	PredictFunc        func(ctx context.Context, endpoint string, sessionID types.SessionID, features map[string]any) (*StepResult, error)
	TrainingStatusFunc func(ctx context.Context, tool types.ToolID, sessionID types.SessionID) (*TrainingStatus, error)

	// Calls records the endpoints hit, in order
	Calls []string
}

var _ Service = &Mock{}

func (m *Mock) CreateSession(ctx context.Context, tool types.ToolID, name string) (types.SessionID, error) {
	m.Calls = append(m.Calls, "session")
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, tool, name)
	}
	return types.NewSessionID(), nil
}

func (m *Mock) Upload(ctx context.Context, endpoint string, sessionID types.SessionID, file *UploadFile, params UploadParams) (*StepResult, error) {
	m.Calls = append(m.Calls, endpoint)
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, endpoint, sessionID, file, params)
	}
	return NewStepResult(nil), nil
}

func (m *Mock) Validate(ctx context.Context, endpoint string, sessionID types.SessionID, params ValidateParams) (*StepResult, error) {
	m.Calls = append(m.Calls, endpoint)
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, endpoint, sessionID, params)
	}
	return NewStepResult(nil), nil
}

func (m *Mock) Preprocess(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error) {
	m.Calls = append(m.Calls, endpoint)
	if m.PreprocessFunc != nil {
		return m.PreprocessFunc(ctx, endpoint, sessionID, options)
	}
	return NewStepResult(nil), nil
}

func (m *Mock) Train(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error) {
	m.Calls = append(m.Calls, endpoint)
	if m.TrainFunc != nil {
		return m.TrainFunc(ctx, endpoint, sessionID, options)
	}
	return NewStepResult(nil), nil
}

func (m *Mock) Results(ctx context.Context, endpoint string, sessionID types.SessionID) (*StepResult, error) {
	m.Calls = append(m.Calls, endpoint)
	if m.ResultsFunc != nil {
		return m.ResultsFunc(ctx, endpoint, sessionID)
	}
	return NewStepResult(nil), nil
}

func (m *Mock) Predict(ctx context.Context, endpoint string, sessionID types.SessionID, features map[string]any) (*StepResult, error) {
	m.Calls = append(m.Calls, endpoint)
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, endpoint, sessionID, features)
	}
	return NewStepResult(nil), nil
}

func (m *Mock) TrainingStatus(ctx context.Context, tool types.ToolID, sessionID types.SessionID) (*TrainingStatus, error) {
	if m.TrainingStatusFunc != nil {
		return m.TrainingStatusFunc(ctx, tool, sessionID)
	}
	return &TrainingStatus{State: TrainingStateCompleted, Progress: 1}, nil
}

func (m *Mock) Ping(ctx context.Context) error {
	return nil
}
