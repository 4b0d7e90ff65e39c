package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// DataFile describes the uploaded data file attached to a session
type DataFile struct {
	Name        string
	Size        int64
	ContentType string
	URL         string
	Path        string
}

// Session correlates one user's attempt at a tool workflow with uploaded
// data and accumulated per-step results.
//
// CurrentStep is 1-based against the tool's configured step list. StepData
// maps step keys to the payload returned by the corresponding backend call;
// an entry exists only after the step completed successfully.
type Session struct {
	ID          types.SessionID
	UserID      types.UserID
	Tool        types.ToolID
	Name        string
	Description string
	Status      types.SessionStatus
	CurrentStep int
	StepData    map[string]map[string]any
	DataFile    *DataFile
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the session's required fields
func (s *Session) Validate() error {
	if err := s.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session")
	}
	if err := s.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session", goerr.V("id", s.ID))
	}
	if !s.Tool.IsValid() {
		return goerr.New("invalid session tool", goerr.V("id", s.ID), goerr.V("tool", s.Tool))
	}
	if !s.Status.Normalize().IsValid() {
		return goerr.New("invalid session status", goerr.V("id", s.ID), goerr.V("status", s.Status))
	}
	if s.CurrentStep < 1 {
		return goerr.New("session step must be 1 or greater", goerr.V("id", s.ID), goerr.V("step", s.CurrentStep))
	}
	return nil
}

// StepDataFor returns the stored payload for a step, or nil if the step has
// not completed yet.
func (s *Session) StepDataFor(key types.StepKey) map[string]any {
	if s.StepData == nil {
		return nil
	}
	return s.StepData[key.String()]
}

// SetStepData stores the payload for a step
func (s *Session) SetStepData(key types.StepKey, data map[string]any) {
	if s.StepData == nil {
		s.StepData = make(map[string]map[string]any)
	}
	s.StepData[key.String()] = data
}

// ClearStepData discards all accumulated step payloads
func (s *Session) ClearStepData() {
	s.StepData = nil
}
