package types

import "fmt"

// SessionStatus represents how far a session has progressed through its
// tool pipeline
type SessionStatus string

const (
	SessionStatusCreated          SessionStatus = "created"
	SessionStatusDataUploaded     SessionStatus = "data_uploaded"
	SessionStatusDataValidated    SessionStatus = "data_validated"
	SessionStatusDataPreprocessed SessionStatus = "data_preprocessed"
	SessionStatusModelsTrained    SessionStatus = "models_trained"
)

// AllSessionStatuses returns all valid session statuses in pipeline order
func AllSessionStatuses() []SessionStatus {
	return []SessionStatus{
		SessionStatusCreated,
		SessionStatusDataUploaded,
		SessionStatusDataValidated,
		SessionStatusDataPreprocessed,
		SessionStatusModelsTrained,
	}
}

// IsValid checks if the session status is valid
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusCreated,
		SessionStatusDataUploaded,
		SessionStatusDataValidated,
		SessionStatusDataPreprocessed,
		SessionStatusModelsTrained:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as SessionStatusCreated so
// documents written before the field existed still load.
func (s SessionStatus) Normalize() SessionStatus {
	if s == "" {
		return SessionStatusCreated
	}
	return s
}

// Rank returns the position of the status in the pipeline order. A status
// never moves to a lower rank except on reset.
func (s SessionStatus) Rank() int {
	for i, status := range AllSessionStatuses() {
		if s == status {
			return i
		}
	}
	return -1
}

// String returns the string representation of the session status
func (s SessionStatus) String() string {
	return string(s)
}

// ParseSessionStatus parses a string into a SessionStatus
func ParseSessionStatus(s string) (SessionStatus, error) {
	status := SessionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid session status: %s", s)
	}
	return status, nil
}
