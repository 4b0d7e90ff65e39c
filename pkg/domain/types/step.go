package types

import "fmt"

// StepKey identifies one stage of a tool's fixed pipeline
type StepKey string

const (
	StepUpload     StepKey = "upload"
	StepValidate   StepKey = "validate"
	StepPreprocess StepKey = "preprocess"
	StepTrain      StepKey = "train"
	StepResults    StepKey = "results"
	StepPredict    StepKey = "predict"
)

// AllStepKeys returns all step keys in pipeline order
func AllStepKeys() []StepKey {
	return []StepKey{
		StepUpload,
		StepValidate,
		StepPreprocess,
		StepTrain,
		StepResults,
		StepPredict,
	}
}

// IsValid checks if the step key is valid
func (k StepKey) IsValid() bool {
	switch k {
	case StepUpload, StepValidate, StepPreprocess, StepTrain, StepResults, StepPredict:
		return true
	default:
		return false
	}
}

// String returns the string representation of the step key
func (k StepKey) String() string {
	return string(k)
}

// StatusAfter returns the session status reached by completing the step.
// Results and predict do not move the status.
func (k StepKey) StatusAfter(current SessionStatus) SessionStatus {
	switch k {
	case StepUpload:
		return SessionStatusDataUploaded
	case StepValidate:
		return SessionStatusDataValidated
	case StepPreprocess:
		return SessionStatusDataPreprocessed
	case StepTrain:
		return SessionStatusModelsTrained
	default:
		return current
	}
}

// ParseStepKey parses a string into a StepKey
func ParseStepKey(s string) (StepKey, error) {
	key := StepKey(s)
	if !key.IsValid() {
		return "", fmt.Errorf("invalid step key: %s", s)
	}
	return key, nil
}
