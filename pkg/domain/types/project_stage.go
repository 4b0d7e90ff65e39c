package types

// ProjectStage represents the AI-readiness stage of a project
type ProjectStage string

const (
	ProjectStageExploring ProjectStage = "exploring"
	ProjectStagePiloting  ProjectStage = "piloting"
	ProjectStageScaling   ProjectStage = "scaling"
	ProjectStageLeading   ProjectStage = "leading"
)

// IsValid checks if the project stage is valid
func (s ProjectStage) IsValid() bool {
	switch s {
	case ProjectStageExploring, ProjectStagePiloting, ProjectStageScaling, ProjectStageLeading:
		return true
	default:
		return false
	}
}

// Normalize returns the stage, treating empty as exploring
func (s ProjectStage) Normalize() ProjectStage {
	if s == "" {
		return ProjectStageExploring
	}
	return s
}

// String returns the string representation of the project stage
func (s ProjectStage) String() string {
	return string(s)
}
