package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

func TestToolID_IsValid(t *testing.T) {
	tests := []struct {
		name string
		tool types.ToolID
		want bool
	}{
		{name: "regression", tool: types.ToolRegression, want: true},
		{name: "classification", tool: types.ToolClassification, want: true},
		{name: "clustering", tool: types.ToolClustering, want: true},
		{name: "nlp", tool: types.ToolNLP, want: true},
		{name: "eda", tool: types.ToolEDA, want: true},
		{name: "unknown tool", tool: types.ToolID("forecasting"), want: false},
		{name: "empty", tool: types.ToolID(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.tool.IsValid()).True()
			} else {
				gt.B(t, tt.tool.IsValid()).False()
			}
		})
	}
}

func TestToolID_Supervised(t *testing.T) {
	gt.B(t, types.ToolRegression.Supervised()).True()
	gt.B(t, types.ToolClassification.Supervised()).True()
	gt.B(t, types.ToolClustering.Supervised()).False()
	gt.B(t, types.ToolNLP.Supervised()).False()
	gt.B(t, types.ToolEDA.Supervised()).False()

	gt.B(t, types.ToolNLP.TextBased()).True()
	gt.B(t, types.ToolRegression.TextBased()).False()
}

func TestParseToolID(t *testing.T) {
	tool, err := types.ParseToolID("regression")
	gt.NoError(t, err)
	gt.Value(t, tool).Equal(types.ToolRegression)

	_, err = types.ParseToolID("forecasting")
	gt.Error(t, err)
}

func TestStepKey_StatusAfter(t *testing.T) {
	tests := []struct {
		name    string
		key     types.StepKey
		current types.SessionStatus
		want    types.SessionStatus
	}{
		{
			name:    "upload moves to data uploaded",
			key:     types.StepUpload,
			current: types.SessionStatusCreated,
			want:    types.SessionStatusDataUploaded,
		},
		{
			name:    "validate moves to data validated",
			key:     types.StepValidate,
			current: types.SessionStatusDataUploaded,
			want:    types.SessionStatusDataValidated,
		},
		{
			name:    "preprocess moves to data preprocessed",
			key:     types.StepPreprocess,
			current: types.SessionStatusDataValidated,
			want:    types.SessionStatusDataPreprocessed,
		},
		{
			name:    "train moves to models trained",
			key:     types.StepTrain,
			current: types.SessionStatusDataPreprocessed,
			want:    types.SessionStatusModelsTrained,
		},
		{
			name:    "results keeps the current status",
			key:     types.StepResults,
			current: types.SessionStatusModelsTrained,
			want:    types.SessionStatusModelsTrained,
		},
		{
			name:    "predict keeps the current status",
			key:     types.StepPredict,
			current: types.SessionStatusModelsTrained,
			want:    types.SessionStatusModelsTrained,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.key.StatusAfter(tt.current)).Equal(tt.want)
		})
	}
}

func TestParseStepKey(t *testing.T) {
	key, err := types.ParseStepKey("preprocess")
	gt.NoError(t, err)
	gt.Value(t, key).Equal(types.StepPreprocess)

	_, err = types.ParseStepKey("deploy")
	gt.Error(t, err)
}

func TestSessionStatus_Rank(t *testing.T) {
	// Statuses must rank in pipeline order
	statuses := types.AllSessionStatuses()
	for i := 1; i < len(statuses); i++ {
		gt.B(t, statuses[i].Rank() > statuses[i-1].Rank()).True()
	}

	gt.Value(t, types.SessionStatus("bogus").Rank()).Equal(-1)
}

func TestSessionStatus_Normalize(t *testing.T) {
	gt.Value(t, types.SessionStatus("").Normalize()).Equal(types.SessionStatusCreated)
	gt.Value(t, types.SessionStatusModelsTrained.Normalize()).Equal(types.SessionStatusModelsTrained)
}

func TestParseSessionStatus(t *testing.T) {
	status, err := types.ParseSessionStatus("data_uploaded")
	gt.NoError(t, err)
	gt.Value(t, status).Equal(types.SessionStatusDataUploaded)

	_, err = types.ParseSessionStatus("paused")
	gt.Error(t, err)
}

func TestActionItemStatus_Normalize(t *testing.T) {
	gt.Value(t, types.ActionItemStatus("").Normalize()).Equal(types.ActionItemStatusPending)
	gt.Value(t, types.ActionItemStatusCompleted.Normalize()).Equal(types.ActionItemStatusCompleted)
}

func TestPriority_IsValid(t *testing.T) {
	for _, p := range types.AllPriorities() {
		gt.B(t, p.IsValid()).True()
	}
	gt.B(t, types.Priority("urgent").IsValid()).False()
}

func TestProjectStage_Normalize(t *testing.T) {
	gt.Value(t, types.ProjectStage("").Normalize()).Equal(types.ProjectStageExploring)
	gt.Value(t, types.ProjectStagePiloting.Normalize()).Equal(types.ProjectStagePiloting)
	gt.B(t, types.ProjectStage("dreaming").IsValid()).False()
}
