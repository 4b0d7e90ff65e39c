package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

func TestDefaultToolRegistry(t *testing.T) {
	registry := model.DefaultToolRegistry()
	gt.Array(t, registry.List()).Length(5)

	tests := []struct {
		tool      types.ToolID
		stepCount int
		lastStep  types.StepKey
	}{
		{tool: types.ToolRegression, stepCount: 6, lastStep: types.StepPredict},
		{tool: types.ToolClassification, stepCount: 6, lastStep: types.StepPredict},
		{tool: types.ToolClustering, stepCount: 5, lastStep: types.StepResults},
		{tool: types.ToolNLP, stepCount: 5, lastStep: types.StepResults},
		{tool: types.ToolEDA, stepCount: 3, lastStep: types.StepResults},
	}

	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			cfg, err := registry.Get(tt.tool)
			gt.NoError(t, err).Required()

			gt.Value(t, cfg.StepCount()).Equal(tt.stepCount)
			gt.Value(t, cfg.Steps[0].Key).Equal(types.StepUpload)
			gt.Value(t, cfg.Steps[len(cfg.Steps)-1].Key).Equal(tt.lastStep)

			// Every step has its endpoint under the tool's API prefix
			for _, step := range cfg.Steps {
				gt.Value(t, cfg.Endpoints[step.Key]).
					Equal("/api/" + string(tt.tool) + "/" + string(step.Key))
			}

			gt.NoError(t, cfg.Validate())
		})
	}

	t.Run("nlp accepts text files with a larger cap", func(t *testing.T) {
		cfg, err := registry.Get(types.ToolNLP)
		gt.NoError(t, err).Required()

		gt.Array(t, cfg.AllowedFileTypes).Has(".txt")
		gt.Value(t, cfg.MaxFileSize).Equal(int64(50 << 20))
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := registry.Get(types.ToolID("forecasting"))
		gt.Error(t, err)
	})
}

func TestToolConfig_AllowsFile(t *testing.T) {
	registry := model.DefaultToolRegistry()
	cfg, err := registry.Get(types.ToolRegression)
	gt.NoError(t, err).Required()

	t.Run("allowed file", func(t *testing.T) {
		gt.NoError(t, cfg.AllowsFile("housing.csv", 1024))
	})

	t.Run("extension check is case insensitive", func(t *testing.T) {
		gt.NoError(t, cfg.AllowsFile("Housing.CSV", 1024))
	})

	t.Run("disallowed extension", func(t *testing.T) {
		gt.Error(t, cfg.AllowsFile("report.pdf", 1024))
	})

	t.Run("no extension", func(t *testing.T) {
		gt.Error(t, cfg.AllowsFile("data", 1024))
	})

	t.Run("over the size limit", func(t *testing.T) {
		gt.Error(t, cfg.AllowsFile("housing.csv", cfg.MaxFileSize+1))
	})
}

func TestToolConfig_StepAt(t *testing.T) {
	registry := model.DefaultToolRegistry()
	cfg, err := registry.Get(types.ToolEDA)
	gt.NoError(t, err).Required()

	step, err := cfg.StepAt(1)
	gt.NoError(t, err)
	gt.Value(t, step.Key).Equal(types.StepUpload)

	step, err = cfg.StepAt(3)
	gt.NoError(t, err)
	gt.Value(t, step.Key).Equal(types.StepResults)

	_, err = cfg.StepAt(0)
	gt.Error(t, err)
	_, err = cfg.StepAt(4)
	gt.Error(t, err)
}

func TestToolRegistry_Register(t *testing.T) {
	registry := model.NewToolRegistry()

	cfg, err := model.DefaultToolRegistry().Get(types.ToolRegression)
	gt.NoError(t, err).Required()

	gt.NoError(t, registry.Register(cfg))
	gt.Error(t, registry.Register(cfg))
}

func TestSession_StepData(t *testing.T) {
	s := &model.Session{
		ID:          types.NewSessionID(),
		UserID:      "user-1",
		Tool:        types.ToolRegression,
		Name:        "run",
		Status:      types.SessionStatusCreated,
		CurrentStep: 1,
	}

	gt.Value(t, s.StepDataFor(types.StepUpload)).Nil()

	s.SetStepData(types.StepUpload, map[string]any{"columns": []string{"a", "b"}})
	gt.Value(t, s.StepDataFor(types.StepUpload)).NotNil()

	s.ClearStepData()
	gt.Value(t, s.StepDataFor(types.StepUpload)).Nil()
}
