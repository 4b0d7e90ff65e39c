package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/readylab-io/waypoint/pkg/cli/config"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

func TestLoadToolRegistry(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid registry with explicit steps",
			content: `
[[tool]]
id = "regression"
title = "Regression Explorer"
description = "Predict continuous values"
allowed_file_types = [".csv", ".xlsx"]
max_file_size_mb = 30

  [[tool.step]]
  key = "upload"
  name = "Upload Data"

  [[tool.step]]
  key = "validate"

  [[tool.step]]
  key = "train"
  endpoint = "/api/regression/fit"

[[tool]]
id = "eda"
title = "Data Explorer"

  [[tool.step]]
  key = "upload"

  [[tool.step]]
  key = "results"
`,
			wantErr: nil,
		},
		{
			name:    "registry file not found",
			content: "", // Won't create the file
			wantErr: config.ErrConfigNotFound,
		},
		{
			name: "registry defines no tools",
			content: `
title = "empty"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown tool ID",
			content: `
[[tool]]
id = "forecasting"
title = "Forecasting"

  [[tool.step]]
  key = "upload"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "missing tool title",
			content: `
[[tool]]
id = "regression"

  [[tool.step]]
  key = "upload"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "tool without steps",
			content: `
[[tool]]
id = "regression"
title = "Regression Explorer"
`,
			wantErr: config.ErrMissingSteps,
		},
		{
			name: "unknown step key",
			content: `
[[tool]]
id = "regression"
title = "Regression Explorer"

  [[tool.step]]
  key = "deploy"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "duplicate tool ID",
			content: `
[[tool]]
id = "regression"
title = "Regression Explorer"

  [[tool.step]]
  key = "upload"

[[tool]]
id = "regression"
title = "Duplicate"

  [[tool.step]]
  key = "upload"
`,
			wantErr: config.ErrDuplicateToolID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "tools.toml")

			// Only create file if content is not empty
			if tt.content != "" {
				err := os.WriteFile(configPath, []byte(tt.content), 0644)
				gt.NoError(t, err).Required()
			}

			registry, err := config.LoadToolRegistry(configPath)

			if tt.wantErr != nil {
				gt.Value(t, err).NotNil()
				if err != nil {
					gt.Error(t, err).Is(tt.wantErr)
				}
				return
			}

			gt.NoError(t, err).Required()
			gt.Value(t, registry).NotNil()
		})
	}
}

func TestLoadToolRegistry_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "tools.toml")

	content := `
[[tool]]
id = "regression"
title = "Regression Explorer"

  [[tool.step]]
  key = "upload"

  [[tool.step]]
  key = "train"
`
	gt.NoError(t, os.WriteFile(configPath, []byte(content), 0644)).Required()

	registry, err := config.LoadToolRegistry(configPath)
	gt.NoError(t, err).Required()

	tool, err := registry.Get(types.ToolRegression)
	gt.NoError(t, err).Required()

	// Unset file constraints come from the built-in registry
	gt.Value(t, tool.MaxFileSize).Equal(20 << 20)
	gt.Array(t, tool.AllowedFileTypes).Has(".csv")

	// Step names default from the key, endpoints from the tool and key
	gt.Value(t, tool.Steps[0].Name).Equal("Upload")
	gt.Value(t, tool.Steps[0].ID).Equal(1)
	gt.Value(t, tool.Steps[1].ID).Equal(2)
	gt.Value(t, tool.Endpoints[types.StepUpload]).Equal("/api/regression/upload")
	gt.Value(t, tool.Endpoints[types.StepTrain]).Equal("/api/regression/train")
}

func TestToolsConfigure(t *testing.T) {
	t.Run("built-in registry when no file configured", func(t *testing.T) {
		var tools config.Tools
		registry, err := tools.Configure()
		gt.NoError(t, err).Required()
		gt.Array(t, registry.List()).Length(5)
	})
}
