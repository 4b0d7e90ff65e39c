package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// ErrToolNotFound is returned when a tool is not found in the registry
var ErrToolNotFound = goerr.New("tool not found")

// ToolRegistry holds tool configurations. It holds settings only; it is
// built once at startup and read concurrently without locking.
type ToolRegistry struct {
	entries map[types.ToolID]*ToolConfig
	order   []types.ToolID // preserves registration order
}

// NewToolRegistry creates a new empty ToolRegistry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		entries: make(map[types.ToolID]*ToolConfig),
	}
}

// Register adds a tool config to the registry
func (r *ToolRegistry) Register(cfg *ToolConfig) error {
	if err := cfg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid tool config")
	}
	if _, exists := r.entries[cfg.ID]; !exists {
		r.order = append(r.order, cfg.ID)
	}
	r.entries[cfg.ID] = cfg
	return nil
}

// Get retrieves a tool config by ID
func (r *ToolRegistry) Get(tool types.ToolID) (*ToolConfig, error) {
	cfg, ok := r.entries[tool]
	if !ok {
		return nil, goerr.Wrap(ErrToolNotFound, "tool not found", goerr.V("tool", tool))
	}
	return cfg, nil
}

// List returns all registered tool configs in registration order
func (r *ToolRegistry) List() []*ToolConfig {
	result := make([]*ToolConfig, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entries[id])
	}
	return result
}

const (
	fileSizeMB = 1 << 20

	defaultMaxFileSize = 20 * fileSizeMB
	nlpMaxFileSize     = 50 * fileSizeMB
)

func defaultSteps(keys ...types.StepKey) []Step {
	names := map[types.StepKey]string{
		types.StepUpload:     "Upload Data",
		types.StepValidate:   "Validate Data",
		types.StepPreprocess: "Preprocess",
		types.StepTrain:      "Train Models",
		types.StepResults:    "Results",
		types.StepPredict:    "Predict",
	}
	steps := make([]Step, len(keys))
	for i, key := range keys {
		steps[i] = Step{ID: i + 1, Key: key, Name: names[key]}
	}
	return steps
}

func defaultEndpoints(tool types.ToolID, keys ...types.StepKey) map[types.StepKey]string {
	endpoints := make(map[types.StepKey]string, len(keys))
	for _, key := range keys {
		endpoints[key] = fmt.Sprintf("/api/%s/%s", tool, key)
	}
	return endpoints
}

// DefaultToolRegistry returns the built-in tool set. A TOML registry file
// overrides these descriptors per deployment.
func DefaultToolRegistry() *ToolRegistry {
	tabular := []string{".csv", ".xlsx", ".xls", ".json"}
	fullPipeline := []types.StepKey{
		types.StepUpload, types.StepValidate, types.StepPreprocess,
		types.StepTrain, types.StepResults, types.StepPredict,
	}
	unsupervised := []types.StepKey{
		types.StepUpload, types.StepValidate, types.StepPreprocess,
		types.StepTrain, types.StepResults,
	}
	edaPipeline := []types.StepKey{
		types.StepUpload, types.StepValidate, types.StepResults,
	}

	registry := NewToolRegistry()
	configs := []*ToolConfig{
		{
			ID:               types.ToolRegression,
			Title:            "Linear Regression",
			Description:      "Predict a continuous target from tabular data",
			AllowedFileTypes: tabular,
			MaxFileSize:      defaultMaxFileSize,
			Steps:            defaultSteps(fullPipeline...),
			Endpoints:        defaultEndpoints(types.ToolRegression, fullPipeline...),
		},
		{
			ID:               types.ToolClassification,
			Title:            "Classification Explorer",
			Description:      "Predict a categorical target from tabular data",
			AllowedFileTypes: tabular,
			MaxFileSize:      defaultMaxFileSize,
			Steps:            defaultSteps(fullPipeline...),
			Endpoints:        defaultEndpoints(types.ToolClassification, fullPipeline...),
		},
		{
			ID:               types.ToolClustering,
			Title:            "Clustering Explorer",
			Description:      "Discover groups in unlabeled tabular data",
			AllowedFileTypes: tabular,
			MaxFileSize:      defaultMaxFileSize,
			Steps:            defaultSteps(unsupervised...),
			Endpoints:        defaultEndpoints(types.ToolClustering, unsupervised...),
		},
		{
			ID:               types.ToolNLP,
			Title:            "NLP Explorer",
			Description:      "Analyze free-text columns",
			AllowedFileTypes: append([]string{".txt"}, tabular...),
			MaxFileSize:      nlpMaxFileSize,
			Steps:            defaultSteps(unsupervised...),
			Endpoints:        defaultEndpoints(types.ToolNLP, unsupervised...),
		},
		{
			ID:               types.ToolEDA,
			Title:            "Exploratory Data Analysis",
			Description:      "Profile and summarize a dataset",
			AllowedFileTypes: tabular,
			MaxFileSize:      defaultMaxFileSize,
			Steps:            defaultSteps(edaPipeline...),
			Endpoints:        defaultEndpoints(types.ToolEDA, edaPipeline...),
		},
	}

	for _, cfg := range configs {
		// Built-in configs are statically valid
		if err := registry.Register(cfg); err != nil {
			panic(err)
		}
	}
	return registry
}
