package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// Tools holds CLI flags for the tool registry
type Tools struct {
	path string
}

// Flags returns CLI flags for tool registry configuration
func (t *Tools) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tools-config",
			Category:    "Tools",
			Usage:       "Tool registry TOML file (built-in defaults when empty)",
			Sources:     cli.EnvVars("WAYPOINT_TOOLS_CONFIG"),
			Destination: &t.path,
		},
	}
}

// Path returns the configured tool registry file path
func (t *Tools) Path() string {
	return t.path
}

// Configure loads the tool registry from TOML, or returns the built-in
// registry when no file is configured.
func (t *Tools) Configure() (*model.ToolRegistry, error) {
	if t.path == "" {
		return model.DefaultToolRegistry(), nil
	}
	return LoadToolRegistry(t.path)
}

// ToolsConfig is the TOML shape of the tool registry file
type ToolsConfig struct {
	Tools []ToolEntry `toml:"tool"`
}

// ToolEntry is one tool definition in the registry file
type ToolEntry struct {
	ID               string      `toml:"id"`
	Title            string      `toml:"title"`
	Description      string      `toml:"description"`
	RequiresPremium  bool        `toml:"requires_premium"`
	AllowedFileTypes []string    `toml:"allowed_file_types"`
	MaxFileSizeMB    int64       `toml:"max_file_size_mb"`
	Steps            []StepEntry `toml:"step"`
}

// StepEntry is one pipeline step of a tool
type StepEntry struct {
	Key         string `toml:"key"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Endpoint    string `toml:"endpoint"`
}

// Validate checks one tool entry
func (e *ToolEntry) Validate() error {
	tool := types.ToolID(e.ID)
	if !tool.IsValid() {
		return goerr.Wrap(ErrInvalidConfig, "unknown tool ID", goerr.V(ToolIDKey, e.ID))
	}
	if e.Title == "" {
		return goerr.Wrap(ErrInvalidConfig, "tool title is required", goerr.V(ToolIDKey, e.ID))
	}
	if len(e.Steps) == 0 {
		return goerr.Wrap(ErrMissingSteps, "tool has no steps", goerr.V(ToolIDKey, e.ID))
	}
	for i, step := range e.Steps {
		key := types.StepKey(step.Key)
		if !key.IsValid() {
			return goerr.Wrap(ErrInvalidConfig, "unknown step key",
				goerr.V(ToolIDKey, e.ID), goerr.V(StepIndexKey, i), goerr.V("key", step.Key))
		}
	}
	return nil
}

// toToolConfig converts the entry to the domain tool configuration, filling
// unset fields from the built-in defaults.
func (e *ToolEntry) toToolConfig() (*model.ToolConfig, error) {
	tool := types.ToolID(e.ID)

	cfg := &model.ToolConfig{
		ID:               tool,
		Title:            e.Title,
		Description:      e.Description,
		RequiresPremium:  e.RequiresPremium,
		AllowedFileTypes: e.AllowedFileTypes,
		MaxFileSize:      e.MaxFileSizeMB << 20,
		Steps:            make([]model.Step, len(e.Steps)),
		Endpoints:        map[types.StepKey]string{},
	}

	defaults, defErr := model.DefaultToolRegistry().Get(tool)

	if len(cfg.AllowedFileTypes) == 0 && defErr == nil {
		cfg.AllowedFileTypes = defaults.AllowedFileTypes
	}
	if cfg.MaxFileSize == 0 && defErr == nil {
		cfg.MaxFileSize = defaults.MaxFileSize
	}

	for i, step := range e.Steps {
		key := types.StepKey(step.Key)
		name := step.Name
		if name == "" {
			name = strings.ToUpper(step.Key[:1]) + step.Key[1:]
		}
		cfg.Steps[i] = model.Step{
			ID:          i + 1,
			Key:         key,
			Name:        name,
			Description: step.Description,
		}

		endpoint := step.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("/api/%s/%s", tool, key)
		}
		cfg.Endpoints[key] = endpoint
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid tool configuration", goerr.V(ToolIDKey, e.ID))
	}
	return cfg, nil
}

// LoadToolRegistry loads and validates a tool registry from a TOML file
func LoadToolRegistry(path string) (*model.ToolRegistry, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "tool registry not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read tool registry", goerr.V(ConfigPathKey, path))
	}

	var config ToolsConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML tool registry", goerr.V(ConfigPathKey, path))
	}

	if len(config.Tools) == 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "tool registry defines no tools", goerr.V(ConfigPathKey, path))
	}

	registry := model.NewToolRegistry()
	seen := map[string]bool{}
	for _, entry := range config.Tools {
		if err := entry.Validate(); err != nil {
			return nil, goerr.Wrap(err, "tool registry validation failed", goerr.V(ConfigPathKey, path))
		}
		if seen[entry.ID] {
			return nil, goerr.Wrap(ErrDuplicateToolID, "tool defined twice",
				goerr.V(ConfigPathKey, path), goerr.V(ToolIDKey, entry.ID))
		}
		seen[entry.ID] = true

		cfg, err := entry.toToolConfig()
		if err != nil {
			return nil, err
		}
		if err := registry.Register(cfg); err != nil {
			return nil, goerr.Wrap(err, "failed to register tool", goerr.V(ToolIDKey, entry.ID))
		}
	}

	return registry, nil
}
