package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrDuplicateToolID = goerr.New("duplicate tool ID")
	ErrMissingSteps    = goerr.New("tool requires at least one step")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	ToolIDKey     = "tool_id"
	StepIndexKey  = "step_index"
)
