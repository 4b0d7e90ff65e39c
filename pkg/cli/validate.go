package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/cli/config"
	"github.com/readylab-io/waypoint/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var toolsCfg config.Tools
	var backendCfg config.Backend

	var flags []cli.Flag
	flags = append(flags, toolsCfg.Flags()...)
	flags = append(flags, backendCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the tool configuration file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			registry, err := toolsCfg.Configure()
			if err != nil {
				color.Red("✗ Configuration validation failed")
				return goerr.Wrap(err, "configuration validation failed",
					goerr.V("path", toolsCfg.Path()))
			}

			tools := registry.List()
			if toolsCfg.Path() == "" {
				logger.Info("No tools config specified, validated built-in tools")
			}

			color.Green("✓ Configuration valid (%d tools)", len(tools))
			for _, tool := range tools {
				color.Cyan("  %s: %s", tool.ID, tool.Title)
				fmt.Printf("    steps: %d, max file size: %d MB, file types: %v\n",
					tool.StepCount(), tool.MaxFileSize>>20, tool.AllowedFileTypes)
			}

			if backendCfg.IsConfigured() {
				backend, err := backendCfg.Configure()
				if err != nil {
					color.Red("✗ Backend configuration invalid")
					return goerr.Wrap(err, "backend configuration invalid")
				}

				if err := backend.Ping(ctx); err != nil {
					color.Yellow("! Backend unreachable: %v", err)
					return goerr.Wrap(err, "backend health check failed")
				}
				color.Green("✓ Backend reachable")
			} else {
				logger.Info("No backend URL specified, skipping backend health check")
			}

			return nil
		},
	}
}
