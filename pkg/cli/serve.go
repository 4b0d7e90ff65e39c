package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/readylab-io/waypoint/pkg/cli/config"
	httpctrl "github.com/readylab-io/waypoint/pkg/controller/http"
	"github.com/readylab-io/waypoint/pkg/service/progress"
	"github.com/readylab-io/waypoint/pkg/service/worker"
	"github.com/readylab-io/waypoint/pkg/usecase"
	"github.com/readylab-io/waypoint/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var demoFallback bool
	var watchInterval time.Duration
	var repoCfg config.Repository
	var backendCfg config.Backend
	var storageCfg config.Storage
	var authCfg config.Auth
	var toolsCfg config.Tools

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("WAYPOINT_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "demo-fallback",
			Usage:       "Serve synthesized step results when the backend is unavailable (demo only)",
			Sources:     cli.EnvVars("WAYPOINT_DEMO_FALLBACK"),
			Destination: &demoFallback,
		},
		&cli.DurationFlag{
			Name:        "training-watch-interval",
			Usage:       "Polling interval for training progress",
			Value:       5 * time.Second,
			Sources:     cli.EnvVars("WAYPOINT_TRAINING_WATCH_INTERVAL"),
			Destination: &watchInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, backendCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, toolsCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			tools, err := toolsCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load tool registry")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			stor, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize storage")
			}

			authUC := authCfg.Configure(repo)
			switch {
			case authCfg.IsNoAuthMode():
				logging.Default().Warn("Running in no-auth mode (development only)")
			case authCfg.IsConfigured():
				logging.Default().Info("ID token verification enabled")
			default:
				logging.Default().Warn("Authentication not configured, all requests are anonymous")
			}

			hub := progress.NewHub()
			ucOpts := []usecase.Option{
				usecase.WithStorage(stor),
				usecase.WithTools(tools),
				usecase.WithProgressHub(hub),
			}
			if authUC != nil {
				ucOpts = append(ucOpts, usecase.WithAuth(authUC))
			}
			if demoFallback {
				ucOpts = append(ucOpts, usecase.WithDemoFallback())
				logging.Default().Warn("Demo fallback mode enabled, failed steps will return canned data")
			}

			var trainingWorker *worker.TrainingWatchWorker
			if backendCfg.IsConfigured() {
				backend, err := backendCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to configure backend client")
				}
				ucOpts = append(ucOpts, usecase.WithBackend(backend))

				trainingWorker = worker.NewTrainingWatchWorker(backend, hub, watchInterval)
				if err := trainingWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start training watch worker")
				}
			} else if !demoFallback {
				return goerr.New("backend-url is required unless demo-fallback is enabled")
			}

			uc := usecase.New(repo, ucOpts...)

			httpHandler, err := httpctrl.New(uc, httpctrl.WithAuth(uc.Auth))
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if trainingWorker != nil {
					trainingWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
