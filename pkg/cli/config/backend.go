package config

import (
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
)

// Backend holds CLI flags for the ML backend client
type Backend struct {
	baseURL string
	timeout time.Duration
}

// Flags returns CLI flags for ML backend configuration
func (b *Backend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-url",
			Category:    "ML Backend",
			Usage:       "Base URL of the analysis backend (e.g., https://ml.example.com)",
			Sources:     cli.EnvVars("WAYPOINT_BACKEND_URL"),
			Destination: &b.baseURL,
		},
		&cli.DurationFlag{
			Name:        "backend-timeout",
			Category:    "ML Backend",
			Usage:       "Overall HTTP client timeout for backend calls (0 disables)",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("WAYPOINT_BACKEND_TIMEOUT"),
			Destination: &b.timeout,
		},
	}
}

// IsConfigured reports whether a backend URL was provided
func (b *Backend) IsConfigured() bool {
	return b.baseURL != ""
}

// Configure builds the backend client. Call only when IsConfigured is true.
func (b *Backend) Configure() (mlbackend.Service, error) {
	if b.baseURL == "" {
		return nil, goerr.New("backend-url is required")
	}

	svc, err := mlbackend.New(b.baseURL,
		mlbackend.WithHTTPClient(&http.Client{Timeout: b.timeout}),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build backend client")
	}
	return svc, nil
}
