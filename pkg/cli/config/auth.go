package config

import (
	"github.com/urfave/cli/v3"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/usecase"
)

// Auth holds CLI flags for authentication configuration
type Auth struct {
	projectID string
	noAuthUID string
}

// Flags returns CLI flags for authentication configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-project-id",
			Category:    "Authentication",
			Usage:       "Identity Platform (Firebase Auth) project ID for ID token verification",
			Sources:     cli.EnvVars("WAYPOINT_AUTH_PROJECT_ID"),
			Destination: &a.projectID,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Category:    "Authentication",
			Usage:       "Skip authentication and run as the specified user ID (development only)",
			Sources:     cli.EnvVars("WAYPOINT_NO_AUTH"),
			Destination: &a.noAuthUID,
		},
	}
}

// IsNoAuthMode reports whether the development no-auth mode is active
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuthUID != ""
}

// IsConfigured reports whether token verification is configured
func (a *Auth) IsConfigured() bool {
	return a.projectID != ""
}

// Configure builds the authentication use case. No-auth mode wins when both
// are set; nil is returned when neither is configured, which the HTTP layer
// treats as anonymous access.
func (a *Auth) Configure(repo interfaces.Repository) usecase.AuthUseCaseInterface {
	if a.noAuthUID != "" {
		return usecase.NewNoAuthnUseCase(repo, a.noAuthUID, a.noAuthUID+"@localhost", a.noAuthUID)
	}
	if a.projectID != "" {
		return usecase.NewAuthUseCase(repo, a.projectID)
	}
	return nil
}
