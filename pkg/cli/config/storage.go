package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/readylab-io/waypoint/pkg/service/storage"
	"github.com/readylab-io/waypoint/pkg/utils/logging"
)

// Storage holds CLI flags for data file storage
type Storage struct {
	bucket          string
	prefix          string
	credentialsFile string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-bucket",
			Category:    "Storage",
			Usage:       "GCS bucket for uploaded data files (in-memory storage when empty)",
			Sources:     cli.EnvVars("WAYPOINT_STORAGE_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Category:    "Storage",
			Usage:       "Object key prefix inside the bucket",
			Sources:     cli.EnvVars("WAYPOINT_STORAGE_PREFIX"),
			Destination: &s.prefix,
		},
		&cli.StringFlag{
			Name:        "storage-credentials",
			Category:    "Storage",
			Usage:       "Service account key file (uses ambient credentials when empty)",
			Sources:     cli.EnvVars("WAYPOINT_STORAGE_CREDENTIALS"),
			Destination: &s.credentialsFile,
		},
	}
}

// Configure builds the storage service. Without a bucket the in-memory
// implementation is used, which is fine for development but loses files on
// restart.
func (s *Storage) Configure(ctx context.Context) (storage.Service, error) {
	if s.bucket == "" {
		logging.Default().Info("Using in-memory storage (development mode)")
		return storage.NewMemory(), nil
	}

	var opts []storage.GCSOption
	if s.prefix != "" {
		opts = append(opts, storage.WithObjectPrefix(s.prefix))
	}

	var svc storage.Service
	var err error
	if s.credentialsFile != "" {
		svc, err = storage.NewGCSWithCredentials(ctx, s.bucket, s.credentialsFile, opts...)
	} else {
		svc, err = storage.NewGCS(ctx, s.bucket, opts...)
	}
	if err != nil {
		return nil, err
	}

	logging.Default().Info("Using GCS storage", "bucket", s.bucket, "prefix", s.prefix)
	return svc, nil
}
