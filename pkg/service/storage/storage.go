package storage

import (
	"context"
	"io"
)

// Service stores uploaded data files so a session can be resumed or
// re-validated without asking the user to upload again.
type Service interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
