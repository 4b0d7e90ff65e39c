package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// GCS stores data files in a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ Service = &GCS{}

type GCSOption func(*GCS)

// WithObjectPrefix prepends a path prefix to every object key.
func WithObjectPrefix(prefix string) GCSOption {
	return func(g *GCS) {
		g.prefix = prefix
	}
}

func NewGCS(ctx context.Context, bucket string, options ...GCSOption) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{
		client: client,
		bucket: bucket,
	}
	for _, opt := range options {
		opt(g)
	}

	return g, nil
}

// NewGCSWithCredentials builds a client from an explicit service account key file.
func NewGCSWithCredentials(ctx context.Context, bucket, credentialsFile string, options ...GCSOption) (*GCS, error) {
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{
		client: client,
		bucket: bucket,
	}
	for _, opt := range options {
		opt(g)
	}

	return g, nil
}

func (g *GCS) objectKey(key string) string {
	if g.prefix == "" {
		return key
	}
	return path.Join(g.prefix, key)
}

func (g *GCS) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	obj := g.client.Bucket(g.bucket).Object(g.objectKey(key))

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close object writer", goerr.V("key", key))
	}

	return fmt.Sprintf("gs://%s/%s", g.bucket, g.objectKey(key)), nil
}

func (g *GCS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := g.client.Bucket(g.bucket).Object(g.objectKey(key)).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("key", key))
	}
	return r, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	if err := g.client.Bucket(g.bucket).Object(g.objectKey(key)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete object", goerr.V("key", key))
	}
	return nil
}
