package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// ErrObjectNotFound is returned when the requested key does not exist.
var ErrObjectNotFound = goerr.New("object not found")

// Memory is an in-memory Service for tests and demo mode.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ Service = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
	}
}

func (m *Memory) Put(_ context.Context, key string, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read object data", goerr.V("key", key))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data

	return "memory://" + key, nil
}

func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, goerr.Wrap(ErrObjectNotFound, "failed to get object", goerr.V("key", key))
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return goerr.Wrap(ErrObjectNotFound, "failed to delete object", goerr.V("key", key))
	}
	delete(m.objects, key)

	return nil
}
