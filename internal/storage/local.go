// Package storage provides interfaces and implementations for different object store providers
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore implements ObjectStore on the local filesystem. It exists for
// development and testing; URLs it returns point at a configurable base URL
// so handlers behave the same as with a cloud provider.
type LocalStore struct {
	basePath string
	baseURL  string
}

// NewLocalStore creates a new local filesystem object store.
func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// Initialize sets up the local store with configuration
func (l *LocalStore) Initialize(config map[string]string) error {
	basePath, ok := config["basePath"]
	if !ok || basePath == "" {
		return fmt.Errorf("basePath is required for local storage")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return fmt.Errorf("failed to create base path: %w", err)
	}
	l.basePath = basePath

	l.baseURL = config["baseURL"]
	if l.baseURL == "" {
		abs, err := filepath.Abs(basePath)
		if err != nil {
			return fmt.Errorf("failed to resolve base path: %w", err)
		}
		l.baseURL = "file://" + abs
	}
	l.baseURL = strings.TrimRight(l.baseURL, "/")
	return nil
}

// Put writes an object under key below the base path and returns its URL.
// The content type is not persisted; local storage has no object metadata.
func (l *LocalStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	target := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write object content: %w", err)
	}
	return l.baseURL + "/" + key, nil
}

// PutPresigned writes the object and returns its plain URL; local files need
// no signing.
func (l *LocalStore) PutPresigned(ctx context.Context, key string, body io.Reader, ttl time.Duration) (string, error) {
	return l.Put(ctx, key, body, "")
}
