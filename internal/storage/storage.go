// Package storage provides interfaces and implementations for different object store providers
package storage

import (
	"context"
	"io"
	"time"
)

// DefaultPresignTTL is how long presigned read URLs stay valid.
const DefaultPresignTTL = 600 * time.Second

// ObjectStore defines the write-side contract the upload pipelines depend on.
type ObjectStore interface {
	// Initialize sets up the provider with configuration
	Initialize(config map[string]string) error

	// Put stores an object under key, setting its Content-Type metadata when
	// contentType is non-empty, and returns a stable publicly addressable URL.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// PutPresigned stores an object under key and returns a time-bounded
	// presigned read URL instead of a public one, for callers that need
	// temporary access without making the object public.
	PutPresigned(ctx context.Context, key string, body io.Reader, ttl time.Duration) (string, error)
}
