// Package storage provides interfaces and implementations for different object store providers
package storage

import (
	"fmt"
	"sync"
)

// Factory creates and tracks object store providers.
type Factory struct {
	mu sync.RWMutex
	// Providers that failed to initialize, with the reason
	unavailable map[string]string
}

// NewFactory creates a new storage factory
func NewFactory() *Factory {
	return &Factory{
		unavailable: make(map[string]string),
	}
}

// MarkUnavailable records a provider type as unavailable with a reason.
func (f *Factory) MarkUnavailable(providerType, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable[providerType] = reason
}

// IsAvailable reports whether a provider type is available.
func (f *Factory) IsAvailable(providerType string) (bool, string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	reason, bad := f.unavailable[providerType]
	return !bad, reason
}

// CreateProvider creates and initializes an object store of the given type.
func (f *Factory) CreateProvider(providerType string, config map[string]string) (ObjectStore, error) {
	f.mu.RLock()
	if reason, bad := f.unavailable[providerType]; bad {
		f.mu.RUnlock()
		return nil, fmt.Errorf("%s provider is currently unavailable: %s", providerType, reason)
	}
	f.mu.RUnlock()

	var provider ObjectStore
	switch providerType {
	case "s3", "amazon", "aws":
		provider = NewAmazonS3Store()
	case "gcs", "google":
		provider = NewGoogleCloudStore()
	case "local":
		provider = NewLocalStore()
	default:
		return nil, fmt.Errorf("unsupported storage provider type: %s", providerType)
	}

	if err := provider.Initialize(config); err != nil {
		f.MarkUnavailable(providerType, err.Error())
		return nil, fmt.Errorf("failed to initialize %s storage provider: %w", providerType, err)
	}
	return provider, nil
}

// DefaultFactory is the default storage factory instance
var DefaultFactory = NewFactory()

// CreateProvider creates an object store using the default factory.
func CreateProvider(providerType string, config map[string]string) (ObjectStore, error) {
	return DefaultFactory.CreateProvider(providerType, config)
}
