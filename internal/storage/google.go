// Package storage provides interfaces and implementations for different object store providers
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GoogleCloudStore implements ObjectStore on top of Google Cloud Storage.
type GoogleCloudStore struct {
	client *storage.Client
	bucket string
}

// NewGoogleCloudStore creates a new Google Cloud Storage object store.
func NewGoogleCloudStore() *GoogleCloudStore {
	return &GoogleCloudStore{}
}

// Initialize sets up the Google Cloud store with configuration
func (g *GoogleCloudStore) Initialize(config map[string]string) error {
	var opts []option.ClientOption
	if credFile, ok := config["credentialFile"]; ok && credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create Google Cloud Storage client: %w", err)
	}
	g.client = client

	bucket, ok := config["bucket"]
	if !ok || bucket == "" {
		return fmt.Errorf("bucket is required for Google Cloud Storage")
	}
	g.bucket = bucket
	return nil
}

// Put uploads an object and returns its public URL.
func (g *GoogleCloudStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	obj := g.client.Bucket(g.bucket).Object(key)
	writer := obj.NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}

	if _, err := io.Copy(writer, body); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to write object content to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object upload to GCS: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, key), nil
}

// PutPresigned uploads an object and returns a signed read URL valid for ttl.
func (g *GoogleCloudStore) PutPresigned(ctx context.Context, key string, body io.Reader, ttl time.Duration) (string, error) {
	if _, err := g.Put(ctx, key, body, ""); err != nil {
		return "", err
	}

	url, err := g.client.Bucket(g.bucket).SignedURL(key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return url, nil
}
