package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	// Default region (empty LocationConstraint) uses the bare s3 host.
	assert.Equal(t,
		"https://bucket.s3.amazonaws.com/placeorder/abc/P1/img.jpg",
		ObjectURL("bucket", "", "placeorder/abc/P1/img.jpg"))

	assert.Equal(t,
		"https://bucket.s3-ap-south-1.amazonaws.com/placeorder/abc/P1/img.jpg",
		ObjectURL("bucket", "ap-south-1", "placeorder/abc/P1/img.jpg"))
}

func TestAmazonS3StoreRequiresBucket(t *testing.T) {
	store := NewAmazonS3Store()
	err := store.Initialize(map[string]string{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}
