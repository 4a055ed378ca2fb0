// Package storage provides interfaces and implementations for different object store providers
package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// AmazonS3Store implements ObjectStore on top of Amazon S3.
// The session and uploader are created once and are safe for concurrent use.
type AmazonS3Store struct {
	bucket   string
	s3Client *s3.S3
	uploader *s3manager.Uploader

	mu          sync.Mutex
	region      string
	regionKnown bool
}

// NewAmazonS3Store creates a new Amazon S3 object store.
func NewAmazonS3Store() *AmazonS3Store {
	return &AmazonS3Store{}
}

// Initialize sets up the Amazon S3 store with configuration
func (a *AmazonS3Store) Initialize(config map[string]string) error {
	bucket, ok := config["bucket"]
	if !ok || bucket == "" {
		return fmt.Errorf("bucket is required for Amazon S3 storage")
	}
	a.bucket = bucket

	var sess *session.Session
	var err error

	accessKey, hasAccessKey := config["accessKeyID"]
	secretKey, hasSecretKey := config["secretAccessKey"]

	awsConfig := &aws.Config{}
	if region := config["region"]; region != "" {
		awsConfig.Region = aws.String(region)
	}

	if hasAccessKey && hasSecretKey && accessKey != "" && secretKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
		sess, err = session.NewSession(awsConfig)
	} else {
		// Fall back to environment variables or instance profile
		sess, err = session.NewSession(awsConfig)
	}
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %w", err)
	}

	a.s3Client = s3.New(sess)
	a.uploader = s3manager.NewUploader(sess)
	return nil
}

// Put uploads an object and returns its public URL. The URL is derived from
// the bucket name, region and key only, so re-deriving it is deterministic.
func (a *AmazonS3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := a.uploader.UploadWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object to S3: %w", err)
	}

	region, err := a.bucketRegion(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve bucket region: %w", err)
	}
	return ObjectURL(a.bucket, region, key), nil
}

// PutPresigned uploads an object and returns a presigned read URL valid for ttl.
func (a *AmazonS3Store) PutPresigned(ctx context.Context, key string, body io.Reader, ttl time.Duration) (string, error) {
	if _, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   body,
	}); err != nil {
		return "", fmt.Errorf("failed to upload object to S3: %w", err)
	}

	req, _ := a.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}
	return url, nil
}

// bucketRegion looks up and caches the bucket's region. S3 reports an empty
// LocationConstraint for us-east-1.
func (a *AmazonS3Store) bucketRegion(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.regionKnown {
		return a.region, nil
	}

	out, err := a.s3Client.GetBucketLocationWithContext(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		return "", err
	}
	a.region = aws.StringValue(out.LocationConstraint)
	a.regionKnown = true
	return a.region, nil
}

// ObjectURL builds the public URL for an object. Buckets in the default
// region (empty region string) use the bare s3 host.
func ObjectURL(bucket, region, key string) string {
	if region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
	return fmt.Sprintf("https://%s.s3-%s.amazonaws.com/%s", bucket, region, key)
}
