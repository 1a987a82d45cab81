package mediastore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Static errors for media store operations.
var (
	// ErrBucketRequired is returned when no bucket is configured.
	ErrBucketRequired = errors.New("mediastore: bucket is required")
	// ErrRegionRequired is returned when no region is configured.
	ErrRegionRequired = errors.New("mediastore: region is required")
	// ErrNotStoreURL is returned when a URL does not address this store's bucket.
	ErrNotStoreURL = errors.New("mediastore: URL does not belong to this store")
)

// S3Config holds the configuration for S3-backed media storage.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
}

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements Store on top of an S3 bucket.
// Object keys are <namespace>/<uuid><ext> and public URLs use the bucket's
// virtual-hosted style address.
type S3Store struct {
	client s3API
	bucket string
	region string
}

// NewS3Store creates a new S3-backed media store.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}
	if cfg.Region == "" {
		return nil, ErrRegionRequired
	}

	var configOpts []func(*awsconfig.LoadOptions) error
	configOpts = append(configOpts, awsconfig.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("mediastore: load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// Upload copies a local file into the bucket under the namespace and returns
// its public URL.
func (s *S3Store) Upload(ctx context.Context, localPath, namespace string) (string, error) {
	f, err := os.Open(localPath) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return "", fmt.Errorf("mediastore: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	key := s.objectKey(localPath, namespace)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("mediastore: upload: %w", err)
	}

	return s.objectURL(key), nil
}

// Delete removes the object addressed by a URL returned from Upload.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("mediastore: delete: %w", err)
	}

	return nil
}

// objectKey builds a namespaced key, keeping the source file's extension.
func (s *S3Store) objectKey(localPath, namespace string) string {
	ext := filepath.Ext(localPath)
	return fmt.Sprintf("%s/%s%s", strings.Trim(namespace, "/"), uuid.NewString(), ext)
}

// objectURL returns the virtual-hosted style public URL for a key.
func (s *S3Store) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// keyFromURL reverses objectURL, rejecting URLs outside this bucket.
func (s *S3Store) keyFromURL(url string) (string, error) {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("%w: %s", ErrNotStoreURL, url)
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrNotStoreURL, url)
	}
	return key, nil
}

// Compile-time check that S3Store implements Store.
var _ Store = (*S3Store)(nil)
