// Package storage keeps raw payment provider notifications in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	paymentapp "github.com/napsterimports/backend/internal/application/payment"
	infraconfig "github.com/napsterimports/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ paymentapp.PayloadArchive = (*S3WebhookArchive)(nil)

// S3WebhookArchive writes each webhook body as one object under
// <prefix>/<provider>/<yyyy>/<mm>/<dd>/.
// It is compatible with any S3-compatible storage (AWS S3, MinIO, RustFS, etc.)
type S3WebhookArchive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

// S3WebhookArchiveOption is a functional option for configuring S3WebhookArchive
type S3WebhookArchiveOption func(*S3WebhookArchive)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3WebhookArchiveOption {
	return func(s *S3WebhookArchive) {
		s.logger = logger
	}
}

// WithClock sets the time source used in object keys
func WithClock(now func() time.Time) S3WebhookArchiveOption {
	return func(s *S3WebhookArchive) {
		s.now = now
	}
}

// NewS3WebhookArchive creates an archive from configuration
func NewS3WebhookArchive(cfg *infraconfig.StorageConfig, opts ...S3WebhookArchiveOption) (*S3WebhookArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	archive := &S3WebhookArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(archive)
	}
	return archive, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup.
func (s *S3WebhookArchive) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating webhook archive bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Archive stores payload as a new object
func (s *S3WebhookArchive) Archive(ctx context.Context, provider string, payload []byte) error {
	key := s.ObjectKey(provider)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive webhook payload: %w", err)
	}
	s.logger.Debug("Archived webhook payload",
		zap.String("provider", provider),
		zap.String("key", key),
		zap.Int("size", len(payload)))
	return nil
}

// ObjectKey returns a fresh, unique key for a payload received now
func (s *S3WebhookArchive) ObjectKey(provider string) string {
	now := s.now().UTC()
	name := now.Format("150405.000000") + "-" + uuid.NewString() + ".json"
	return path.Join(s.prefix, sanitizeSegment(provider), now.Format("2006/01/02"), name)
}

// Bucket returns the bucket name
func (s *S3WebhookArchive) Bucket() string {
	return s.bucket
}

func sanitizeSegment(seg string) string {
	seg = strings.ToLower(strings.TrimSpace(seg))
	seg = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, seg)
	if seg == "" {
		return "unknown"
	}
	return seg
}
