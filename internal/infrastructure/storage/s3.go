package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultPresignTTL = 15 * time.Minute

// Config captures the settings for the S3-backed media store.
type Config struct {
	Bucket     string
	Region     string
	PresignTTL time.Duration
}

// S3Store issues presigned upload and download URLs for media keys. Blobs
// move directly between clients and the bucket; they never pass through the
// API process.
type S3Store struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// New creates an S3Store using the ambient AWS credential chain.
func New(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	return &S3Store{
		presign: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		bucket:  cfg.Bucket,
		ttl:     ttl,
	}, nil
}

// UploadURL returns a time-limited PUT URL for the key.
func (s *S3Store) UploadURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, nil
}

// DownloadURL returns a time-limited GET URL for the key.
func (s *S3Store) DownloadURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return req.URL, nil
}
