package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/gavelworks/auction-backend/internal/config"
)

// ObjectStore is the object-storage capability the lifecycle services consume:
// issue a presigned upload URL for a fresh key, delete an object by key.
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string, size int64, checksum string) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3Store implements ObjectStore against an S3 bucket.
type S3Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	expiry    time.Duration
}

func NewS3Store(cfg *appconfig.Config) *S3Store {
	client := s3.New(s3.Options{
		Region: cfg.AWSRegion,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "",
		)),
	})
	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.S3Bucket,
		expiry:    cfg.UploadURLExpiry,
	}
}

func (s *S3Store) PresignUpload(ctx context.Context, key, contentType string, size int64, checksum string) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:         aws.String(s.bucket),
		Key:            aws.String(key),
		ContentType:    aws.String(contentType),
		ContentLength:  aws.Int64(size),
		ChecksumSHA256: aws.String(checksum),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// NewObjectKey returns a random hex object key.
func NewObjectKey() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// KeyFromURL recovers the object key from a stored public or presigned URL.
func KeyFromURL(url string) string {
	trimmed := url
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// PublicURL strips the presigned query string, leaving the object's stable URL.
func PublicURL(presignedURL string) string {
	if i := strings.IndexByte(presignedURL, '?'); i >= 0 {
		return presignedURL[:i]
	}
	return presignedURL
}
