package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/polkiloo/bloomorders/internal/config"
)

// S3API is the subset of the S3 client used for photo uploads.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store keeps order photos in a public bucket.
type Store struct {
	client    S3API
	bucket    string
	publicURL string
	now       func() time.Time
	newID     func() string
}

// New creates Store on top of client. Links are built from cfg.PublicURL,
// or from the endpoint and bucket when no public URL is configured.
func New(client S3API, cfg config.StorageConfig) *Store {
	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBase(cfg),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Upload stores data under a fresh key and returns that key.
func (s *Store) Upload(ctx context.Context, data []byte, suggestedName, contentType string) (string, error) {
	key := s.objectKey(suggestedName)
	input := &s3.PutObjectInput{
		Bucket:        sdkaws.String(s.bucket),
		Key:           sdkaws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: sdkaws.Int64(int64(len(data))),
		CacheControl:  sdkaws.String("max-age=3600"),
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// PublicURL returns the link under which key is served.
func (s *Store) PublicURL(key string) string {
	return s.publicURL + "/" + strings.TrimPrefix(key, "/")
}

// objectKey is "<unix millis>-<random>.<ext>" with ext taken from name.
func (s *Store) objectKey(name string) string {
	ext := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = name[i+1:]
	}
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.ContainsAny(ext, "/\\ ") {
		ext = "bin"
	}
	id := strings.ReplaceAll(s.newID(), "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), id, ext)
}

func publicBase(cfg config.StorageConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
