package media

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/rental-market/internal/models"
)

// S3Config configures an S3-compatible asset store.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the base of returned urls, e.g. a CDN origin.
	PublicURL string
}

// S3Store keeps media in an S3-compatible bucket.
type S3Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  logrus.FieldLogger
}

// NewS3Store connects to the bucket, creating it if missing.
func NewS3Store(ctx context.Context, cfg S3Config, logger logrus.FieldLogger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", cfg.Bucket, err)
		}
		logger.WithField("bucket", cfg.Bucket).Info("Bucket created")
	}

	base := strings.TrimSuffix(cfg.PublicURL, "/")
	if base == "" {
		base = client.EndpointURL().String()
	}
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: base + "/" + cfg.Bucket + "/",
		logger:  logger,
	}, nil
}

// Put uploads data under <kind>s/<uuid><ext>.
func (s *S3Store) Put(ctx context.Context, data []byte, kind models.MediaKind) (string, error) {
	contentType := detectContentType(data, kind)
	key := objectKey(kind, contentType)

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": info.Bucket,
		"key":    info.Key,
		"size":   info.Size,
	}).Debug("Object uploaded")
	return s.baseURL + key, nil
}

// Remove deletes the object behind url.
func (s *S3Store) Remove(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || key == "" {
		return fmt.Errorf("url %q does not belong to bucket %s", url, s.bucket)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

func objectKey(kind models.MediaKind, contentType string) string {
	return fmt.Sprintf("%ss/%s%s", kind, uuid.New().String(), extensionFor(contentType, kind))
}

// detectContentType sniffs data, falling back to a generic type for kind.
func detectContentType(data []byte, kind models.MediaKind) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, string(kind)+"/") {
		return ct
	}
	if kind == models.MediaVideo {
		return "video/mp4"
	}
	if ct == "application/octet-stream" || strings.HasPrefix(ct, "text/") {
		return "image/jpeg"
	}
	return ct
}

func extensionFor(contentType string, kind models.MediaKind) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	if kind == models.MediaVideo {
		return ".mp4"
	}
	return ".bin"
}
