// Package storage handles meme image blobs in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/setup/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted meme image in bytes.
const MaxImageSize = 5 << 20

var (
	ErrImageTooLarge    = errors.New("image exceeds the maximum allowed size")
	ErrInvalidImageType = errors.New("unsupported image content type")
)

// imageExtensions maps accepted content types to object key extensions.
var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Client handles meme image storage using the MinIO S3 client.
type Client struct {
	client        *minio.Client
	bucketName    string
	publicBaseURL string
	logger        *zap.Logger
}

// NewClient creates a new storage client from configuration.
func NewClient(cfg *config.Storage, logger *zap.Logger) (*Client, error) {
	// Clean endpoint URL
	endpoint := strings.TrimPrefix(cfg.Endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &Client{
		client:        client,
		bucketName:    cfg.BucketName,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:        logger.Named("storage"),
	}, nil
}

// ValidateImage checks an upload's declared content type and size against
// the accepted image formats and the size cap.
func ValidateImage(contentType string, size int64) error {
	if size > MaxImageSize {
		return fmt.Errorf("%w: %d bytes", ErrImageTooLarge, size)
	}

	if _, ok := imageExtensions[contentType]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidImageType, contentType)
	}

	return nil
}

// UploadMeme validates and stores a meme image, returning the object key and
// the public URL it will be served from.
func (c *Client) UploadMeme(
	ctx context.Context, userID uuid.UUID, contentType string, data []byte,
) (string, string, error) {
	if err := ValidateImage(contentType, int64(len(data))); err != nil {
		return "", "", err
	}

	key := ObjectKey(userID, contentType, time.Now())

	_, err := c.client.PutObject(ctx, c.bucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	c.logger.Debug("Uploaded meme image",
		zap.String("key", key),
		zap.Int("bytes", len(data)))

	return key, c.PublicURL(key), nil
}

// Delete removes a meme image. Missing objects are not an error so meme
// deletion stays idempotent.
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	err := c.client.RemoveObject(ctx, c.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	return nil
}

// PublicURL returns the URL an object is publicly served from.
func (c *Client) PublicURL(key string) string {
	return c.publicBaseURL + "/" + key
}

// ObjectKey builds the storage key for a meme image.
func ObjectKey(userID uuid.UUID, contentType string, now time.Time) string {
	return fmt.Sprintf("memes/%s-%d.%s", userID, now.UnixNano(), imageExtensions[contentType])
}
