package storage

import (
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSProvider stores objects in Google Cloud Storage
type GCSProvider struct {
	client  *gcs.Client
	bucket  string
	baseURL string
	logger  *observability.Logger
}

// NewGCSProvider creates a new Google Cloud Storage provider instance
func NewGCSProvider(ctx context.Context, cfg config.StorageConfig, logger *observability.Logger) (*GCSProvider, error) {
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	} else if cfg.GCSCredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GCSCredentialsJSON)))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://storage.googleapis.com/%s", cfg.Bucket)
	}

	return &GCSProvider{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

func (p *GCSProvider) Name() string {
	return config.StorageProviderGCS
}

// Upload copies body into the bucket under key
func (p *GCSProvider) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (Object, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "bucket", Value: p.bucket},
		observability.Field{Key: "object_key", Value: key},
	)

	writer := p.client.Bucket(p.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, body); err != nil {
		writer.Close()
		p.logger.Error(ctx, "failed to upload to GCS", err)
		return Object{}, fmt.Errorf("failed to upload to GCS: %w", err)
	}

	// Close finalizes the upload
	if err := writer.Close(); err != nil {
		p.logger.Error(ctx, "failed to finalize GCS upload", err)
		return Object{}, fmt.Errorf("failed to finalize GCS upload: %w", err)
	}

	p.logger.Debug(ctx, "uploaded object to GCS")
	return Object{Key: key, URL: publicURL(p.baseURL, key)}, nil
}

// Delete removes the object stored under key
func (p *GCSProvider) Delete(ctx context.Context, key string) error {
	err := p.client.Bucket(p.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete from GCS: %w", err)
	}
	return nil
}

func (p *GCSProvider) Close() error {
	return p.client.Close()
}
