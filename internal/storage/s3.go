package storage

import (
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/observability"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider stores objects in AWS S3 or an S3-compatible endpoint
type S3Provider struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
	logger   *observability.Logger
}

// NewS3Provider creates a new S3 provider instance
func NewS3Provider(ctx context.Context, cfg config.StorageConfig, logger *observability.Logger) (*S3Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Override with static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Provider{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		baseURL:  baseURL,
		logger:   logger,
	}, nil
}

func (p *S3Provider) Name() string {
	return config.StorageProviderS3
}

// Upload streams body to the bucket under key
func (p *S3Provider) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (Object, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "bucket", Value: p.bucket},
		observability.Field{Key: "object_key", Value: key},
	)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := p.uploader.Upload(ctx, input); err != nil {
		p.logger.Error(ctx, "failed to upload to S3", err)
		return Object{}, fmt.Errorf("failed to upload to S3: %w", err)
	}

	p.logger.Debug(ctx, "uploaded object to S3")
	return Object{Key: key, URL: publicURL(p.baseURL, key)}, nil
}

// Delete removes the object stored under key
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
