// Package storage puts attachment bytes into a binary object store and
// returns stable public URLs for them.
package storage

import (
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrObjectNotFound = errors.New("object not found")

// Object identifies a stored blob. Key doubles as the storage id recorded
// with the enrollment and is what Delete expects.
type Object struct {
	Key string
	URL string
}

// Provider is implemented by every object store backend.
type Provider interface {
	Name() string
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg config.StorageConfig, logger *observability.Logger) (Provider, error) {
	switch cfg.Provider {
	case config.StorageProviderS3:
		return NewS3Provider(ctx, cfg, logger)
	case config.StorageProviderGCS:
		return NewGCSProvider(ctx, cfg, logger)
	case config.StorageProviderLocal:
		return NewLocalProvider(cfg.LocalBasePath, cfg.PublicBaseURL, logger)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
