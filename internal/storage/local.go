package storage

import (
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider writes objects below a directory that the HTTP server
// exposes under /uploads.
type LocalProvider struct {
	basePath string
	baseURL  string
	logger   *observability.Logger
}

// NewLocalProvider creates a new local filesystem provider instance
func NewLocalProvider(basePath, baseURL string, logger *observability.Logger) (*LocalProvider, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path is required for local provider")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}
	return &LocalProvider{basePath: basePath, baseURL: baseURL, logger: logger}, nil
}

func (p *LocalProvider) Name() string {
	return config.StorageProviderLocal
}

// BasePath is the directory served as static content.
func (p *LocalProvider) BasePath() string {
	return p.basePath
}

func (p *LocalProvider) fullPath(key string) (string, error) {
	full := filepath.Join(p.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(p.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return full, nil
}

// Upload writes body to a file under key
func (p *LocalProvider) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (Object, error) {
	full, err := p.fullPath(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(full)
	if err != nil {
		return Object{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, contextReader{ctx: ctx, r: body}); err != nil {
		os.Remove(full)
		return Object{}, fmt.Errorf("failed to write content: %w", err)
	}

	p.logger.Debug(ctx, "uploaded object to local filesystem", observability.Field{Key: "object_key", Value: key})
	return Object{Key: key, URL: publicURL(p.baseURL, key)}, nil
}

// Delete removes the file stored under key
func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	full, err := p.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
