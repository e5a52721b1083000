package storage

import (
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/observability"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	p, err := NewLocalProvider(dir, "http://localhost:8080/uploads/", observability.NewLogger())
	require.NoError(t, err)

	obj, err := p.Upload(context.Background(), "enrollments/abc/logo/0_logo.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "enrollments/abc/logo/0_logo.png", obj.Key)
	assert.Equal(t, "http://localhost:8080/uploads/enrollments/abc/logo/0_logo.png", obj.URL)

	content, err := os.ReadFile(filepath.Join(dir, "enrollments", "abc", "logo", "0_logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	require.NoError(t, p.Delete(context.Background(), obj.Key))
	assert.ErrorIs(t, p.Delete(context.Background(), obj.Key), ErrObjectNotFound)
}

func TestLocalProvider_RejectsEscapingKeys(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir(), "http://localhost/uploads", observability.NewLogger())
	require.NoError(t, err)

	_, err = p.Upload(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}

func TestLocalProvider_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	p, err := NewLocalProvider(dir, "http://localhost/uploads", observability.NewLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Upload(ctx, "a/b.txt", strings.NewReader("data"), 4, "text/plain")
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(dir, "a", "b.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNew_SelectsProvider(t *testing.T) {
	p, err := New(context.Background(), config.StorageConfig{
		Provider:      config.StorageProviderLocal,
		LocalBasePath: t.TempDir(),
		PublicBaseURL: "http://localhost/uploads",
	}, observability.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, config.StorageProviderLocal, p.Name())

	_, err = New(context.Background(), config.StorageConfig{Provider: "ftp"}, observability.NewLogger())
	assert.Error(t, err)
}
