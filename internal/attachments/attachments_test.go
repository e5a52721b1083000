package attachments

import (
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/storage"
	"baysawaar-server/internal/validation"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fiveMB = 5 * 1024 * 1024

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func memFile(name, contentType string, data []byte) File {
	return File{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(string(data))), nil
		},
	}
}

func sizedFile(name, contentType string, size int64) File {
	f := memFile(name, contentType, []byte("x"))
	f.Size = size
	return f
}

func newLocalHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := storage.NewLocalProvider(dir, "http://localhost:8080/uploads", observability.NewLogger())
	require.NoError(t, err)
	return New(p, Config{MaxFileSize: fiveMB, MaxDocuments: 5, UploadTimeout: time.Minute}, observability.NewLogger()), dir
}

// failingProvider stores objects in memory and fails the n-th upload.
type failingProvider struct {
	mu      sync.Mutex
	failAt  int
	failErr error
	calls   int
	objects map[string]bool
	deleted []string
}

func (p *failingProvider) Name() string { return "fake" }

func (p *failingProvider) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (storage.Object, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls == p.failAt {
		return storage.Object{}, p.failErr
	}
	if p.objects == nil {
		p.objects = map[string]bool{}
	}
	p.objects[key] = true
	return storage.Object{Key: key, URL: "https://cdn.example.com/" + key}, nil
}

func (p *failingProvider) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, key)
	delete(p.objects, key)
	return nil
}

func TestScreen_Logo(t *testing.T) {
	h, _ := newLocalHandler(t)

	tests := []struct {
		name     string
		file     File
		accepted bool
	}{
		{name: "png by extension", file: sizedFile("logo.PNG", "application/octet-stream", 1024), accepted: true},
		{name: "webp by extension", file: sizedFile("logo.webp", "", 1024), accepted: true},
		{name: "jpeg by mime only", file: sizedFile("logo", "image/jpeg", 1024), accepted: true},
		{name: "gif mime with params", file: sizedFile("logo.bin", "image/gif; charset=binary", 1024), accepted: true},
		{name: "pdf rejected", file: sizedFile("logo.pdf", "application/pdf", 1024), accepted: false},
		{name: "svg rejected", file: sizedFile("logo.svg", "image/svg+xml", 1024), accepted: false},
		{name: "oversized image rejected", file: sizedFile("logo.png", "image/png", fiveMB+1), accepted: false},
		{name: "exactly the limit accepted", file: sizedFile("logo.png", "image/png", fiveMB), accepted: true},
		{name: "empty rejected", file: sizedFile("logo.png", "image/png", 0), accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, errs := h.Screen(RoleLogo, []File{tt.file})
			if tt.accepted {
				assert.Len(t, accepted, 1)
				assert.Empty(t, errs)
				return
			}
			assert.Empty(t, accepted)
			require.Len(t, errs, 1)
			assert.Equal(t, "companyLogo", errs[0].Field)
			assert.Contains(t, errs[0].Message, tt.file.Filename)
		})
	}
}

func TestScreen_LogoKeepsOnlyOne(t *testing.T) {
	h, _ := newLocalHandler(t)

	accepted, errs := h.Screen(RoleLogo, []File{
		sizedFile("a.png", "image/png", 10),
		sizedFile("b.png", "image/png", 10),
	})
	require.Len(t, accepted, 1)
	assert.Equal(t, "a.png", accepted[0].Filename)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "at most 1")
}

func TestScreen_BusinessDocuments(t *testing.T) {
	h, _ := newLocalHandler(t)

	files := []File{
		sizedFile("registration.pdf", "application/pdf", 2048),
		sizedFile("huge.zip", "application/zip", fiveMB+1),
		sizedFile("tax.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 4096),
		sizedFile("scan.png", "image/png", 1024),
	}

	accepted, errs := h.Screen(RoleBusinessDocument, files)
	require.Len(t, accepted, 3)
	assert.Equal(t, "registration.pdf", accepted[0].Filename)
	assert.Equal(t, "tax.docx", accepted[1].Filename)
	assert.Equal(t, "scan.png", accepted[2].Filename)
	require.Len(t, errs, 1)
	assert.Equal(t, "businessDocuments", errs[0].Field)
	assert.Contains(t, errs[0].Message, "huge.zip")
	assert.Contains(t, errs[0].Message, "5 MB")
}

func TestScreen_BusinessDocumentsOverflow(t *testing.T) {
	h, _ := newLocalHandler(t)

	var files []File
	for i := 0; i < 7; i++ {
		files = append(files, sizedFile("doc.pdf", "application/pdf", 100))
	}

	accepted, errs := h.Screen(RoleBusinessDocument, files)
	assert.Len(t, accepted, 5)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "2 ignored")
}

func TestUpload_StoresUnderEnrollmentPrefix(t *testing.T) {
	h, dir := newLocalHandler(t)

	logo := memFile("My Logo.png", "image/png", pngHeader)
	docs := []File{
		memFile("statuts.pdf", "application/pdf", []byte("%PDF-1.4 test")),
		memFile("kbis.pdf", "application/pdf", []byte("%PDF-1.4 other")),
	}

	stored, err := h.Upload(context.Background(), "enrollments/123",
		Batch{Role: RoleLogo, Files: []File{logo}},
		Batch{Role: RoleBusinessDocument, Files: docs},
	)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	assert.Equal(t, RoleLogo, stored[0].Role)
	assert.Equal(t, "enrollments/123/logo/0_My_Logo.png", stored[0].StorageID)
	assert.Equal(t, "http://localhost:8080/uploads/enrollments/123/logo/0_My_Logo.png", stored[0].URL)
	assert.Equal(t, "image/png", stored[0].ContentType)

	assert.Equal(t, RoleBusinessDocument, stored[1].Role)
	assert.Equal(t, 0, stored[1].Position)
	assert.Equal(t, "enrollments/123/businessDocument/1_kbis.pdf", stored[2].StorageID)
	assert.Equal(t, 1, stored[2].Position)
	assert.Equal(t, "application/pdf", stored[1].ContentType)

	for _, s := range stored {
		_, statErr := os.Stat(filepath.Join(dir, filepath.FromSlash(s.StorageID)))
		assert.NoError(t, statErr)
		assert.False(t, s.UploadedAt.IsZero())
	}
}

func TestUpload_FailureRemovesStoredObjects(t *testing.T) {
	provider := &failingProvider{failAt: 3, failErr: errors.New("connection reset")}
	h := New(provider, Config{MaxFileSize: fiveMB, MaxDocuments: 5, UploadTimeout: time.Minute}, observability.NewLogger())

	_, err := h.Upload(context.Background(), "enrollments/1",
		Batch{Role: RoleLogo, Files: []File{memFile("l.png", "image/png", pngHeader)}},
		Batch{Role: RoleBusinessDocument, Files: []File{
			memFile("a.pdf", "application/pdf", []byte("a")),
			memFile("b.pdf", "application/pdf", []byte("b")),
		}},
	)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.False(t, storageErr.Timeout)
	assert.Equal(t, "b.pdf", storageErr.Filename)
	assert.ElementsMatch(t, []string{"enrollments/1/logo/0_l.png", "enrollments/1/businessDocument/0_a.pdf"}, provider.deleted)
	assert.Empty(t, provider.objects)
}

func TestUpload_TimeoutIsReported(t *testing.T) {
	provider := &failingProvider{failAt: 1, failErr: context.DeadlineExceeded}
	h := New(provider, Config{MaxFileSize: fiveMB, MaxDocuments: 5, UploadTimeout: time.Minute}, observability.NewLogger())

	_, err := h.Upload(context.Background(), "enrollments/1",
		Batch{Role: RoleBusinessDocument, Files: []File{memFile("a.pdf", "application/pdf", []byte("a"))}},
	)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.True(t, storageErr.Timeout)
}

func TestUpload_ContentLargerThanDeclared(t *testing.T) {
	provider := &failingProvider{}
	h := New(provider, Config{MaxFileSize: 8, MaxDocuments: 5, UploadTimeout: time.Minute}, observability.NewLogger())

	f := memFile("a.pdf", "application/pdf", []byte("0123456789"))
	f.Size = 4

	_, err := h.Upload(context.Background(), "enrollments/1", Batch{Role: RoleBusinessDocument, Files: []File{f}})

	verrs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("businessDocuments"))
	assert.Zero(t, provider.calls)
}

func TestCleanup_IgnoresMissingObjects(t *testing.T) {
	h, _ := newLocalHandler(t)
	h.Cleanup(context.Background(), []string{"enrollments/none/logo/0_missing.png"})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "report.pdf", want: "report.pdf"},
		{in: "my file?.pdf", want: "my_file_.pdf"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `C:\Users\me\logo.png`, want: "logo.png"},
		{in: "name\x00with\x1fcontrol.txt", want: "namewithcontrol.txt"},
		{in: "...", want: "unnamed_file"},
		{in: "", want: "unnamed_file"},
		{in: strings.Repeat("a", 150) + ".pdf", want: strings.Repeat("a", 100) + ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
