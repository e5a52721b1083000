// Package attachments screens uploaded files against the per-role policy
// and stores the accepted ones in the configured object store.
package attachments

import (
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/storage"
	"baysawaar-server/internal/validation"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	RoleLogo             = "logo"
	RoleBusinessDocument = "businessDocument"
)

var (
	imageExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}
	imageMimeTypes  = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
)

// Config holds the intake limits.
type Config struct {
	MaxFileSize   int64
	MaxDocuments  int
	UploadTimeout time.Duration
}

// File is one candidate upload. Open may be called more than once.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Batch groups the accepted files of one role.
type Batch struct {
	Role  string
	Files []File
}

// Stored describes an uploaded object.
type Stored struct {
	Role        string
	Position    int
	Name        string
	URL         string
	StorageID   string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

// StorageError reports a failed or timed out upload, distinct from
// validation so callers can offer a retry.
type StorageError struct {
	Filename string
	Timeout  bool
	Err      error
}

func (e *StorageError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("upload of %q timed out: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("upload of %q failed: %v", e.Filename, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type Handler struct {
	provider storage.Provider
	cfg      Config
	logger   *observability.Logger
	now      func() time.Time
}

func New(provider storage.Provider, cfg Config, logger *observability.Logger) *Handler {
	return &Handler{provider: provider, cfg: cfg, logger: logger, now: time.Now}
}

// FieldName is the multipart field a role is submitted under.
func FieldName(role string) string {
	if role == RoleLogo {
		return "companyLogo"
	}
	return "businessDocuments"
}

// MaxFiles is the number of files accepted for a role.
func (h *Handler) MaxFiles(role string) int {
	if role == RoleLogo {
		return 1
	}
	return h.cfg.MaxDocuments
}

// Screen applies the role policy to each file independently. Valid files
// are kept, each invalid one yields a field error, and files beyond the
// role's count limit are dropped with one error describing the overflow.
func (h *Handler) Screen(role string, files []File) ([]File, []validation.FieldError) {
	field := FieldName(role)
	var accepted []File
	var errs []validation.FieldError

	for _, f := range files {
		if msg := h.rejectReason(role, f); msg != "" {
			errs = append(errs, validation.FieldError{Field: field, Message: fmt.Sprintf("%s: %s", f.Filename, msg)})
			continue
		}
		accepted = append(accepted, f)
	}

	if max := h.MaxFiles(role); len(accepted) > max {
		errs = append(errs, validation.FieldError{
			Field:   field,
			Message: fmt.Sprintf("at most %d file(s) allowed, %d ignored", max, len(accepted)-max),
		})
		accepted = accepted[:max]
	}
	return accepted, errs
}

func (h *Handler) rejectReason(role string, f File) string {
	if f.Size <= 0 {
		return "file is empty"
	}
	if f.Size > h.cfg.MaxFileSize {
		return fmt.Sprintf("file exceeds the %s limit", humanSize(h.cfg.MaxFileSize))
	}
	if role == RoleLogo && !isImage(f) {
		return "only JPG, JPEG, PNG, GIF and WEBP images are accepted"
	}
	return ""
}

func isImage(f File) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Filename)), ".")
	if imageExtensions[ext] {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	return imageMimeTypes[mediaType]
}

func humanSize(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}

// Upload stores every file of every batch under prefix, all within the
// configured upload timeout. On any failure the objects already stored by
// this call are removed before the error is returned.
func (h *Handler) Upload(ctx context.Context, prefix string, batches ...Batch) ([]Stored, error) {
	if h.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.UploadTimeout)
		defer cancel()
	}

	var stored []Stored
	for _, batch := range batches {
		for i, f := range batch.Files {
			s, err := h.uploadOne(ctx, prefix, batch.Role, i, f)
			if err != nil {
				h.Cleanup(observability.DetachedContext(ctx), storageIDs(stored))
				return nil, err
			}
			stored = append(stored, s)
		}
	}
	return stored, nil
}

func (h *Handler) uploadOne(ctx context.Context, prefix, role string, position int, f File) (Stored, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "attachment_role", Value: role},
		observability.Field{Key: "attachment_name", Value: f.Filename},
	)

	data, err := h.read(role, f)
	if err != nil {
		return Stored{}, err
	}

	name := SanitizeFilename(f.Filename)
	key := fmt.Sprintf("%s/%s/%d_%s", strings.TrimRight(prefix, "/"), role, position, name)
	contentType := mimetype.Detect(data).String()

	obj, err := h.provider.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		timeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
		result := "failed"
		if timeout {
			result = "timeout"
		}
		observability.RecordAttachmentUpload(role, result)
		h.logger.Error(ctx, "failed to store attachment", err)
		return Stored{}, &StorageError{Filename: f.Filename, Timeout: timeout, Err: err}
	}

	observability.RecordAttachmentUpload(role, "stored")
	return Stored{
		Role:        role,
		Position:    position,
		Name:        name,
		URL:         obj.URL,
		StorageID:   obj.Key,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  h.now().UTC(),
	}, nil
}

// read loads the file into memory, refusing content larger than the limit
// even when the declared size was smaller.
func (h *Handler) read(role string, f File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, &StorageError{Filename: f.Filename, Err: fmt.Errorf("failed to open upload: %w", err)}
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, h.cfg.MaxFileSize+1))
	if err != nil {
		return nil, &StorageError{Filename: f.Filename, Err: fmt.Errorf("failed to read upload: %w", err)}
	}
	if int64(len(data)) > h.cfg.MaxFileSize {
		return nil, &validation.Errors{Fields: []validation.FieldError{{
			Field:   FieldName(role),
			Message: fmt.Sprintf("%s: file exceeds the %s limit", f.Filename, humanSize(h.cfg.MaxFileSize)),
		}}}
	}
	return data, nil
}

// Cleanup removes stored objects. Failures are logged and otherwise ignored.
func (h *Handler) Cleanup(ctx context.Context, storageIDs []string) {
	for _, id := range storageIDs {
		if err := h.provider.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			h.logger.Error(observability.WithFields(ctx, observability.Field{Key: "storage_id", Value: id}),
				"failed to delete stored attachment", err)
		}
	}
}

func storageIDs(stored []Stored) []string {
	ids := make([]string, len(stored))
	for i, s := range stored {
		ids[i] = s.StorageID
	}
	return ids
}

// SanitizeFilename strips characters that are unsafe in object keys and
// bounds the base name length.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r < 0x20 || (r >= 0x7f && r <= 0x9f):
		case strings.ContainsRune(`<>:"/\|?*#%&{}$!'@+=`+"`", r), r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	sanitized := strings.Trim(strings.TrimSpace(b.String()), ".")
	if sanitized == "" {
		return "unnamed_file"
	}

	ext := filepath.Ext(sanitized)
	name := strings.TrimSuffix(sanitized, ext)
	const maxNameLength = 100
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name + ext
}
