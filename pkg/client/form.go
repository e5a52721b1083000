package client

import (
	"baysawaar-server/internal/validation"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

type FormState string

const (
	StateIdle       FormState = "idle"
	StateSubmitting FormState = "submitting"
	StateSuccess    FormState = "success"
	StateError      FormState = "error"
)

const (
	codeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	codeCaptchaFailed        = "CAPTCHA_FAILED"
)

// MaxDocuments mirrors the server's default business document limit.
const MaxDocuments = 5

var (
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrAlreadySubmitted = errors.New("form was already submitted")
)

var (
	logoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	logoMimeTypes  = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

// Field is one input of an enrollment form.
type Field struct {
	Name     string
	Required bool
}

// Fields lists the inputs of the form for an enrollment type, in display
// order. The result depends on the type alone.
func Fields(enrollmentType string) []Field {
	required := map[string]bool{}
	for _, name := range validation.RequiredEnrollmentFields(enrollmentType) {
		required[name] = true
	}

	rules := validation.EnrollmentRules(enrollmentType)
	fields := make([]Field, 0, len(rules.Fields))
	for _, f := range rules.Fields {
		fields = append(fields, Field{Name: f.Name, Required: required[f.Name]})
	}
	return fields
}

// Prevalidate runs the shared enrollment rules against payload. It only
// saves a round trip; the server validates again regardless.
func Prevalidate(payload validation.Payload) []validation.FieldError {
	err := validation.EnrollmentRules(payload["type"]).Validate(payload)
	if verrs, ok := validation.AsErrors(err); ok {
		return verrs.Fields
	}
	return nil
}

// Form drives one enrollment form through idle, submitting, success and
// error. Any edit made while in error returns the form to idle.
type Form struct {
	mu        sync.Mutex
	client    *Client
	values    validation.Payload
	logo      *Upload
	documents []Upload
	captcha   string

	state       FormState
	fieldErrors []validation.FieldError
	banner      string
	result      *Enrollment
}

func NewForm(client *Client, enrollmentType string) *Form {
	return &Form{
		client: client,
		values: validation.Payload{"type": enrollmentType},
		state:  StateIdle,
	}
}

func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Type returns the selected enrollment type.
func (f *Form) Type() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values["type"]
}

// Fields lists the inputs to render for the selected type.
func (f *Form) Fields() []Field {
	return Fields(f.Type())
}

// FieldErrors returns the errors to show next to individual inputs.
func (f *Form) FieldErrors() []validation.FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]validation.FieldError(nil), f.fieldErrors...)
}

// Banner returns the submission level message, empty when there is none.
func (f *Form) Banner() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

// Result returns the created enrollment after a successful submit.
func (f *Form) Result() (Enrollment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return Enrollment{}, false
	}
	return *f.result, true
}

// Set changes one field value.
func (f *Form) Set(name, value string) error {
	return f.edit(func() { f.values[name] = value })
}

// SelectType switches the type tab. Values of fields the new type does not
// use are kept but not sent.
func (f *Form) SelectType(enrollmentType string) error {
	return f.edit(func() { f.values["type"] = enrollmentType })
}

// SetCaptchaToken stores the token issued by the captcha widget.
func (f *Form) SetCaptchaToken(token string) error {
	return f.edit(func() { f.captcha = token })
}

func (f *Form) AttachLogo(upload Upload) error {
	return f.edit(func() { f.logo = &upload })
}

func (f *Form) AttachDocument(upload Upload) error {
	return f.edit(func() { f.documents = append(f.documents, upload) })
}

func (f *Form) edit(apply func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateSubmitting:
		return ErrSubmitInProgress
	case StateSuccess:
		return ErrAlreadySubmitted
	case StateError:
		f.state = StateIdle
		f.fieldErrors = nil
		f.banner = ""
	}
	apply()
	return nil
}

// Submit prevalidates and sends the form. Field level problems end up in
// FieldErrors, everything else in Banner.
func (f *Form) Submit(ctx context.Context) (Enrollment, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return Enrollment{}, ErrSubmitInProgress
	case StateSuccess:
		f.mu.Unlock()
		return Enrollment{}, ErrAlreadySubmitted
	}

	payload := f.payload()
	local := append(Prevalidate(payload), f.attachmentErrors()...)
	if len(local) > 0 {
		f.state = StateError
		f.fieldErrors = local
		f.banner = ""
		f.mu.Unlock()
		return Enrollment{}, &validation.Errors{Fields: local}
	}

	sub := EnrollmentSubmission{
		Fields:       payload,
		Logo:         f.logo,
		Documents:    append([]Upload(nil), f.documents...),
		CaptchaToken: f.captcha,
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	enrollment, err := f.client.SubmitEnrollment(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateError
		f.fieldErrors, f.banner = classify(err)
		return Enrollment{}, err
	}
	f.state = StateSuccess
	f.result = &enrollment
	return enrollment, nil
}

// payload keeps only the fields of the selected type. Caller holds f.mu.
func (f *Form) payload() validation.Payload {
	out := validation.Payload{}
	for _, field := range Fields(f.values["type"]) {
		if v, ok := f.values[field.Name]; ok && v != "" {
			out[field.Name] = v
		}
	}
	return out
}

// Caller holds f.mu.
func (f *Form) attachmentErrors() []validation.FieldError {
	var out []validation.FieldError
	if f.logo != nil && !isLogoImage(*f.logo) {
		out = append(out, validation.FieldError{
			Field:   "companyLogo",
			Message: "Logo must be a jpg, jpeg, png, gif or webp image",
		})
	}
	if len(f.documents) > MaxDocuments {
		out = append(out, validation.FieldError{
			Field:   "businessDocuments",
			Message: fmt.Sprintf("You can upload at most %d documents", MaxDocuments),
		})
	}
	return out
}

// isLogoImage accepts a known image extension or a declared image type,
// like the server does.
func isLogoImage(u Upload) bool {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(u.ContentType, ";", 2)[0]))
	return slices.Contains(logoExtensions, ext) || slices.Contains(logoMimeTypes, mediaType)
}

// classify splits a submit failure into inline field errors or a banner.
func classify(err error) ([]validation.FieldError, string) {
	if errors.Is(err, ErrSessionExpired) {
		return nil, "Your session has expired. Please sign in again."
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, "The upload took too long. Please try again."
		}
		return nil, "We could not reach the server. Please check your connection and try again."
	}
	if apiErr.HasFieldErrors() {
		return apiErr.Fields, ""
	}

	switch apiErr.StatusCode {
	case http.StatusConflict:
		if apiErr.Code == codeSubmissionInProgress {
			return nil, "This application is already being submitted. Please wait a moment and check your application status."
		}
		return nil, "An application with this email is already pending for this type. Use a different email or check your application status."
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return nil, "Your files could not be uploaded. Please retry the upload."
	case http.StatusTooManyRequests:
		return nil, "Too many submissions. Please wait a minute and try again."
	case http.StatusForbidden:
		if apiErr.Code == codeCaptchaFailed {
			return nil, "We could not verify you are human. Please complete the challenge again."
		}
	case http.StatusRequestEntityTooLarge:
		return nil, "Your files are too large. Please upload smaller files."
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		return nil, "Something went wrong on our side. Please try again later."
	}
	return nil, apiErr.Message
}
