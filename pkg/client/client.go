// Package client is a typed Go client for the BAY SA WAAR API. It keeps the
// signed-in session, attaches the bearer token to every call and clears the
// session as soon as the server rejects the token.
package client

import (
	"baysawaar-server/internal/store"
	"baysawaar-server/internal/validation"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTimeout       = 60 * time.Second
	DefaultUploadTimeout = 120 * time.Second

	loginPath         = "/api/auth/login"
	captchaHeaderName = "X-Captcha-Token"
)

var (
	ErrSessionExpired   = errors.New("session expired, please sign in again")
	ErrNotAuthenticated = errors.New("not signed in")
)

type (
	User       = store.User
	Enrollment = store.Enrollment
	Contact    = store.Contact
)

// Session holds the signed-in identity. It is only changed through Init and
// Clear, and is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
}

// Init stores a freshly issued token and the user it belongs to.
func (s *Session) Init(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
}

// Clear signs the session out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []validation.FieldError
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// HasFieldErrors reports whether the failure is attributed to form fields.
func (e *APIError) HasFieldErrors() bool {
	return len(e.Fields) > 0
}

type Client struct {
	baseURL       string
	httpClient    *http.Client
	session       *Session
	timeout       time.Duration
	uploadTimeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeouts overrides the per call budgets for JSON and multipart calls.
func WithTimeouts(timeout, uploadTimeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
		c.uploadTimeout = uploadTimeout
	}
}

// New creates a client for the API at baseURL. A nil session starts signed out.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = &Session{}
	}
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		session:       session,
		timeout:       DefaultTimeout,
		uploadTimeout: DefaultUploadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

// Signup creates an account. It does not sign in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Login authenticates and initializes the session.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, loginPath, body, &resp); err != nil {
		return User{}, err
	}
	c.session.Init(resp.Token, resp.User)
	return resp.User, nil
}

func (c *Client) Logout() {
	c.session.Clear()
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Upload is one file to send with an enrollment.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// EnrollmentSubmission is the multipart body of an enrollment.
type EnrollmentSubmission struct {
	Fields    validation.Payload
	Logo      *Upload
	Documents []Upload

	// CaptchaToken is required when the server has a captcha configured.
	CaptchaToken string
}

func (c *Client) SubmitEnrollment(ctx context.Context, sub EnrollmentSubmission) (Enrollment, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range sub.Fields {
		if err := mw.WriteField(name, value); err != nil {
			return Enrollment{}, fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	if sub.Logo != nil {
		if err := writeFile(mw, "companyLogo", *sub.Logo); err != nil {
			return Enrollment{}, err
		}
	}
	for _, doc := range sub.Documents {
		if err := writeFile(mw, "businessDocuments", doc); err != nil {
			return Enrollment{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return Enrollment{}, fmt.Errorf("failed to close multipart body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	var resp struct {
		Enrollment Enrollment `json:"enrollment"`
	}
	header := captchaHeader(sub.CaptchaToken)
	header.Set("Content-Type", mw.FormDataContentType())
	if err := c.do(ctx, http.MethodPost, "/api/enrollments/submit", header, &body, &resp); err != nil {
		return Enrollment{}, err
	}
	return resp.Enrollment, nil
}

func writeFile(mw *multipart.Writer, field string, f Upload) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Filename))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create part for %s: %w", f.Filename, err)
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Filename, err)
	}
	return nil
}

func (c *Client) MyEnrollments(ctx context.Context) ([]Enrollment, error) {
	var resp struct {
		Enrollments []Enrollment `json:"enrollments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/enrollments/my-status", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Enrollments, nil
}

func (c *Client) GetEnrollment(ctx context.Context, id uuid.UUID) (Enrollment, error) {
	var resp struct {
		Enrollment Enrollment `json:"enrollment"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/enrollments/"+id.String(), nil, &resp); err != nil {
		return Enrollment{}, err
	}
	return resp.Enrollment, nil
}

type ListEnrollmentsQuery struct {
	Status   string
	Type     string
	Priority string
	Page     int
	Limit    int
}

type EnrollmentList struct {
	Enrollments []Enrollment `json:"enrollments"`
	TotalCount  int          `json:"totalCount"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
	TotalPages  int          `json:"totalPages"`
}

func (c *Client) ListEnrollments(ctx context.Context, q ListEnrollmentsQuery) (EnrollmentList, error) {
	values := url.Values{}
	setIfNotEmpty(values, "status", q.Status)
	setIfNotEmpty(values, "type", q.Type)
	setIfNotEmpty(values, "priority", q.Priority)
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/api/admin/enrollments"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp EnrollmentList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return EnrollmentList{}, err
	}
	return resp, nil
}

func setIfNotEmpty(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

type UpdateEnrollmentRequest struct {
	Status             string     `json:"status"`
	Notes              string     `json:"notes,omitempty"`
	ReviewNotes        *string    `json:"reviewNotes,omitempty"`
	RejectionReason    *string    `json:"rejectionReason,omitempty"`
	ApprovalConditions []string   `json:"approvalConditions,omitempty"`
	Priority           *string    `json:"priority,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
	FollowUpDate       *time.Time `json:"followUpDate,omitempty"`
}

func (c *Client) UpdateEnrollment(ctx context.Context, id uuid.UUID, req UpdateEnrollmentRequest) (Enrollment, error) {
	var resp struct {
		Enrollment Enrollment `json:"enrollment"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/enrollments/"+id.String(), req, &resp); err != nil {
		return Enrollment{}, err
	}
	return resp.Enrollment, nil
}

func (c *Client) DeleteEnrollment(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/admin/enrollments/"+id.String(), nil, nil)
}

type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category"`

	CaptchaToken string `json:"-"`
}

// ContactReceipt identifies a stored contact message.
type ContactReceipt struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func (c *Client) SubmitContact(ctx context.Context, req ContactRequest) (ContactReceipt, error) {
	var resp struct {
		Contact ContactReceipt `json:"contact"`
	}
	if err := c.doJSONWithHeader(ctx, http.MethodPost, "/api/contacts/submit", captchaHeader(req.CaptchaToken), req, &resp); err != nil {
		return ContactReceipt{}, err
	}
	return resp.Contact, nil
}

func captchaHeader(token string) http.Header {
	header := http.Header{}
	if token != "" {
		header.Set(captchaHeaderName, token)
	}
	return header
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	return c.doJSONWithHeader(ctx, method, path, http.Header{}, in, out)
}

func (c *Client) doJSONWithHeader(ctx context.Context, method, path string, header http.Header, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
		header.Set("Content-Type", "application/json")
	}
	return c.do(ctx, method, path, header, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for key, values := range header {
		req.Header[key] = values
	}
	req.Header.Set("Accept", "application/json")
	token := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		// a rejected login is a credentials error, not an expired session
		if resp.StatusCode == http.StatusUnauthorized && path != loginPath {
			if token != "" {
				c.session.Clear()
				return fmt.Errorf("%w: %w", ErrSessionExpired, apiErr)
			}
			return fmt.Errorf("%w: %w", ErrNotAuthenticated, apiErr)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) *APIError {
	var body struct {
		Error  string                  `json:"error"`
		Code   string                  `json:"code"`
		Errors []validation.FieldError `json:"errors"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
		apiErr.Fields = body.Errors
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
