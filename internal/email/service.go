package email

import (
	"baysawaar-server/internal/clients/mail"
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/store"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"
)

var (
	ErrSendingEmail  = errors.New("error sending email")
	ErrEmptyTemplate = errors.New("email template is empty")
	ErrNoRecipient   = errors.New("email has no recipient")
)

const sendTimeout = 30 * time.Second

const (
	templateEnrollmentReceived = "enrollment_received"
	templateEnrollmentReview   = "enrollment_review"
	templateStatusChanged      = "enrollment_status_changed"
	templateContactReceived    = "contact_received"
	templateContactAck         = "contact_acknowledgement"
)

// Sender delivers a rendered message. *mail.ResendClient implements it.
type Sender interface {
	SendEmail(ctx context.Context, msg mail.Message) (string, error)
}

// EmailService renders and sends the transactional emails of the enrollment
// and contact flows. Sends run in the background and never fail the request
// that triggered them.
type EmailService struct {
	sender        Sender
	logger        *observability.Logger
	defaultSender string
	reviewerInbox string
	statusURL     string
	templates     map[string]*template.Template
	wg            sync.WaitGroup
}

// TemplateData represents the data that can be used in templates
type TemplateData struct {
	FirstName          string
	LastName           string
	CompanyName        string
	EnrollmentID       string
	EnrollmentType     string
	Status             string
	StatusLabel        string
	Notes              string
	RejectionReason    string
	ApprovalConditions []string
	DocumentCount      int
	StatusURL          string
	ContactName        string
	ContactEmail       string
	ContactPhone       string
	Subject            string
	Message            string
	Category           string
}

// New creates an email service. A nil sender turns every notification into a
// logged no-op.
func New(sender Sender, cfg config.EmailConfig, webAppURI string, logger *observability.Logger) *EmailService {
	s := &EmailService{
		sender:        sender,
		logger:        logger,
		defaultSender: cfg.DefaultSender,
		reviewerInbox: cfg.ReviewerInbox,
		templates:     make(map[string]*template.Template, len(defaultTemplates)),
	}
	if webAppURI != "" {
		s.statusURL = strings.TrimRight(webAppURI, "/") + "/enrollment/status"
	}
	for name, content := range defaultTemplates {
		s.templates[name] = template.Must(template.New(name).Parse(content))
	}
	return s
}

// EnrollmentReceived acknowledges a new application to the applicant and
// alerts the reviewer inbox when one is configured.
func (s *EmailService) EnrollmentReceived(ctx context.Context, enrollment store.Enrollment) {
	data := enrollmentData(enrollment)
	data.StatusURL = s.statusURL

	s.dispatch(ctx, templateEnrollmentReceived, []string{enrollment.PersonalInfo.Email},
		"We received your BAY SA WAAR application", data)

	if s.reviewerInbox != "" {
		s.dispatch(ctx, templateEnrollmentReview, []string{s.reviewerInbox},
			fmt.Sprintf("New %s application: %s", enrollment.Type, displayName(enrollment)), data)
	}
}

// EnrollmentStatusChanged tells the applicant about a review decision.
func (s *EmailService) EnrollmentStatusChanged(ctx context.Context, enrollment store.Enrollment, notes string) {
	data := enrollmentData(enrollment)
	data.Notes = notes
	data.StatusURL = s.statusURL

	s.dispatch(ctx, templateStatusChanged, []string{enrollment.PersonalInfo.Email},
		fmt.Sprintf("Your application is now %s", strings.ToLower(data.StatusLabel)), data)
}

// ContactReceived acknowledges a contact message to its sender and forwards
// it to the reviewer inbox when one is configured.
func (s *EmailService) ContactReceived(ctx context.Context, contact store.Contact) {
	data := TemplateData{
		ContactName:  contact.Name,
		ContactEmail: contact.Email,
		ContactPhone: contact.Phone,
		CompanyName:  contact.Company,
		Subject:      contact.Subject,
		Message:      contact.Message,
		Category:     contact.Category,
	}
	s.dispatch(ctx, templateContactAck, []string{contact.Email},
		"We received your message", data)

	if s.reviewerInbox != "" {
		s.dispatch(ctx, templateContactReceived, []string{s.reviewerInbox},
			fmt.Sprintf("[%s] %s", contact.Category, contact.Subject), data)
	}
}

// Wait blocks until background sends have finished.
func (s *EmailService) Wait() {
	s.wg.Wait()
}

func (s *EmailService) dispatch(ctx context.Context, templateName string, to []string, subject string, data TemplateData) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_type", Value: templateName},
	)
	if s.sender == nil {
		s.logger.Debug(ctx, "email disabled, skipping notification")
		return
	}

	// render before detaching so template errors are reported with the request
	htmlContent, err := s.renderTemplate(templateName, data)
	if err != nil {
		observability.RecordEmailSent(templateName, "render_error")
		s.logger.Error(ctx, fmt.Sprintf("failed to render %s template", templateName), err)
		return
	}

	msg := mail.Message{From: s.defaultSender, To: to, Subject: subject, HTML: htmlContent}
	detached := observability.DetachedContext(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sendCtx, cancel := context.WithTimeout(detached, sendTimeout)
		defer cancel()

		if err := s.send(sendCtx, msg); err != nil {
			observability.RecordEmailSent(templateName, "failed")
			s.logger.Error(sendCtx, fmt.Sprintf("failed to send %s email", templateName), err)
			return
		}
		observability.RecordEmailSent(templateName, "sent")
	}()
}

func (s *EmailService) send(ctx context.Context, msg mail.Message) error {
	if len(msg.To) == 0 || msg.To[0] == "" {
		return ErrNoRecipient
	}
	if _, err := s.sender.SendEmail(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s", ErrSendingEmail, err.Error())
	}
	return nil
}

// RegisterTemplate adds or replaces a template
func (s *EmailService) RegisterTemplate(name, templateContent string) error {
	if strings.TrimSpace(templateContent) == "" {
		return ErrEmptyTemplate
	}
	tmpl, err := template.New(name).Parse(templateContent)
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	s.templates[name] = tmpl
	return nil
}

func (s *EmailService) renderTemplate(name string, data TemplateData) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEmptyTemplate, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func enrollmentData(e store.Enrollment) TemplateData {
	return TemplateData{
		FirstName:          e.PersonalInfo.FirstName,
		LastName:           e.PersonalInfo.LastName,
		CompanyName:        e.BusinessInfo.CompanyName,
		EnrollmentID:       e.ID.String(),
		EnrollmentType:     e.Type,
		Status:             e.Status,
		StatusLabel:        statusLabel(e.Status),
		RejectionReason:    e.ReviewProcess.RejectionReason,
		ApprovalConditions: e.ReviewProcess.ApprovalConditions,
		DocumentCount:      len(e.Documents),
		ContactEmail:       e.PersonalInfo.Email,
		ContactPhone:       e.PersonalInfo.Phone,
	}
}

func displayName(e store.Enrollment) string {
	if e.BusinessInfo.CompanyName != "" {
		return e.BusinessInfo.CompanyName
	}
	return strings.TrimSpace(e.PersonalInfo.FirstName + " " + e.PersonalInfo.LastName)
}

func statusLabel(status string) string {
	switch status {
	case store.EnrollmentStatusPending:
		return "Pending"
	case store.EnrollmentStatusUnderReview:
		return "Under review"
	case store.EnrollmentStatusApproved:
		return "Approved"
	case store.EnrollmentStatusRejected:
		return "Rejected"
	case store.EnrollmentStatusOnHold:
		return "On hold"
	default:
		return status
	}
}
