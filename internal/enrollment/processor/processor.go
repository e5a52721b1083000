package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"baysawaar-server/internal/attachments"
	"baysawaar-server/internal/locks"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/store"
	"baysawaar-server/internal/validation"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnrollmentStore defines the database operations required by EnrollmentProcessor
type EnrollmentStore interface {
	CreateEnrollment(ctx context.Context, params store.CreateEnrollmentParams) (store.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id uuid.UUID) (store.Enrollment, error)
	HasPendingEnrollment(ctx context.Context, email, enrollmentType string) (bool, error)
	ListEnrollmentsForApplicant(ctx context.Context, userID *uuid.UUID, email string) ([]store.Enrollment, error)
	ListEnrollments(ctx context.Context, params store.ListEnrollmentsParams) ([]store.Enrollment, error)
	CountEnrollments(ctx context.Context, params store.ListEnrollmentsParams) (int, error)
	UpdateEnrollmentStatus(ctx context.Context, params store.UpdateEnrollmentStatusParams) (store.Enrollment, error)
	DeleteEnrollment(ctx context.Context, id uuid.UUID) error
}

// AttachmentHandler screens and stores uploaded files
type AttachmentHandler interface {
	Screen(role string, files []attachments.File) ([]attachments.File, []validation.FieldError)
	Upload(ctx context.Context, prefix string, batches ...attachments.Batch) ([]attachments.Stored, error)
	Cleanup(ctx context.Context, storageIDs []string)
}

// SubmissionLocker serializes submissions for the same email and type
type SubmissionLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Notifier sends best-effort notifications. Implementations log their own failures.
type Notifier interface {
	EnrollmentReceived(ctx context.Context, enrollment store.Enrollment)
	EnrollmentStatusChanged(ctx context.Context, enrollment store.Enrollment, notes string)
}

var (
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrEnrollmentExists     = errors.New("a pending enrollment already exists for this email and type")
	ErrSubmissionInProgress = errors.New("a submission for this email and type is already in progress")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("not allowed to access this enrollment")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Actor is the caller of an operation. The zero value is anonymous.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil
}

func (a Actor) IsReviewer() bool {
	return a.Authenticated() && store.IsReviewerRole(a.Role)
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == store.UserRoleAdmin
}

func (a Actor) owns(e store.Enrollment) bool {
	if e.ApplicantUserID != nil && *e.ApplicantUserID == a.UserID {
		return true
	}
	return a.Email != "" && strings.EqualFold(e.PersonalInfo.Email, a.Email)
}

type EnrollmentProcessor struct {
	store       EnrollmentStore
	attachments AttachmentHandler
	locker      SubmissionLocker
	notifier    Notifier
	logger      *observability.Logger
}

func New(store EnrollmentStore, attachments AttachmentHandler, locker SubmissionLocker, notifier Notifier, logger *observability.Logger) EnrollmentProcessor {
	return EnrollmentProcessor{
		store:       store,
		attachments: attachments,
		locker:      locker,
		notifier:    notifier,
		logger:      logger,
	}
}

// SubmitParams carries the raw form fields and candidate files of a submission.
type SubmitParams struct {
	Payload           validation.Payload
	Logo              []attachments.File
	BusinessDocuments []attachments.File
}

// Submit validates a submission, rejects duplicates of a pending enrollment,
// stores its attachments and then persists the enrollment. Nothing is
// persisted unless every step succeeds, and stored attachments are removed
// when persisting fails.
func (p *EnrollmentProcessor) Submit(ctx context.Context, actor Actor, params SubmitParams) (store.Enrollment, error) {
	payload := params.Payload
	if payload == nil {
		payload = validation.Payload{}
	}
	enrollmentType := strings.ToLower(strings.TrimSpace(payload["type"]))
	ctx = observability.WithFields(ctx, observability.Field{Key: "enrollment_type", Value: enrollmentType})

	var fieldErrs []validation.FieldError
	if err := validation.EnrollmentRules(enrollmentType).Validate(payload); err != nil {
		verrs, ok := validation.AsErrors(err)
		if !ok {
			return store.Enrollment{}, err
		}
		fieldErrs = append(fieldErrs, verrs.Fields...)
	}

	logo, logoErrs := p.attachments.Screen(attachments.RoleLogo, params.Logo)
	docs, docErrs := p.attachments.Screen(attachments.RoleBusinessDocument, params.BusinessDocuments)
	if err := validation.Merge(fieldErrs, logoErrs, docErrs); err != nil {
		observability.RecordEnrollmentSubmission(enrollmentType, "invalid")
		p.logger.Info(ctx, "enrollment submission failed validation",
			observability.Field{Key: "error", Value: err.Error()},
		)
		return store.Enrollment{}, err
	}

	email := payload["email"]
	release, err := p.locker.Lock(ctx, fmt.Sprintf("enrollment:%s:%s", enrollmentType, email))
	if err != nil {
		if errors.Is(err, locks.ErrNotObtained) {
			observability.RecordEnrollmentSubmission(enrollmentType, "busy")
			return store.Enrollment{}, ErrSubmissionInProgress
		}
		p.logger.Error(ctx, "failed to obtain submission lock", err)
		return store.Enrollment{}, err
	}
	defer release()

	pending, err := p.store.HasPendingEnrollment(ctx, email, enrollmentType)
	if err != nil {
		p.logger.Error(ctx, "failed to check for pending enrollment", err)
		return store.Enrollment{}, err
	}
	if pending {
		observability.RecordEnrollmentSubmission(enrollmentType, "conflict")
		return store.Enrollment{}, ErrEnrollmentExists
	}

	id := uuid.New()
	ctx = observability.WithFields(ctx, observability.Field{Key: "enrollment_id", Value: id.String()})

	var batches []attachments.Batch
	if len(logo) > 0 {
		batches = append(batches, attachments.Batch{Role: attachments.RoleLogo, Files: logo})
	}
	if len(docs) > 0 {
		batches = append(batches, attachments.Batch{Role: attachments.RoleBusinessDocument, Files: docs})
	}

	var stored []attachments.Stored
	if len(batches) > 0 {
		stored, err = p.attachments.Upload(ctx, "enrollments/"+id.String(), batches...)
		if err != nil {
			observability.RecordEnrollmentSubmission(enrollmentType, "storage_error")
			p.logger.Error(ctx, "failed to store enrollment attachments", err)
			return store.Enrollment{}, err
		}
	}

	createParams := buildCreateParams(id, actor, enrollmentType, payload, stored)
	enrollment, err := p.store.CreateEnrollment(ctx, createParams)
	if err != nil {
		p.logger.Error(ctx, "failed to create enrollment", err)
		if len(stored) > 0 {
			ids := make([]string, len(stored))
			for i, s := range stored {
				ids[i] = s.StorageID
			}
			p.attachments.Cleanup(observability.DetachedContext(ctx), ids)
		}
		return store.Enrollment{}, err
	}

	observability.RecordEnrollmentSubmission(enrollmentType, "created")
	p.logger.Info(ctx, "enrollment submitted",
		observability.Field{Key: "documents", Value: len(enrollment.Documents)},
	)
	p.notifier.EnrollmentReceived(ctx, enrollment)
	return enrollment, nil
}

func buildCreateParams(id uuid.UUID, actor Actor, enrollmentType string, payload validation.Payload, stored []attachments.Stored) store.CreateEnrollmentParams {
	params := store.CreateEnrollmentParams{
		ID:   id,
		Type: enrollmentType,
		PersonalInfo: store.PersonalInfo{
			FirstName: payload["firstName"],
			LastName:  payload["lastName"],
			Email:     payload["email"],
			Phone:     payload["phone"],
			Country:   payload["country"],
			City:      payload["city"],
		},
		BusinessInfo: store.BusinessInfo{
			CompanyName:     payload["companyName"],
			BusinessType:    payload["businessType"],
			YearsInBusiness: payload["yearsInBusiness"],
			Website:         payload["website"],
			Description:     payload["description"],
			Industry:        payload["industry"],
			CompanySize:     payload["companySize"],
		},
		Priority: store.EnrollmentPriorityMedium,
		Source:   payload["source"],
	}
	if params.Source == "" {
		params.Source = store.EnrollmentSourceWebsite
	}
	if actor.Authenticated() {
		userID := actor.UserID
		params.ApplicantUserID = &userID
	}

	switch enrollmentType {
	case store.EnrollmentTypePartner:
		params.SpecificInfo = store.SpecificInfo{
			PartnershipType:  payload["partnershipType"],
			ExpectedVolume:   payload["expectedVolume"],
			DistributionArea: payload["distributionArea"],
		}
	case store.EnrollmentTypeDistributor:
		params.SpecificInfo = store.SpecificInfo{
			DistributionArea: payload["distributionArea"],
			TargetMarkets:    payload["targetMarkets"],
			Experience:       payload["experience"],
		}
	case store.EnrollmentTypeClient:
		interests, _ := validation.ParseStringList(payload["interests"])
		params.SpecificInfo = store.SpecificInfo{Interests: interests}
	}

	for _, s := range stored {
		params.Documents = append(params.Documents, store.Document{
			ID:         uuid.New(),
			Role:       s.Role,
			Position:   s.Position,
			Name:       s.Name,
			URL:        s.URL,
			StorageID:  s.StorageID,
			UploadedAt: s.UploadedAt,
		})
	}
	return params
}

// TransitionParams is a reviewer update. Nil optional fields are left unchanged.
type TransitionParams struct {
	Status             string
	Notes              string
	ReviewNotes        *string
	RejectionReason    *string
	ApprovalConditions []string
	Priority           *string
	Tags               []string
	FollowUpDate       *time.Time
}

// Transition changes an enrollment's status on behalf of a reviewer and
// appends one timeline entry.
func (p *EnrollmentProcessor) Transition(ctx context.Context, actor Actor, id uuid.UUID, params TransitionParams) (store.Enrollment, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "enrollment_id", Value: id.String()},
		observability.Field{Key: "new_status", Value: params.Status},
	)

	if !actor.Authenticated() {
		return store.Enrollment{}, ErrUnauthenticated
	}
	if !actor.IsReviewer() {
		p.logger.Warn(ctx, "non reviewer attempted enrollment transition",
			observability.Field{Key: "user_id", Value: actor.UserID.String()},
			observability.Field{Key: "role", Value: actor.Role},
		)
		return store.Enrollment{}, ErrForbidden
	}

	var verrs validation.Errors
	if !store.IsValidEnrollmentStatus(params.Status) {
		verrs.Add("status", "Status must be one of: "+strings.Join(validation.EnrollmentStatuses, ", "))
	}
	if params.Priority != nil && !store.IsValidEnrollmentPriority(*params.Priority) {
		verrs.Add("priority", "Priority must be one of: "+strings.Join(validation.EnrollmentPriority, ", "))
	}
	if len(verrs.Fields) > 0 {
		return store.Enrollment{}, &verrs
	}

	notes := params.Notes
	if notes == "" && params.ReviewNotes != nil {
		notes = *params.ReviewNotes
	}

	enrollment, err := p.store.UpdateEnrollmentStatus(ctx, store.UpdateEnrollmentStatusParams{
		ID:                 id,
		Status:             params.Status,
		ChangedBy:          actor.UserID,
		Notes:              notes,
		ReviewNotes:        params.ReviewNotes,
		RejectionReason:    params.RejectionReason,
		ApprovalConditions: params.ApprovalConditions,
		Priority:           params.Priority,
		Tags:               params.Tags,
		FollowUpDate:       params.FollowUpDate,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Enrollment{}, ErrEnrollmentNotFound
		}
		p.logger.Error(ctx, "failed to update enrollment status", err)
		return store.Enrollment{}, err
	}

	observability.RecordEnrollmentTransition(params.Status)
	p.logger.Info(ctx, "enrollment status changed",
		observability.Field{Key: "reviewer_id", Value: actor.UserID.String()},
		observability.Field{Key: "timeline_length", Value: len(enrollment.Timeline)},
	)
	p.notifier.EnrollmentStatusChanged(ctx, enrollment, notes)
	return enrollment, nil
}

// MyStatus returns every enrollment submitted by the caller's account or
// under the caller's email.
func (p *EnrollmentProcessor) MyStatus(ctx context.Context, actor Actor) ([]store.Enrollment, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	userID := actor.UserID
	enrollments, err := p.store.ListEnrollmentsForApplicant(ctx, &userID, strings.ToLower(actor.Email))
	if err != nil {
		p.logger.Error(ctx, "failed to list applicant enrollments", err)
		return nil, err
	}
	return enrollments, nil
}

// Get returns one enrollment to a reviewer or to its applicant.
func (p *EnrollmentProcessor) Get(ctx context.Context, actor Actor, id uuid.UUID) (store.Enrollment, error) {
	if !actor.Authenticated() {
		return store.Enrollment{}, ErrUnauthenticated
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "enrollment_id", Value: id.String()})

	enrollment, err := p.store.GetEnrollmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Enrollment{}, ErrEnrollmentNotFound
		}
		p.logger.Error(ctx, "failed to get enrollment", err)
		return store.Enrollment{}, err
	}

	if !actor.IsReviewer() && !actor.owns(enrollment) {
		return store.Enrollment{}, ErrForbidden
	}
	return enrollment, nil
}

// ListParams filters and paginates the reviewer listing. Page starts at 1.
type ListParams struct {
	Status   string
	Type     string
	Priority string
	Page     int
	Limit    int
}

type ListResult struct {
	Enrollments []store.Enrollment `json:"enrollments"`
	TotalCount  int                `json:"totalCount"`
	Page        int                `json:"page"`
	Limit       int                `json:"limit"`
	TotalPages  int                `json:"totalPages"`
}

// List returns enrollments matching the filters, newest first.
func (p *EnrollmentProcessor) List(ctx context.Context, actor Actor, params ListParams) (ListResult, error) {
	if !actor.Authenticated() {
		return ListResult{}, ErrUnauthenticated
	}
	if !actor.IsReviewer() {
		return ListResult{}, ErrForbidden
	}

	var verrs validation.Errors
	if params.Status != "" && !store.IsValidEnrollmentStatus(params.Status) {
		verrs.Add("status", "Unknown status filter")
	}
	if params.Type != "" && !isValidType(params.Type) {
		verrs.Add("type", "Unknown type filter")
	}
	if params.Priority != "" && !store.IsValidEnrollmentPriority(params.Priority) {
		verrs.Add("priority", "Unknown priority filter")
	}
	if len(verrs.Fields) > 0 {
		return ListResult{}, &verrs
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = defaultPageSize
	}
	if params.Limit > maxPageSize {
		params.Limit = maxPageSize
	}

	filter := store.ListEnrollmentsParams{
		Status:   params.Status,
		Type:     params.Type,
		Priority: params.Priority,
		Limit:    params.Limit,
		Offset:   (params.Page - 1) * params.Limit,
	}

	enrollments, err := p.store.ListEnrollments(ctx, filter)
	if err != nil {
		p.logger.Error(ctx, "failed to list enrollments", err)
		return ListResult{}, err
	}
	total, err := p.store.CountEnrollments(ctx, filter)
	if err != nil {
		p.logger.Error(ctx, "failed to count enrollments", err)
		return ListResult{}, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}
	if enrollments == nil {
		enrollments = []store.Enrollment{}
	}
	return ListResult{
		Enrollments: enrollments,
		TotalCount:  total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  totalPages,
	}, nil
}

// Delete removes an enrollment outright, then its stored attachments.
func (p *EnrollmentProcessor) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "enrollment_id", Value: id.String()})

	enrollment, err := p.store.GetEnrollmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEnrollmentNotFound
		}
		p.logger.Error(ctx, "failed to get enrollment", err)
		return err
	}

	if err := p.store.DeleteEnrollment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEnrollmentNotFound
		}
		p.logger.Error(ctx, "failed to delete enrollment", err)
		return err
	}

	if len(enrollment.Documents) > 0 {
		ids := make([]string, len(enrollment.Documents))
		for i, d := range enrollment.Documents {
			ids[i] = d.StorageID
		}
		p.attachments.Cleanup(observability.DetachedContext(ctx), ids)
	}

	p.logger.Info(ctx, "enrollment deleted", observability.Field{Key: "deleted_by", Value: actor.UserID.String()})
	return nil
}

func isValidType(t string) bool {
	switch t {
	case store.EnrollmentTypePartner, store.EnrollmentTypeDistributor, store.EnrollmentTypeClient:
		return true
	}
	return false
}
