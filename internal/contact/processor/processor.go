package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/store"
	"baysawaar-server/internal/validation"
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ContactStore defines the database operations required by ContactProcessor
type ContactStore interface {
	CreateContact(ctx context.Context, params store.CreateContactParams) (store.Contact, error)
	ListContacts(ctx context.Context, params store.ListContactsParams) ([]store.Contact, error)
	CountContacts(ctx context.Context, params store.ListContactsParams) (int, error)
	UpdateContact(ctx context.Context, params store.UpdateContactParams) (store.Contact, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (store.User, error)
}

// Notifier acknowledges received messages. Failures are handled by the implementation.
type Notifier interface {
	ContactReceived(ctx context.Context, contact store.Contact)
}

var ErrContactNotFound = errors.New("contact not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxTextLength   = 2000
)

type ContactProcessor struct {
	store    ContactStore
	notifier Notifier
	logger   *observability.Logger
}

func New(store ContactStore, notifier Notifier, logger *observability.Logger) ContactProcessor {
	return ContactProcessor{store: store, notifier: notifier, logger: logger}
}

type SubmitParams struct {
	Payload   validation.Payload
	IPAddress string
	UserAgent string
}

func (p *ContactProcessor) Submit(ctx context.Context, params SubmitParams) (store.Contact, error) {
	payload := params.Payload
	if payload == nil {
		payload = validation.Payload{}
	}
	if err := validation.ContactRules().Validate(payload); err != nil {
		return store.Contact{}, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "contact_category", Value: payload["category"]})

	contact, err := p.store.CreateContact(ctx, store.CreateContactParams{
		Name:      payload["name"],
		Email:     payload["email"],
		Phone:     payload["phone"],
		Company:   payload["company"],
		Subject:   payload["subject"],
		Message:   payload["message"],
		Category:  payload["category"],
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create contact", err)
		return store.Contact{}, err
	}

	observability.RecordContactSubmission(contact.Category)
	p.logger.Info(ctx, "contact message received", observability.Field{Key: "contact_id", Value: contact.ID.String()})
	p.notifier.ContactReceived(ctx, contact)
	return contact, nil
}

type ListParams struct {
	Status     string
	Category   string
	Priority   string
	AssignedTo *uuid.UUID
	Page       int
	Limit      int
}

type ListResult struct {
	Contacts   []store.Contact `json:"contacts"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

func (p *ContactProcessor) List(ctx context.Context, params ListParams) (ListResult, error) {
	var verrs validation.Errors
	if params.Status != "" && !store.IsValidContactStatus(params.Status) {
		verrs.Add("status", "Unknown status filter")
	}
	if params.Category != "" && !contains(validation.ContactCategories, params.Category) {
		verrs.Add("category", "Unknown category filter")
	}
	if params.Priority != "" && !contains(validation.ContactPriorities, params.Priority) {
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

	filter := store.ListContactsParams{
		Status:     params.Status,
		Category:   params.Category,
		Priority:   params.Priority,
		AssignedTo: params.AssignedTo,
		Limit:      params.Limit,
		Offset:     (params.Page - 1) * params.Limit,
	}
	contacts, err := p.store.ListContacts(ctx, filter)
	if err != nil {
		p.logger.Error(ctx, "failed to list contacts", err)
		return ListResult{}, err
	}
	total, err := p.store.CountContacts(ctx, filter)
	if err != nil {
		p.logger.Error(ctx, "failed to count contacts", err)
		return ListResult{}, err
	}

	if contacts == nil {
		contacts = []store.Contact{}
	}
	return ListResult{
		Contacts:   contacts,
		TotalCount: total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: (total + params.Limit - 1) / params.Limit,
	}, nil
}

// UpdateParams is one reviewer update. Nil fields are left unchanged. An
// empty AssignedTo clears the assignee; Note is appended when non-empty.
type UpdateParams struct {
	ReviewerID uuid.UUID
	Status     *string
	Priority   *string
	AssignedTo *string
	Response   *string
	Note       string
}

func (p *ContactProcessor) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (store.Contact, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "contact_id", Value: id.String()},
		observability.Field{Key: "reviewer_id", Value: params.ReviewerID.String()},
	)

	update, err := p.buildUpdate(ctx, id, params)
	if err != nil {
		return store.Contact{}, err
	}

	contact, err := p.store.UpdateContact(ctx, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Contact{}, ErrContactNotFound
		}
		p.logger.Error(ctx, "failed to update contact", err)
		return store.Contact{}, err
	}

	p.logger.Info(ctx, "contact updated",
		observability.Field{Key: "status", Value: contact.Status},
		observability.Field{Key: "priority", Value: contact.Priority},
	)
	return contact, nil
}

// buildUpdate normalizes and validates params. The assignee must be an
// existing reviewer.
func (p *ContactProcessor) buildUpdate(ctx context.Context, id uuid.UUID, params UpdateParams) (store.UpdateContactParams, error) {
	update := store.UpdateContactParams{ID: id, ChangedBy: params.ReviewerID}
	var verrs validation.Errors

	if params.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*params.Status))
		if store.IsValidContactStatus(status) {
			update.Status = &status
		} else {
			verrs.Add("status", "Status must be one of: "+strings.Join(validation.ContactStatuses, ", "))
		}
	}
	if params.Priority != nil {
		priority := strings.ToLower(strings.TrimSpace(*params.Priority))
		if store.IsValidContactPriority(priority) {
			update.Priority = &priority
		} else {
			verrs.Add("priority", "Priority must be one of: "+strings.Join(validation.ContactPriorities, ", "))
		}
	}
	if params.Response != nil {
		response := strings.TrimSpace(*params.Response)
		switch {
		case response == "":
			verrs.Add("response", "Response cannot be empty")
		case utf8.RuneCountInString(response) > maxTextLength:
			verrs.Add("response", "Response cannot exceed 2000 characters")
		default:
			update.Response = &response
		}
	}
	update.Note = strings.TrimSpace(params.Note)
	if utf8.RuneCountInString(update.Note) > maxTextLength {
		verrs.Add("note", "Note cannot exceed 2000 characters")
	}

	if params.AssignedTo != nil {
		update.Assign = true
		if raw := strings.TrimSpace(*params.AssignedTo); raw != "" {
			assignee, problem, err := p.resolveAssignee(ctx, raw)
			if err != nil {
				return store.UpdateContactParams{}, err
			}
			if problem != "" {
				verrs.Add("assignedTo", problem)
			} else {
				update.AssignedTo = &assignee
			}
		}
	}

	if len(verrs.Fields) > 0 {
		return store.UpdateContactParams{}, &verrs
	}
	if update.Status == nil && update.Priority == nil && !update.Assign && update.Response == nil && update.Note == "" {
		verrs.Add("status", "Provide at least one of status, priority, assignedTo, response or note")
		return store.UpdateContactParams{}, &verrs
	}
	return update, nil
}

// resolveAssignee returns the reviewer's id, or a message describing why
// raw cannot be assigned.
func (p *ContactProcessor) resolveAssignee(ctx context.Context, raw string) (uuid.UUID, string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "Assignee must be a valid user id", nil
	}
	user, err := p.store.GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, "Assignee does not exist", nil
	}
	if err != nil {
		p.logger.Error(ctx, "failed to look up contact assignee", err)
		return uuid.Nil, "", err
	}
	if !store.IsReviewerRole(user.Role) {
		return uuid.Nil, "Assignee must be a reviewer", nil
	}
	return user.ID, "", nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
