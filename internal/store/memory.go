package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process implementation of the store used for local
// development (DB_DRIVER=memory) and tests. A single mutex serializes all
// writes, which also serializes timeline appends per enrollment.
type MemoryStore struct {
	mu          sync.Mutex
	now         func() time.Time
	enrollments map[uuid.UUID]*Enrollment
	users       map[uuid.UUID]*User
	contacts    map[uuid.UUID]*Contact
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:         time.Now,
		enrollments: make(map[uuid.UUID]*Enrollment),
		users:       make(map[uuid.UUID]*User),
		contacts:    make(map[uuid.UUID]*Contact),
	}
}

// WithClock overrides the time source.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func copyEnrollment(e *Enrollment) Enrollment {
	out := *e
	out.Documents = append([]Document{}, e.Documents...)
	out.Timeline = append([]TimelineEntry{}, e.Timeline...)
	out.Tags = append([]string{}, e.Tags...)
	if e.SpecificInfo.Interests != nil {
		out.SpecificInfo.Interests = append([]string{}, e.SpecificInfo.Interests...)
	}
	if e.ReviewProcess.ApprovalConditions != nil {
		out.ReviewProcess.ApprovalConditions = append([]string{}, e.ReviewProcess.ApprovalConditions...)
	}
	return out
}

func (m *MemoryStore) CreateEnrollment(ctx context.Context, params CreateEnrollmentParams) (Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if params.ID == uuid.Nil {
		params.ID = uuid.New()
	}
	if _, exists := m.enrollments[params.ID]; exists {
		return Enrollment{}, ErrDuplicate
	}

	now := m.now().UTC()
	e := &Enrollment{
		ID:              params.ID,
		ApplicantUserID: params.ApplicantUserID,
		Type:            params.Type,
		PersonalInfo:    params.PersonalInfo,
		BusinessInfo:    params.BusinessInfo,
		SpecificInfo:    params.SpecificInfo,
		Documents:       []Document{},
		Status:          EnrollmentStatusPending,
		Timeline:        []TimelineEntry{},
		Priority:        params.Priority,
		Source:          params.Source,
		Tags:            []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, doc := range params.Documents {
		if doc.ID == uuid.Nil {
			doc.ID = uuid.New()
		}
		e.Documents = append(e.Documents, doc)
	}
	m.enrollments[e.ID] = e
	return copyEnrollment(e), nil
}

func (m *MemoryStore) GetEnrollmentByID(ctx context.Context, id uuid.UUID) (Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.enrollments[id]
	if !ok {
		return Enrollment{}, ErrNotFound
	}
	return copyEnrollment(e), nil
}

func (m *MemoryStore) HasPendingEnrollment(ctx context.Context, email, enrollmentType string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.enrollments {
		if e.Type == enrollmentType && e.Status == EnrollmentStatusPending &&
			strings.EqualFold(e.PersonalInfo.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListEnrollmentsForApplicant(ctx context.Context, userID *uuid.UUID, email string) ([]Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Enrollment{}
	for _, e := range m.enrollments {
		owned := userID != nil && e.ApplicantUserID != nil && *e.ApplicantUserID == *userID
		if owned || (email != "" && strings.EqualFold(e.PersonalInfo.Email, email)) {
			out = append(out, copyEnrollment(e))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) filterEnrollments(params ListEnrollmentsParams) []Enrollment {
	out := []Enrollment{}
	for _, e := range m.enrollments {
		if params.Status != "" && e.Status != params.Status {
			continue
		}
		if params.Type != "" && e.Type != params.Type {
			continue
		}
		if params.Priority != "" && e.Priority != params.Priority {
			continue
		}
		out = append(out, copyEnrollment(e))
	}
	sortNewestFirst(out)
	return out
}

func (m *MemoryStore) ListEnrollments(ctx context.Context, params ListEnrollmentsParams) ([]Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.filterEnrollments(params), params.Limit, params.Offset), nil
}

func (m *MemoryStore) CountEnrollments(ctx context.Context, params ListEnrollmentsParams) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filterEnrollments(params)), nil
}

func (m *MemoryStore) UpdateEnrollmentStatus(ctx context.Context, params UpdateEnrollmentStatusParams) (Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.enrollments[params.ID]
	if !ok {
		return Enrollment{}, ErrNotFound
	}

	now := m.now().UTC()
	changedAt := now
	if n := len(e.Timeline); n > 0 && e.Timeline[n-1].ChangedAt.After(changedAt) {
		changedAt = e.Timeline[n-1].ChangedAt
	}

	changedBy := params.ChangedBy
	e.Status = params.Status
	e.ReviewProcess.ReviewedBy = &changedBy
	e.ReviewProcess.ReviewedAt = &now
	if params.ReviewNotes != nil {
		e.ReviewProcess.ReviewNotes = *params.ReviewNotes
	}
	if params.RejectionReason != nil {
		e.ReviewProcess.RejectionReason = *params.RejectionReason
	}
	if params.ApprovalConditions != nil {
		e.ReviewProcess.ApprovalConditions = append([]string{}, params.ApprovalConditions...)
	}
	if params.Priority != nil {
		e.Priority = *params.Priority
	}
	if params.Tags != nil {
		e.Tags = append([]string{}, params.Tags...)
	}
	if params.FollowUpDate != nil {
		followUp := *params.FollowUpDate
		e.FollowUpDate = &followUp
	}
	e.Timeline = append(e.Timeline, TimelineEntry{
		Status:    params.Status,
		ChangedBy: &changedBy,
		ChangedAt: changedAt,
		Notes:     params.Notes,
	})
	e.UpdatedAt = now
	return copyEnrollment(e), nil
}

func (m *MemoryStore) DeleteEnrollment(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.enrollments[id]; !ok {
		return ErrNotFound
	}
	delete(m.enrollments, id)
	return nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(params.Email)
	for _, u := range m.users {
		if u.Email == email {
			return User{}, ErrDuplicate
		}
	}
	now := m.now().UTC()
	u := &User{
		ID:           uuid.New(),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        email,
		Phone:        params.Phone,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return *u, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

func (m *MemoryStore) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = m.now().UTC()
	return *u, nil
}

func (m *MemoryStore) CreateContact(ctx context.Context, params CreateContactParams) (Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	c := &Contact{
		ID:        uuid.New(),
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Company:   params.Company,
		Subject:   params.Subject,
		Message:   params.Message,
		Category:  params.Category,
		Status:    ContactStatusNew,
		Priority:  ContactPriorityMedium,
		Source:    ContactSourceWebsite,
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
		Notes:     []ContactNote{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.contacts[c.ID] = c
	return copyContact(c), nil
}

func copyContact(c *Contact) Contact {
	out := *c
	out.Notes = append([]ContactNote{}, c.Notes...)
	if c.Response != nil {
		response := *c.Response
		out.Response = &response
	}
	return out
}

func (m *MemoryStore) filterContacts(params ListContactsParams) []Contact {
	out := []Contact{}
	for _, c := range m.contacts {
		if params.Status != "" && c.Status != params.Status {
			continue
		}
		if params.Category != "" && c.Category != params.Category {
			continue
		}
		if params.Priority != "" && c.Priority != params.Priority {
			continue
		}
		if params.AssignedTo != nil && (c.AssignedTo == nil || *c.AssignedTo != *params.AssignedTo) {
			continue
		}
		out = append(out, copyContact(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryStore) ListContacts(ctx context.Context, params ListContactsParams) ([]Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.filterContacts(params), params.Limit, params.Offset), nil
}

func (m *MemoryStore) CountContacts(ctx context.Context, params ListContactsParams) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filterContacts(params)), nil
}

func (m *MemoryStore) UpdateContact(ctx context.Context, params UpdateContactParams) (Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contacts[params.ID]
	if !ok {
		return Contact{}, ErrNotFound
	}
	now := m.now().UTC()
	changedBy := params.ChangedBy

	if params.Status != nil {
		c.Status = *params.Status
	}
	if params.Priority != nil {
		c.Priority = *params.Priority
	}
	if params.Assign {
		c.AssignedTo = params.AssignedTo
	}
	if params.Response != nil {
		c.Response = &ContactResponse{Content: *params.Response, RespondedBy: &changedBy, RespondedAt: &now}
	}
	if params.Note != "" {
		c.Notes = append(c.Notes, ContactNote{Content: params.Note, AddedBy: &changedBy, AddedAt: now})
	}
	c.UpdatedAt = now
	return copyContact(c), nil
}

func sortNewestFirst(enrollments []Enrollment) {
	sort.Slice(enrollments, func(i, j int) bool {
		if enrollments[i].CreatedAt.Equal(enrollments[j].CreatedAt) {
			return enrollments[i].ID.String() > enrollments[j].ID.String()
		}
		return enrollments[i].CreatedAt.After(enrollments[j].CreatedAt)
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
