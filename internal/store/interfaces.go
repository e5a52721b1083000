package store

import (
	"context"

	"github.com/google/uuid"
)

// Storer defines all public methods available on the Store
type Storer interface {
	Ping(ctx context.Context) error
	Close() error

	// Enrollment operations
	CreateEnrollment(ctx context.Context, params CreateEnrollmentParams) (Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id uuid.UUID) (Enrollment, error)
	HasPendingEnrollment(ctx context.Context, email, enrollmentType string) (bool, error)
	ListEnrollmentsForApplicant(ctx context.Context, userID *uuid.UUID, email string) ([]Enrollment, error)
	ListEnrollments(ctx context.Context, params ListEnrollmentsParams) ([]Enrollment, error)
	CountEnrollments(ctx context.Context, params ListEnrollmentsParams) (int, error)
	UpdateEnrollmentStatus(ctx context.Context, params UpdateEnrollmentStatusParams) (Enrollment, error)
	DeleteEnrollment(ctx context.Context, id uuid.UUID) error

	// User operations
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role string) (User, error)

	// Contact operations
	CreateContact(ctx context.Context, params CreateContactParams) (Contact, error)
	ListContacts(ctx context.Context, params ListContactsParams) ([]Contact, error)
	CountContacts(ctx context.Context, params ListContactsParams) (int, error)
	UpdateContact(ctx context.Context, params UpdateContactParams) (Contact, error)
}

var (
	_ Storer = (*Store)(nil)
	_ Storer = (*MemoryStore)(nil)
)
