package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const enrollmentColumns = `
	id, applicant_user_id, type,
	first_name, last_name, email, phone, country, city,
	company_name, business_type, years_in_business, website, description, industry, company_size,
	partnership_type, expected_volume, distribution_area, target_markets, experience, interests,
	status, priority, source, tags, follow_up_date,
	reviewed_by, reviewed_at, review_notes, rejection_reason, approval_conditions,
	created_at, updated_at`

// CreateEnrollmentParams holds the fields of a new enrollment. Documents
// must already be stored; their references are persisted with the record.
type CreateEnrollmentParams struct {
	ID              uuid.UUID
	ApplicantUserID *uuid.UUID
	Type            string
	PersonalInfo    PersonalInfo
	BusinessInfo    BusinessInfo
	SpecificInfo    SpecificInfo
	Priority        string
	Source          string
	Documents       []Document
}

// ListEnrollmentsParams filters the reviewer listing. Empty strings match all.
type ListEnrollmentsParams struct {
	Status   string
	Type     string
	Priority string
	Limit    int
	Offset   int
}

// UpdateEnrollmentStatusParams describes one reviewer transition. Nil
// optional fields leave the stored value untouched.
type UpdateEnrollmentStatusParams struct {
	ID                 uuid.UUID
	Status             string
	ChangedBy          uuid.UUID
	Notes              string
	ReviewNotes        *string
	RejectionReason    *string
	ApprovalConditions []string
	Priority           *string
	Tags               []string
	FollowUpDate       *time.Time
}

const sqlCreateEnrollment = `
INSERT INTO enrollments (
	id, applicant_user_id, type,
	first_name, last_name, email, phone, country, city,
	company_name, business_type, years_in_business, website, description, industry, company_size,
	partnership_type, expected_volume, distribution_area, target_markets, experience, interests,
	status, priority, source
) VALUES (
	$1, $2, $3,
	$4, $5, $6, $7, $8, $9,
	$10, $11, $12, $13, $14, $15, $16,
	$17, $18, $19, $20, $21, $22,
	'pending', $23, $24
)
RETURNING ` + enrollmentColumns

const sqlCreateEnrollmentDocument = `
INSERT INTO enrollment_documents (id, enrollment_id, role, position, name, url, storage_id, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, role, position, name, url, storage_id, uploaded_at`

// CreateEnrollment inserts a pending enrollment and its document references atomically.
func (s *Store) CreateEnrollment(ctx context.Context, params CreateEnrollmentParams) (Enrollment, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	if params.ID == uuid.Nil {
		params.ID = uuid.New()
	}

	var row enrollmentRow
	err = tx.GetContext(ctx, &row, sqlCreateEnrollment,
		params.ID, params.ApplicantUserID, params.Type,
		params.PersonalInfo.FirstName, params.PersonalInfo.LastName, params.PersonalInfo.Email,
		params.PersonalInfo.Phone, params.PersonalInfo.Country, params.PersonalInfo.City,
		params.BusinessInfo.CompanyName, params.BusinessInfo.BusinessType, params.BusinessInfo.YearsInBusiness,
		params.BusinessInfo.Website, params.BusinessInfo.Description, params.BusinessInfo.Industry,
		params.BusinessInfo.CompanySize,
		params.SpecificInfo.PartnershipType, params.SpecificInfo.ExpectedVolume, params.SpecificInfo.DistributionArea,
		params.SpecificInfo.TargetMarkets, params.SpecificInfo.Experience, StringArray(params.SpecificInfo.Interests),
		params.Priority, params.Source,
	)
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to create enrollment: %w", err)
	}

	enrollment := row.toEnrollment()
	for _, doc := range params.Documents {
		if doc.ID == uuid.Nil {
			doc.ID = uuid.New()
		}
		var stored Document
		err = tx.GetContext(ctx, &stored, sqlCreateEnrollmentDocument,
			doc.ID, enrollment.ID, doc.Role, doc.Position, doc.Name, doc.URL, doc.StorageID, doc.UploadedAt)
		if err != nil {
			return Enrollment{}, fmt.Errorf("failed to create enrollment document: %w", err)
		}
		enrollment.Documents = append(enrollment.Documents, stored)
	}

	if err = tx.Commit(); err != nil {
		return Enrollment{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return enrollment, nil
}

const sqlGetEnrollmentByID = `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`

const sqlGetEnrollmentDocuments = `
SELECT enrollment_id, id, role, position, name, url, storage_id, uploaded_at
FROM enrollment_documents
WHERE enrollment_id = ANY($1::uuid[])
ORDER BY role = 'logo' DESC, position ASC`

const sqlGetEnrollmentTimeline = `
SELECT enrollment_id, status, changed_by, changed_at, notes
FROM enrollment_timeline
WHERE enrollment_id = ANY($1::uuid[])
ORDER BY changed_at ASC, id ASC`

// GetEnrollmentByID retrieves an enrollment with its documents and timeline
func (s *Store) GetEnrollmentByID(ctx context.Context, id uuid.UUID) (Enrollment, error) {
	return getEnrollment(ctx, s.db, id)
}

func getEnrollment(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (Enrollment, error) {
	var row enrollmentRow
	if err := sqlx.GetContext(ctx, q, &row, sqlGetEnrollmentByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Enrollment{}, ErrNotFound
		}
		return Enrollment{}, fmt.Errorf("failed to get enrollment: %w", err)
	}
	enrollments := []Enrollment{row.toEnrollment()}
	if err := attachChildren(ctx, q, enrollments); err != nil {
		return Enrollment{}, err
	}
	return enrollments[0], nil
}

type documentRow struct {
	EnrollmentID uuid.UUID `db:"enrollment_id"`
	Document
}

type timelineRow struct {
	EnrollmentID uuid.UUID `db:"enrollment_id"`
	TimelineEntry
}

// attachChildren loads documents and timelines for a page of enrollments
// in two queries.
func attachChildren(ctx context.Context, q sqlx.QueryerContext, enrollments []Enrollment) error {
	if len(enrollments) == 0 {
		return nil
	}
	ids := make(StringArray, len(enrollments))
	index := make(map[uuid.UUID]int, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.ID.String()
		index[e.ID] = i
	}

	var docs []documentRow
	if err := sqlx.SelectContext(ctx, q, &docs, sqlGetEnrollmentDocuments, ids); err != nil {
		return fmt.Errorf("failed to get enrollment documents: %w", err)
	}
	for _, d := range docs {
		i := index[d.EnrollmentID]
		enrollments[i].Documents = append(enrollments[i].Documents, d.Document)
	}

	var entries []timelineRow
	if err := sqlx.SelectContext(ctx, q, &entries, sqlGetEnrollmentTimeline, ids); err != nil {
		return fmt.Errorf("failed to get enrollment timeline: %w", err)
	}
	for _, e := range entries {
		i := index[e.EnrollmentID]
		enrollments[i].Timeline = append(enrollments[i].Timeline, e.TimelineEntry)
	}
	return nil
}

const sqlHasPendingEnrollment = `
SELECT EXISTS(
	SELECT 1 FROM enrollments
	WHERE lower(email) = lower($1) AND type = $2 AND status = 'pending'
)`

// HasPendingEnrollment reports whether email already has a pending enrollment of the given type
func (s *Store) HasPendingEnrollment(ctx context.Context, email, enrollmentType string) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, sqlHasPendingEnrollment, email, enrollmentType); err != nil {
		return false, fmt.Errorf("failed to check pending enrollment: %w", err)
	}
	return exists, nil
}

const sqlListEnrollmentsForApplicant = `
SELECT ` + enrollmentColumns + `
FROM enrollments
WHERE ($1::uuid IS NOT NULL AND applicant_user_id = $1) OR lower(email) = lower($2)
ORDER BY created_at DESC`

// ListEnrollmentsForApplicant returns enrollments owned by userID or
// submitted under email, newest first.
func (s *Store) ListEnrollmentsForApplicant(ctx context.Context, userID *uuid.UUID, email string) ([]Enrollment, error) {
	var rows []enrollmentRow
	if err := s.db.SelectContext(ctx, &rows, sqlListEnrollmentsForApplicant, userID, email); err != nil {
		return nil, fmt.Errorf("failed to list applicant enrollments: %w", err)
	}
	return s.hydrate(ctx, rows)
}

func (s *Store) hydrate(ctx context.Context, rows []enrollmentRow) ([]Enrollment, error) {
	enrollments := make([]Enrollment, len(rows))
	for i, r := range rows {
		enrollments[i] = r.toEnrollment()
	}
	if err := attachChildren(ctx, s.db, enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func enrollmentFilters(params ListEnrollmentsParams) (string, []interface{}) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if params.Status != "" {
		argCount++
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, params.Status)
	}
	if params.Type != "" {
		argCount++
		where += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, params.Type)
	}
	if params.Priority != "" {
		argCount++
		where += fmt.Sprintf(" AND priority = $%d", argCount)
		args = append(args, params.Priority)
	}
	return where, args
}

// ListEnrollments retrieves enrollments matching the filters, newest first
func (s *Store) ListEnrollments(ctx context.Context, params ListEnrollmentsParams) ([]Enrollment, error) {
	where, args := enrollmentFilters(params)
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments` + where + ` ORDER BY created_at DESC, id DESC`

	argCount := len(args)
	argCount++
	query += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, params.Limit)
	argCount++
	query += fmt.Sprintf(" OFFSET $%d", argCount)
	args = append(args, params.Offset)

	var rows []enrollmentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return s.hydrate(ctx, rows)
}

// CountEnrollments counts enrollments matching the filters
func (s *Store) CountEnrollments(ctx context.Context, params ListEnrollmentsParams) (int, error) {
	where, args := enrollmentFilters(params)
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollments`+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}

const sqlLockEnrollment = `SELECT id FROM enrollments WHERE id = $1 FOR UPDATE`

const sqlUpdateEnrollmentStatus = `
UPDATE enrollments SET
	status = $2,
	reviewed_by = $3,
	reviewed_at = NOW(),
	review_notes = COALESCE($4, review_notes),
	rejection_reason = COALESCE($5, rejection_reason),
	approval_conditions = COALESCE($6, approval_conditions),
	priority = COALESCE($7, priority),
	tags = COALESCE($8, tags),
	follow_up_date = COALESCE($9, follow_up_date),
	updated_at = NOW()
WHERE id = $1`

// changed_at never goes backwards for one enrollment, even if clocks skew
// between concurrent transactions.
const sqlAppendTimelineEntry = `
INSERT INTO enrollment_timeline (enrollment_id, status, changed_by, changed_at, notes)
VALUES (
	$1, $2, $3,
	GREATEST(clock_timestamp(), COALESCE(
		(SELECT MAX(changed_at) FROM enrollment_timeline WHERE enrollment_id = $1),
		'-infinity'::timestamptz
	)),
	$4
)`

// UpdateEnrollmentStatus applies a reviewer transition and appends exactly
// one timeline entry. The row lock serializes concurrent transitions on the
// same enrollment so no entry is lost.
func (s *Store) UpdateEnrollmentStatus(ctx context.Context, params UpdateEnrollmentStatusParams) (Enrollment, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	var locked uuid.UUID
	if err = tx.GetContext(ctx, &locked, sqlLockEnrollment, params.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Enrollment{}, ErrNotFound
		}
		return Enrollment{}, fmt.Errorf("failed to lock enrollment: %w", err)
	}

	var approvalConditions, tags interface{}
	if params.ApprovalConditions != nil {
		approvalConditions = StringArray(params.ApprovalConditions)
	}
	if params.Tags != nil {
		tags = StringArray(params.Tags)
	}

	_, err = tx.ExecContext(ctx, sqlUpdateEnrollmentStatus,
		params.ID, params.Status, params.ChangedBy,
		params.ReviewNotes, params.RejectionReason, approvalConditions,
		params.Priority, tags, params.FollowUpDate,
	)
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to update enrollment status: %w", err)
	}

	if _, err = tx.ExecContext(ctx, sqlAppendTimelineEntry, params.ID, params.Status, params.ChangedBy, params.Notes); err != nil {
		return Enrollment{}, fmt.Errorf("failed to append timeline entry: %w", err)
	}

	enrollment, err := getEnrollment(ctx, tx, params.ID)
	if err != nil {
		return Enrollment{}, err
	}

	if err = tx.Commit(); err != nil {
		return Enrollment{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return enrollment, nil
}

const sqlDeleteEnrollment = `DELETE FROM enrollments WHERE id = $1`

// DeleteEnrollment hard deletes an enrollment; documents and timeline cascade
func (s *Store) DeleteEnrollment(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteEnrollment, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deleted rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
