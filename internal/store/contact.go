package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const contactColumns = `
	id, name, email, phone, company, subject, message, category,
	status, priority, assigned_to, response_content, responded_by, responded_at,
	source, ip_address, user_agent, created_at, updated_at`

type CreateContactParams struct {
	Name      string
	Email     string
	Phone     string
	Company   string
	Subject   string
	Message   string
	Category  string
	IPAddress string
	UserAgent string
}

type ListContactsParams struct {
	Status     string
	Category   string
	Priority   string
	AssignedTo *uuid.UUID
	Limit      int
	Offset     int
}

// UpdateContactParams describes one reviewer update. Nil fields leave the
// stored value untouched. Assign with a nil AssignedTo clears the assignee.
// A non-empty Note is appended.
type UpdateContactParams struct {
	ID         uuid.UUID
	ChangedBy  uuid.UUID
	Status     *string
	Priority   *string
	Assign     bool
	AssignedTo *uuid.UUID
	Response   *string
	Note       string
}

const sqlCreateContact = `
INSERT INTO contacts (name, email, phone, company, subject, message, category, status, priority, source, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'new', 'medium', 'website', $8, $9)
RETURNING ` + contactColumns

func (s *Store) CreateContact(ctx context.Context, params CreateContactParams) (Contact, error) {
	var row contactRow
	err := s.db.GetContext(ctx, &row, sqlCreateContact,
		params.Name, params.Email, params.Phone, params.Company, params.Subject,
		params.Message, params.Category, params.IPAddress, params.UserAgent)
	if err != nil {
		return Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return row.toContact(), nil
}

const sqlGetContactByID = `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

const sqlGetContactNotes = `
SELECT contact_id, content, added_by, added_at
FROM contact_notes
WHERE contact_id = ANY($1::uuid[])
ORDER BY added_at ASC, id ASC`

type contactNoteRow struct {
	ContactID uuid.UUID `db:"contact_id"`
	ContactNote
}

func getContact(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (Contact, error) {
	var row contactRow
	if err := sqlx.GetContext(ctx, q, &row, sqlGetContactByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	contacts := []Contact{row.toContact()}
	if err := attachContactNotes(ctx, q, contacts); err != nil {
		return Contact{}, err
	}
	return contacts[0], nil
}

// attachContactNotes loads the notes for a page of contacts in one query.
func attachContactNotes(ctx context.Context, q sqlx.QueryerContext, contacts []Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	ids := make(StringArray, len(contacts))
	index := make(map[uuid.UUID]int, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID.String()
		index[c.ID] = i
	}

	var notes []contactNoteRow
	if err := sqlx.SelectContext(ctx, q, &notes, sqlGetContactNotes, ids); err != nil {
		return fmt.Errorf("failed to get contact notes: %w", err)
	}
	for _, n := range notes {
		i := index[n.ContactID]
		contacts[i].Notes = append(contacts[i].Notes, n.ContactNote)
	}
	return nil
}

func contactFilters(params ListContactsParams) (string, []interface{}) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if params.Status != "" {
		argCount++
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, params.Status)
	}
	if params.Category != "" {
		argCount++
		where += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, params.Category)
	}
	if params.Priority != "" {
		argCount++
		where += fmt.Sprintf(" AND priority = $%d", argCount)
		args = append(args, params.Priority)
	}
	if params.AssignedTo != nil {
		argCount++
		where += fmt.Sprintf(" AND assigned_to = $%d", argCount)
		args = append(args, *params.AssignedTo)
	}
	return where, args
}

// ListContacts retrieves contact messages, newest first
func (s *Store) ListContacts(ctx context.Context, params ListContactsParams) ([]Contact, error) {
	where, args := contactFilters(params)
	query := `SELECT ` + contactColumns + ` FROM contacts` + where + ` ORDER BY created_at DESC, id DESC`
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	var rows []contactRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	contacts := make([]Contact, len(rows))
	for i, r := range rows {
		contacts[i] = r.toContact()
	}
	if err := attachContactNotes(ctx, s.db, contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *Store) CountContacts(ctx context.Context, params ListContactsParams) (int, error) {
	where, args := contactFilters(params)
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM contacts`+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

const sqlLockContact = `SELECT id FROM contacts WHERE id = $1 FOR UPDATE`

const sqlUpdateContact = `
UPDATE contacts SET
	status = COALESCE($2, status),
	priority = COALESCE($3, priority),
	assigned_to = CASE WHEN $4 THEN $5 ELSE assigned_to END,
	response_content = COALESCE($6, response_content),
	responded_by = CASE WHEN $6::text IS NULL THEN responded_by ELSE $7 END,
	responded_at = CASE WHEN $6::text IS NULL THEN responded_at ELSE NOW() END,
	updated_at = NOW()
WHERE id = $1`

const sqlAppendContactNote = `
INSERT INTO contact_notes (contact_id, content, added_by)
VALUES ($1, $2, $3)`

// UpdateContact applies a reviewer update and appends the note, if any, in
// one transaction.
func (s *Store) UpdateContact(ctx context.Context, params UpdateContactParams) (Contact, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Contact{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	var locked uuid.UUID
	if err = tx.GetContext(ctx, &locked, sqlLockContact, params.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, fmt.Errorf("failed to lock contact: %w", err)
	}

	_, err = tx.ExecContext(ctx, sqlUpdateContact,
		params.ID, params.Status, params.Priority,
		params.Assign, params.AssignedTo,
		params.Response, params.ChangedBy,
	)
	if err != nil {
		return Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}

	if params.Note != "" {
		if _, err = tx.ExecContext(ctx, sqlAppendContactNote, params.ID, params.Note, params.ChangedBy); err != nil {
			return Contact{}, fmt.Errorf("failed to append contact note: %w", err)
		}
	}

	contact, err := getContact(ctx, tx, params.ID)
	if err != nil {
		return Contact{}, err
	}

	if err = tx.Commit(); err != nil {
		return Contact{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return contact, nil
}
