package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const userColumns = `id, first_name, last_name, email, phone, password_hash, role, created_at, updated_at`

type CreateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
}

const sqlCreateUser = `
INSERT INTO users (first_name, last_name, email, phone, password_hash, role)
VALUES ($1, $2, lower($3), $4, $5, $6)
RETURNING ` + userColumns

// CreateUser inserts an account; ErrDuplicate is returned when the email is taken
func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlCreateUser,
		params.FirstName, params.LastName, params.Email, params.Phone, params.PasswordHash, params.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

const sqlGetUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByEmail, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

const sqlGetUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

const sqlUpdateUserRole = `
UPDATE users SET role = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns

// UpdateUserRole changes the role of an existing account
func (s *Store) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlUpdateUserRole, id, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to update user role: %w", err)
	}
	return user, nil
}
