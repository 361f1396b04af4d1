// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Dhirajsah18/v-Tube/internal/platform/dberr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/postgres"
)

// # User Repository

// userColumns is the projection scanned by [scanUser].
//
// The refresh digest column is nullable; it is coalesced so it scans into a string.
const userColumns = `id, username, email, passwordhash, fullname, avatarurl, coverurl,
	COALESCE(refreshtokenhash, ''), createdat, updatedat`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username/email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, fullname, avatarurl, coverurl, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.AvatarURL,
		user.CoverURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", dberr.Wrap(err, "User"))
	}

	return nil
}

// FindByID retrieves a user record by its primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, "id", id)
}

// FindByEmail retrieves a user record by its unique email address.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "email", email)
}

// FindByUsername retrieves a user record by its unique canonical username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, "username", username)
}

/*
UpdatePassword stores a new password hash and revokes the refresh token.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound when the account does not exist
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, refreshtokenhash = NULL, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", dberr.Wrap(err, "User"))
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User")
	}

	return nil
}

/*
UpdateAccount replaces the mutable account details and returns the updated record.
*/
func (repository *PostgresUserRepository) UpdateAccount(context context.Context, userID, fullName, email string) (*User, error) {
	query := `
		UPDATE users.account
		SET fullname = $2, email = $3, updatedat = $4
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(repository.pool.QueryRow(context, query, userID, fullName, email, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_update_account_failed: %w", dberr.Wrap(err, "User"))
	}

	return user, nil
}

// SetRefreshToken overwrites the stored refresh-token digest (login).
func (repository *PostgresUserRepository) SetRefreshToken(context context.Context, userID, digest string) error {
	const query = "UPDATE users.account SET refreshtokenhash = $2, updatedat = $3 WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, userID, digest, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_refresh_failed: %w", dberr.Wrap(err, "User"))
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User")
	}

	return nil
}

/*
CompareAndSwapRefreshToken rotates the digest only when the stored value still
equals expected. The row lock taken by UPDATE serializes concurrent rotations,
so exactly one of them observes RowsAffected() == 1.
*/
func (repository *PostgresUserRepository) CompareAndSwapRefreshToken(context context.Context, userID, expected, next string) (bool, error) {
	const query = `
		UPDATE users.account
		SET refreshtokenhash = $3, updatedat = $4
		WHERE id = $1 AND refreshtokenhash = $2`

	tag, err := repository.pool.Exec(context, query, userID, expected, next, time.Now())
	if err != nil {
		return false, fmt.Errorf("postgres_user_repo_rotate_refresh_failed: %w", dberr.Wrap(err, "User"))
	}

	return tag.RowsAffected() == 1, nil
}

// ClearRefreshToken removes the stored digest (logout).
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	const query = "UPDATE users.account SET refreshtokenhash = NULL, updatedat = $2 WHERE id = $1"

	if _, err := repository.pool.Exec(context, query, userID, time.Now()); err != nil {
		return fmt.Errorf("postgres_user_repo_clear_refresh_failed: %w", dberr.Wrap(err, "User"))
	}

	return nil
}

// # Helpers

// findOne runs a single-row lookup on a unique column.
func (repository *PostgresUserRepository) findOne(context context.Context, column, value string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE " + column + " = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_by_%s_failed: %w", column, dberr.Wrap(err, "User"))
	}

	return user, nil
}

// scanUser hydrates a [User] from a row produced with [userColumns].
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.AvatarURL,
		&user.CoverURL,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
