// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Every method is a single atomic statement. Lookups return [apperr.NotFound]
// for unknown accounts and [apperr.Conflict] for duplicate usernames or emails.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given (lower-cased) email.
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given canonical username.
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Returns:
		  - error: apperr.Conflict when the username or email is taken
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces the password hash and revokes the stored
		refresh token in the same statement.
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateAccount replaces the full name and email and returns the fresh record.
	*/
	UpdateAccount(context context.Context, userID, fullName, email string) (*User, error)

	/*
		SetRefreshToken overwrites the stored refresh-token digest unconditionally.
	*/
	SetRefreshToken(context context.Context, userID, digest string) error

	/*
		CompareAndSwapRefreshToken replaces the stored digest only if it still
		equals expected.

		Returns:
		  - bool: false when another rotation or a logout got there first
		  - error: database failures
	*/
	CompareAndSwapRefreshToken(context context.Context, userID, expected, next string) (bool, error)

	/*
		ClearRefreshToken removes the stored digest. Clearing an already empty
		digest is not an error.
	*/
	ClearRefreshToken(context context.Context, userID string) error
}
