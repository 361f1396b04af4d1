// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
	"github.com/Dhirajsah18/v-Tube/internal/platform/validate"
	"github.com/Dhirajsah18/v-Tube/pkg/handle"
	"github.com/Dhirajsah18/v-Tube/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for signing and verifying session tokens.
//
// Implemented by [sec.TokenService].
type TokenIssuer interface {
	IssueAccessToken(identity sec.Identity) (string, time.Time, error)
	IssueRefreshToken(identity sec.Identity) (string, time.Time, error)
	Verify(token string, expected sec.TokenKind) (*sec.AuthClaims, error)
}

// Service implements registration, login, refresh rotation, logout and
// password change. Only the digest of the newest refresh token is stored.
// Rotation replaces it and logout clears it.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokens TokenIssuer) *Service {
	return &Service{
		userRepository: userRepo,
		tokenIssuer:    tokens,
	}
}

// Session is the credential pair handed to a client after login or refresh.
type Session struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FullName  string
	AvatarURL string
	CoverURL  string
}

/*
Register validates, hashes, and persists a brand new user account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Validation, Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	username := handle.Canonical(input.Username)
	email := handle.Email(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, 100).
		Required(FieldUsername, username).
		Username(FieldUsername, username).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, passwordMinLength).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Verify identity uniqueness up front for a friendly message. The unique
	// indexes still decide races between concurrent registrations.
	if err := service.ensureAvailable(context, email, username); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		AvatarURL:    input.AvatarURL,
		CoverURL:     input.CoverURL,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("User with email or username already exists")
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_registered", slog.String("user_id", user.ID))

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

/*
Login validates user credentials and issues a fresh token pair.

The stored refresh digest is overwritten, so any refresh token from an
earlier login stops working.

Returns:
  - *Session: Transport-ready credentials
  - err: NotFound for an unknown identity, InvalidCredential for a wrong password
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.findByLogin(context, input.Login)
	if err != nil {
		return nil, err
	}

	// bcrypt comparison is constant-time with respect to the hash.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.InvalidCredential("Invalid user credentials")
	}

	session, err := service.issueSession(user)
	if err != nil {
		return nil, err
	}

	if err := service.userRepository.SetRefreshToken(context, user.ID, sec.HashToken(session.RefreshToken)); err != nil {
		return nil, fmt.Errorf("auth_service_login_store_refresh_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return session, nil
}

/*
Logout revokes the user's refresh token.

Clearing is unconditional and idempotent: logging out twice succeeds twice.
Access tokens already issued stay valid until their expiry.
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if userID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	if err := service.userRepository.ClearRefreshToken(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_logged_out", slog.String("user_id", userID))

	return nil
}

// # Session Management

/*
Refresh implements single-use refresh-token rotation.

Description: Verifies the presented token, checks it against the stored
digest, and swaps in the digest of a new token atomically. Of two concurrent
refreshes with the same token exactly one succeeds.

Returns:
  - *Session: New credential pair
  - err: Unauthorized when no token was presented, TokenInvalid otherwise
*/
func (service *Service) Refresh(context context.Context, presented string) (*Session, error) {
	if presented == "" {
		return nil, apperr.Unauthorized("Unauthorized request")
	}

	claims, err := service.tokenIssuer.Verify(presented, sec.KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.TokenInvalid("Invalid refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	presentedDigest := sec.HashToken(presented)
	if !sec.DigestsEqual(user.RefreshTokenHash, presentedDigest) {
		ctxutil.GetLogger(context).WarnContext(context, "refresh_token_replay_rejected",
			slog.String("user_id", user.ID),
		)
		return nil, apperr.TokenInvalid("Refresh token is expired or used")
	}

	session, err := service.issueSession(user)
	if err != nil {
		return nil, err
	}

	swapped, err := service.userRepository.CompareAndSwapRefreshToken(
		context, user.ID, presentedDigest, sec.HashToken(session.RefreshToken),
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_rotate_failed: %w", err)
	}

	// Another rotation or a logout won the race.
	if !swapped {
		return nil, apperr.TokenInvalid("Refresh token is expired or used")
	}

	return session, nil
}

// # Credential Management

/*
ChangePassword verifies the current password and stores a new one.

The stored refresh token is revoked together with the hash update, so every
device has to log in again once its access token expires.

Returns:
  - err: InvalidCredential when oldPassword does not match
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, oldPassword).
		Required(FieldNewPassword, newPassword).
		MinLen(FieldNewPassword, newPassword, passwordMinLength).
		MaxBytes(FieldNewPassword, newPassword, sec.MaxPasswordBytes).
		Custom(FieldNewPassword, newPassword == oldPassword, "Must differ from the old password")

	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.InvalidCredential("Old password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_password_changed", slog.String("user_id", userID))

	return nil
}

// # Helpers

// ensureAvailable fails with Conflict when the email or username is taken.
func (service *Service) ensureAvailable(context context.Context, email, username string) error {
	lookups := []func() (*User, error){
		func() (*User, error) { return service.userRepository.FindByEmail(context, email) },
		func() (*User, error) { return service.userRepository.FindByUsername(context, username) },
	}

	for _, lookup := range lookups {
		_, err := lookup()
		if err == nil {
			return apperr.Conflict("User with email or username already exists")
		}
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return fmt.Errorf("auth_service_availability_check_failed: %w", err)
		}
	}

	return nil
}

// findByLogin resolves an email or username. Only NotFound falls through to the
// second lookup; any other failure is returned as is.
func (service *Service) findByLogin(context context.Context, login string) (*User, error) {
	byEmail := func() (*User, error) { return service.userRepository.FindByEmail(context, handle.Email(login)) }
	byUsername := func() (*User, error) { return service.userRepository.FindByUsername(context, handle.Canonical(login)) }

	first, second := byUsername, byEmail
	if handle.LooksLikeEmail(login) {
		first, second = byEmail, byUsername
	}

	user, err := first()
	if err == nil {
		return user, nil
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	user, err = second()
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	return user, nil
}

// issueSession signs a new access/refresh pair for user.
func (service *Service) issueSession(user *User) (*Session, error) {
	identity := user.Identity()

	accessToken, accessExpiresAt, err := service.tokenIssuer.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, refreshExpiresAt, err := service.tokenIssuer.IssueRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &Session{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		User:                  user,
	}, nil
}
