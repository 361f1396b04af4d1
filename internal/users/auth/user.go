// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package auth implements the user identity and session management layer.

It defines the credential record and the dual-token session lifecycle:
registration, login, refresh-token rotation, logout and password change.

# Session States

	Anonymous --login--> Authenticated --logout/change-password--> Revoked
	Authenticated --refresh--> Authenticated (previous refresh token dead)

At most one refresh token is valid per user. Its SHA-256 digest lives on the
account row; issuing a new one overwrites the previous digest.
*/
package auth

import (
	"time"

	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member (and channel) of the v-Tube platform.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string `json:"full_name"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	CoverURL     string `json:"cover_url,omitempty"`

	// RefreshTokenHash is the digest of the single live refresh token, or empty.
	RefreshTokenHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity returns the subject bound into issued tokens.
func (user *User) Identity() sec.Identity {
	return sec.Identity{UserID: user.ID, Username: user.Username}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFullName     = "full_name"
	FieldLogin        = "login"
	FieldOldPassword  = "old_password"
	FieldNewPassword  = "new_password"
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldUser         = "user"
	FieldMessage      = "message"
)

// passwordMinLength is the minimum accepted password length.
const passwordMinLength = 8
