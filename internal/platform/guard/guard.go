// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

// Package guard is the authorization capability shared by every protected operation.
//
// # Responsibilities
//
//   - Authentication: turn a presented access token into caller claims.
//   - Ownership: one reusable check consumed by every owned content kind.
//
// The guard never touches storage. Access tokens are verified statelessly, so a
// revoked session keeps its access token usable until it expires.
package guard

import (
	"strings"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
)

// TokenVerifier validates an access token and returns its claims.
//
// Implemented by [sec.TokenService].
type TokenVerifier interface {
	VerifyAccessToken(token string) (*sec.AuthClaims, error)
}

// Owned is implemented by every resource carrying a single owner
// (video, comment, tweet, playlist).
type Owned interface {
	OwnerID() string
}

// Guard authorizes callers from their access token.
type Guard struct {
	verifier TokenVerifier
}

// New creates a [Guard] backed by verifier.
func New(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

/*
Authorize verifies an access token and returns the caller identity.

Returns:
  - *sec.AuthClaims: caller identity on success
  - error: apperr.Unauthorized when the token is missing, malformed, expired,
    or of the wrong kind
*/
func (guard *Guard) Authorize(accessToken string) (*sec.AuthClaims, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	claims, err := guard.verifier.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired access token").WithCause(err)
	}

	return claims, nil
}

// RequireOwnership fails with Forbidden unless callerID owns the resource.
// An empty callerID is reported as Unauthorized.
func RequireOwnership(resourceOwnerID, callerID string) error {
	if callerID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	if resourceOwnerID != callerID {
		return apperr.Forbidden("You do not own this resource")
	}

	return nil
}

// RequireOwner applies [RequireOwnership] to any [Owned] resource.
func RequireOwner(resource Owned, callerID string) error {
	return RequireOwnership(resource.OwnerID(), callerID)
}
