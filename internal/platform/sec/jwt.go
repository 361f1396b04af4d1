// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenIssuer] and [guard.TokenVerifier] interfaces.
//
// # Token Kinds
//
// Access and refresh tokens are signed with two distinct HMAC keys AND carry a
// "typ" claim. Either check alone rejects a refresh token presented as an access
// token (and vice versa); both are enforced.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
)

// TokenKind discriminates access tokens from refresh tokens.
type TokenKind string

const (
	// KindAccess marks a short-lived, stateless request credential.
	KindAccess TokenKind = "access"

	// KindRefresh marks a long-lived credential checked against the stored digest.
	KindRefresh TokenKind = "refresh"
)

// ErrInvalidTokenConfig is returned by [NewTokenService] for unusable key or TTL settings.
var ErrInvalidTokenConfig = errors.New("sec: invalid token configuration")

// Identity is the subject bound into every issued token.
type Identity struct {
	UserID   string
	Username string
}

// AuthClaims represents the payload embedded inside a JWT.
//
// # Why custom claims?
//
// By embedding the UserID and Username directly inside the JWT, the
// [middleware.Authenticate] can reconstruct the active user context WITHOUT
// querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string    `json:"uid"`
	Username string    `json:"unm"`
	Kind     TokenKind `json:"typ"`
}

// TokenConfig carries the signing secrets and expiry policy of both token kinds.
type TokenConfig struct {
	AccessSigningKey  []byte
	RefreshSigningKey []byte
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	Issuer            string

	// Now overrides the clock. Defaults to [time.Now].
	Now func() time.Time
}

// TokenService handles generation and verification of HS256 JWT tokens.
type TokenService struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

// NewTokenService creates a new TokenService.
//
// It refuses empty keys, identical access/refresh keys, and non-positive TTLs.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.AccessSigningKey) == 0 || len(cfg.RefreshSigningKey) == 0 {
		return nil, fmt.Errorf("%w: signing keys must not be empty", ErrInvalidTokenConfig)
	}

	if string(cfg.AccessSigningKey) == string(cfg.RefreshSigningKey) {
		return nil, fmt.Errorf("%w: access and refresh signing keys must differ", ErrInvalidTokenConfig)
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("%w: token TTLs must be positive", ErrInvalidTokenConfig)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &TokenService{
		accessKey:  cfg.AccessSigningKey,
		refreshKey: cfg.RefreshSigningKey,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.Issuer,
		now:        now,
	}, nil
}

// AccessTokenTTL reports the lifetime of issued access tokens.
func (service *TokenService) AccessTokenTTL() time.Duration { return service.accessTTL }

// IssueAccessToken signs a short-lived token binding the subject identity.
func (service *TokenService) IssueAccessToken(identity Identity) (string, time.Time, error) {
	return service.issue(identity, KindAccess)
}

// IssueRefreshToken signs a longer-lived token binding the subject identity.
func (service *TokenService) IssueRefreshToken(identity Identity) (string, time.Time, error) {
	return service.issue(identity, KindRefresh)
}

// Verify checks signature, algorithm, issuer, expiry and kind of a JWT string.
//
// Every failure is reported as an [apperr.TokenInvalid] error.
func (service *TokenService) Verify(tokenString string, expected TokenKind) (*AuthClaims, error) {
	key, err := service.keyFor(expected)
	if err != nil {
		return nil, apperr.TokenInvalid("Invalid token").WithCause(err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, apperr.TokenInvalid("Invalid or expired token").WithCause(err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, apperr.TokenInvalid("Invalid token claims")
	}

	if claims.Kind != expected {
		return nil, apperr.TokenInvalid("Token kind mismatch")
	}

	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, apperr.TokenInvalid("Token subject mismatch")
	}

	return claims, nil
}

// VerifyAccessToken is the [guard.TokenVerifier] entry point.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	return service.Verify(tokenString, KindAccess)
}

// issue builds and signs a token of the given kind.
func (service *TokenService) issue(identity Identity, kind TokenKind) (string, time.Time, error) {
	key, err := service.keyFor(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	timeToLive := service.accessTTL
	if kind == KindRefresh {
		timeToLive = service.refreshTTL
	}

	currentTime := service.now()
	expiresAt := currentTime.Add(timeToLive)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.UserID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   identity.UserID,
		Username: identity.Username,
		Kind:     kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign %s token: %w", kind, err)
	}

	return signedToken, expiresAt, nil
}

// keyFor selects the signing key of a token kind.
func (service *TokenService) keyFor(kind TokenKind) ([]byte, error) {
	switch kind {
	case KindAccess:
		return service.accessKey, nil
	case KindRefresh:
		return service.refreshKey, nil
	default:
		return nil, fmt.Errorf("sec: unknown token kind %q", kind)
	}
}
