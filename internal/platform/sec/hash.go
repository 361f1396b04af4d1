// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor applied to stored credentials.
const PasswordCost = bcrypt.DefaultCost

// MaxPasswordBytes is bcrypt's input limit. Longer secrets are rejected, never truncated.
const MaxPasswordBytes = 72

// HashPassword derives the stored credential for a plain-text password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("sec_hash_password_failed: %w", err)
	}
	return string(hashed), nil
}

// CheckPasswordHash reports whether password matches storedHash.
//
// The comparison runs in constant time with respect to the hash; plaintext is
// never compared directly.
func CheckPasswordHash(password, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
