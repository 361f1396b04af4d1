// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package sec

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 digest of a token.
//
// Refresh tokens are persisted only as digests, so a database leak does not
// hand out replayable credentials.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// DigestsEqual compares two token digests in constant time.
// An empty stored digest never matches.
func DigestsEqual(stored, presented string) bool {
	if stored == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
