// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the google/uuid library to generate Version 7 values for primary keys
and to validate identifiers arriving in URLs.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Friendly: Prevents index fragmentation in PostgreSQL (B-tree optimal).
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// # Validation

// Normalize parses raw in any accepted UUID form and returns its canonical
// lower-case hyphenated string.
func Normalize(raw string) (string, bool) {
	if len(raw) != 36 {
		return "", false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}

	return id.String(), true
}

// Valid reports whether raw is a canonical-length UUID string.
func Valid(raw string) bool {
	_, ok := Normalize(raw)
	return ok
}
