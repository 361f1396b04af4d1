// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

// Package handle canonicalises user-chosen channel handles and email addresses.
//
// # Usage
//
// Usernames are unique per platform, so "Alice", "ALICE" and the full-width
// "Ａｌｉｃｅ" must all resolve to the same account. Canonicalisation runs
// before every lookup and before every insert.
package handle

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical converts a raw username into its stored form.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFKC (folds compatibility forms: full-width, ligatures).
// 2. Applies Unicode case folding.
// 3. Removes leading "@" and surrounding whitespace.
// 4. Drops interior whitespace and control characters.
func Canonical(raw string) string {
	// Casers are stateful, so each call builds its own chain.
	chain := transform.Chain(norm.NFKC, cases.Fold())
	result, _, err := transform.String(chain, raw)
	if err != nil {
		result = strings.ToLower(raw)
	}

	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "@")

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)
}

// Email lower-cases and trims an email address for storage and lookup.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// LooksLikeEmail reports whether a login identifier should be tried as an email first.
func LooksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@") && !strings.HasPrefix(strings.TrimSpace(identifier), "@")
}
