// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// Each field reports only its first failing rule, so a chain such as
// Required then Email on an empty value yields one message for that field.
// Service methods validate; handlers and stores never do.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
)

var (
	// usernameRegex matches a canonical channel handle: lowercase letters, digits, '_' and '.'.
	usernameRegex = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// A Validator is single-use and not safe for concurrent use.
type Validator struct {
	errs   []apperr.FieldError
	failed map[string]bool
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) == "", "This field is required")
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

// MaxBytes fails if the encoded length exceeds max bytes (bcrypt input limit).
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	return v.check(field, len(value) > max, fmt.Sprintf("Maximum %d bytes", max))
}

// Email fails if the value is not a bare RFC 5322 address.
//
// Display-name forms such as "Alice <a@x.com>" are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(field, err != nil || address.Address != value, "Must be a valid email address")
}

// Username fails if the value is not a canonical channel handle.
//
// Callers canonicalise with [handle.Canonical] before validating.
func (v *Validator) Username(field, value string) *Validator {
	return v.check(field, !usernameRegex.MatchString(value), "Must be 3-30 characters: lowercase letters, digits, '_' or '.'")
}

// Custom adds a failure with a custom message if the condition is true.
//
//	v.Custom("new_password", next == current, "Must differ from the old password")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, failed, message)
}

// Err returns a VALIDATION_ERROR [apperr.AppError] carrying every field failure,
// or nil if all rules passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// check records message for field when failed, unless field already failed.
func (v *Validator) check(field string, failed bool, message string) *Validator {
	if !failed || v.failed[field] {
		return v
	}

	if v.failed == nil {
		v.failed = make(map[string]bool)
	}
	v.failed[field] = true
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})

	return v
}
