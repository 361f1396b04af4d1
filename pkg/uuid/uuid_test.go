// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dhirajsah18/v-Tube/pkg/uuid"
)

func TestNew_IsValidV7(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, byte('7'), first[14], "version nibble")
}

func TestNormalize(t *testing.T) {
	id, ok := uuid.Normalize("0190F5B8-7A1E-7C00-8000-000000000001")
	assert.True(t, ok)
	assert.Equal(t, "0190f5b8-7a1e-7c00-8000-000000000001", id)

	_, ok = uuid.Normalize("v1")
	assert.False(t, ok)

	_, ok = uuid.Normalize("urn:uuid:0190f5b8-7a1e-7c00-8000-000000000001")
	assert.False(t, ok)
}
