// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
	"github.com/Dhirajsah18/v-Tube/pkg/pagination"
)

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

/*
TestError_WrappedAppError keeps the taxonomy through fmt.Errorf wrapping.
*/
func TestError_WrappedAppError(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithRequestID(request.Context(), "req-1"))
	recorder := httptest.NewRecorder()

	respond.Error(recorder, request, fmt.Errorf("relation_service_find_failed: %w", apperr.NotFound("Video")))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	envelope := decodeError(t, recorder)
	assert.Equal(t, "Video not found", envelope.Error)
	assert.Equal(t, apperr.CodeNotFound, envelope.Code)
	assert.Equal(t, "req-1", envelope.RequestID)
}

/*
TestError_HidesUnknownErrors never leaks raw error text.
*/
func TestError_HidesUnknownErrors(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	envelope := decodeError(t, recorder)
	assert.Equal(t, apperr.CodeInternal, envelope.Code)
	assert.NotContains(t, envelope.Error, "password")
}

func TestSuccessEnvelopes(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]string{"state": "created"})
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"state":"created"}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.Paginated(recorder, []int{1}, pagination.NewMeta(1, 20, 1))
	assert.JSONEq(t, `{"data":[1],"meta":{"page":1,"limit":20,"total":1,"total_pages":1,"has_next":false}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.NoContent(recorder)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}
