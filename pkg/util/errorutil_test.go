package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{NewInvalidHandle("joao"), "INVALID_HANDLE", http.StatusBadRequest},
		{NewHandleTaken("joao.silva"), "HANDLE_TAKEN", http.StatusConflict},
		{NewInvalidCredentials(), "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{NewNotFound("ticket"), "NOT_FOUND", http.StatusNotFound},
		{NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{NewPreconditionFailed("stale", nil), "PRECONDITION_FAILED", http.StatusConflict},
		{NewEmptyComment(), "EMPTY_COMMENT", http.StatusBadRequest},
		{NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewStorageError(errors.New("conn refused")), "STORAGE_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			var de *DomainError
			require.True(t, errors.As(tt.err, &de))
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.status, de.HTTPStatus)
			assert.True(t, IsCode(tt.err, tt.code))
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("conn refused")
	err := NewStorageError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "conn refused")
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	de := ToDomainError(NewNotFound("ticket"))
	assert.Equal(t, "NOT_FOUND", de.Code)

	// missing rows surface as not found, even when wrapped
	de = ToDomainError(fmt.Errorf("load ticket: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", de.Code)

	de = ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	assert.False(t, IsCode(nil, "NOT_FOUND"))
	assert.False(t, IsCode(errors.New("plain"), "NOT_FOUND"))
	assert.False(t, IsCode(NewNotFound("ticket"), "FORBIDDEN"))
	assert.True(t, IsCode(fmt.Errorf("wrap: %w", NewNotFound("ticket")), "NOT_FOUND"))
}
