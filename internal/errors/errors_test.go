package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorWithFieldCopies(t *testing.T) {
	base := New(http.StatusBadRequest, CodeInvalidRequest, "bad")
	withField := base.WithField("a", 1).WithField("b", 2)

	assert.Nil(t, base.Fields)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, withField.Fields)
	assert.Equal(t, "bad", withField.Error())
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		status int
		code   string
	}{
		{"missing column", MissingColumn("type"), http.StatusUnprocessableEntity, CodeMissingColumn},
		{"unreadable", UnreadableFile(fmt.Errorf("x")), http.StatusUnprocessableEntity, CodeUnreadableFile},
		{"unknown chart", UnknownChartKind("pie"), http.StatusBadRequest, CodeUnknownChart},
		{"dataset", DatasetNotFound("id"), http.StatusNotFound, CodeDatasetNotFound},
		{"too large", PayloadTooLarge(10), http.StatusRequestEntityTooLarge, CodePayloadTooLarge},
		{"parameter", MissingParameter("file"), http.StatusBadRequest, CodeMissingParameter},
		{"validation", ErrValidation("rows", "must be at most 100"), http.StatusBadRequest, CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}

	assert.Equal(t, "required column `type` missing", MissingColumn("type").Message)
	assert.Nil(t, ErrPayloadTooLarge.Fields, "shared errors are never mutated")
}

func TestAppError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewInputError("open dataset", cause).WithContext("path", "catalog.csv")

	assert.Equal(t, "[INPUT] open dataset: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "catalog.csv", err.Context["path"])

	wrapped := fmt.Errorf("wrapped: %w", NewUsageError("-preview must be between 0 and %d", 100))
	assert.True(t, IsType(wrapped, ErrTypeUsage))
	assert.False(t, IsType(wrapped, ErrTypeConfig))
	assert.False(t, IsType(cause, ErrTypeInput))
	assert.Equal(t, "wrapped: [USAGE] -preview must be between 0 and 100", wrapped.Error())
}
