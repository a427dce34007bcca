package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "catalogdash/internal/errors"
)

type previewQuery struct {
	Rows  int    `query:"rows" validate:"min=1,max=100"`
	Chart string `json:"chart" validate:"omitempty,chartkind"`
	File  string `json:"file_name" validate:"omitempty,filename"`
}

func TestValidatorStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		in      previewQuery
		field   string
		message string
	}{
		{name: "valid", in: previewQuery{Rows: 5, Chart: "genres", File: "netflix.csv"}},
		{name: "rows too small", in: previewQuery{Rows: 0}, field: "rows", message: "rows must be at least 1"},
		{name: "rows too large", in: previewQuery{Rows: 101}, field: "rows", message: "rows must be at most 100"},
		{name: "unknown chart", in: previewQuery{Rows: 5, Chart: "pie"}, field: "chart"},
		{name: "path in file name", in: previewQuery{Rows: 5, File: "../etc/passwd"}, field: "file_name", message: "file_name must be a plain file name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			require.Len(t, details.Errors, 1)
			assert.Equal(t, tt.field, details.Errors[0].Field)
			if tt.message != "" {
				assert.Equal(t, tt.message, details.Errors[0].Message)
			}
		})
	}
}

func TestValidatorChartKindMessageListsKeys(t *testing.T) {
	err := NewValidator().Struct(previewQuery{Rows: 1, Chart: "nope"})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	msg := apiErr.Details.(apierrors.ValidationErrors).Errors[0].Message
	assert.Contains(t, msg, "genres, trend, countries")
	assert.Contains(t, msg, "genres_2000")
}

func TestValidatorVar(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Var("rows", 20, "max=20"))

	err := v.Var("rows", 21, "max=20")
	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)
	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "rows", details.Errors[0].Field)
	assert.Equal(t, "rows must be at most 20", details.Errors[0].Message)
}

func TestContentTypeValidator(t *testing.T) {
	logger := testLogger(io.Discard)
	mw := ContentTypeValidator(apierrors.NewErrorHandler(logger, false), "multipart/form-data")
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{name: "get passes", method: http.MethodGet, want: http.StatusCreated},
		{name: "multipart accepted", method: http.MethodPost, contentType: "multipart/form-data; boundary=xyz", want: http.StatusCreated},
		{name: "missing", method: http.MethodPost, want: http.StatusBadRequest},
		{name: "json rejected", method: http.MethodPost, contentType: "application/json", want: http.StatusUnsupportedMediaType},
		{name: "malformed", method: http.MethodPost, contentType: "multipart/;;", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/datasets", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
