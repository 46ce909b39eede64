package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
	"github.com/meryemgkrt/food-ordering/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Response{Data: map[string]string{"id": "p1"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"p1"`)
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/products/p1", nil)

	WriteError(rec, r, apperrors.NotFound("product", "p1"), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "product")
}

func TestWriteError_WrappedSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.Wrap(apperrors.ErrNotFound, "load cart"), http.StatusNotFound, "NOT_FOUND"},
		{"already exists", apperrors.Wrap(apperrors.ErrAlreadyExists, "create user"), http.StatusConflict, "ALREADY_EXISTS"},
		{"conflict", apperrors.Wrap(apperrors.ErrConflict, "save cart"), http.StatusConflict, "CONFLICT"},
		{"invalid input", apperrors.Wrap(apperrors.ErrInvalidInput, "parse status"), http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", nil)

			WriteError(rec, r, tt.err, testLogger())

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestWriteError_UnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, r, errors.New("pq: connection reset"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	// Internal details must not leak to clients.
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestWriteValidationError_FieldMap(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}
	err := validator.Validate(payload{Email: "nope"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields["Email"], "valid email")
}

func TestWriteValidationError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, errors.New("decode request body: unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestParseUUID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseUUID(rec, "0d1f7d4e-8a30-4f3a-9c41-2f6a3c1b5e77")

	assert.True(t, ok)
	assert.Equal(t, "0d1f7d4e-8a30-4f3a-9c41-2f6a3c1b5e77", id.String())
}

func TestParseUUID_Invalid(t *testing.T) {
	rec := httptest.NewRecorder()
	_, ok := ParseUUID(rec, "not-a-uuid")

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}
