package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeOverpayment, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}

	t.Run("unmapped code falls back to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
	})
}

func TestNormalizeErrorCode(t *testing.T) {
	// domain codes map to the wire format, everything else passes through
	tests := []struct {
		input string
		want  string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"VALIDATION_ERROR", ErrCodeValidation},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{"FORBIDDEN", ErrCodeForbidden},
		{"INVALID_TRANSITION", ErrCodeInvalidState},
		{"INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"OVERPAYMENT_REJECTED", ErrCodeOverpayment},
		{"BAD_REQUEST", ErrCodeBadRequest},
		{"INTERNAL_ERROR", ErrCodeInternal},
		{ErrCodeNotFound, ErrCodeNotFound},
		{ErrCodeValidation, ErrCodeValidation},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryErrorCodeHasAStatus(t *testing.T) {
	for _, code := range []string{
		ErrCodeUnknown, ErrCodeInternal,
		ErrCodeValidation, ErrCodeValidationRequired, ErrCodeValidationFormat, ErrCodeValidationRange,
		ErrCodeUnauthorized, ErrCodeForbidden, ErrCodeTokenExpired, ErrCodeTokenInvalid,
		ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict,
		ErrCodeInvalidState, ErrCodeBusinessRule, ErrCodeInsufficientStock, ErrCodeOverpayment,
		ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON,
		ErrCodeRateLimited,
	} {
		status, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "code %s is missing from ErrorCodeHTTPStatus", code)
		assert.Greater(t, status, 0)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", "req-123-456")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Validation failed", "req-789", []ValidationDetail{
		{Field: "sku", Message: "SKU is required"},
		{Field: "quantity", Message: "Must be greater than zero"},
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Validation failed", resp.Error.Message)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "sku", resp.Error.Details[0].Field)
	assert.Equal(t, "SKU is required", resp.Error.Details[0].Message)
}

func TestErrorResponseJSONRoundTrip(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Warung not found", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "Warung not found", decoded.Error.Message)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"name": "Beras 5kg"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 100, 1, 10)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
	assert.Equal(t, 10, resp.Meta.TotalPages)
}

func TestSuccessResponseMetaPagination(t *testing.T) {
	tests := []struct {
		total     int64
		pageSize  int
		wantPages int
		wantSize  int
	}{
		{100, 10, 10, 10},
		{101, 10, 11, 10},
		{0, 10, 0, 10},
		{9, 10, 1, 10},
		{10, 10, 1, 10},
		{11, 10, 2, 10},
		// non-positive page size falls back to 20
		{100, 0, 5, 20},
		{100, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		assert.Equal(t, tt.wantPages, resp.Meta.TotalPages, "total=%d pageSize=%d", tt.total, tt.pageSize)
		assert.Equal(t, tt.wantSize, resp.Meta.PageSize, "total=%d pageSize=%d", tt.total, tt.pageSize)
	}
}
