package apierror

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePassThrough(t *testing.T) {
	body := []byte(`{"success":false,"statusCode":409,"errorCode":"APPOINTMENT_CONFLICT","message":"Trùng lịch hẹn","details":{"appointmentDate":"2025-03-10"}}`)

	apiErr := Normalize(http.StatusConflict, body)

	assert.False(t, apiErr.Success)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "APPOINTMENT_CONFLICT", apiErr.ErrorCode)
	assert.Equal(t, "Trùng lịch hẹn", apiErr.Message)
	assert.NotNil(t, apiErr.Details)
}

func TestNormalizeReshapesNonConformantBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"plain message", `{"message":"boom"}`},
		{"empty object", `{}`},
		{"html error page", `<html>502</html>`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := Normalize(http.StatusBadGateway, []byte(tt.body))

			assert.False(t, apiErr.Success)
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
			assert.NotEmpty(t, apiErr.ErrorCode)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestNormalizeKeepsServerFields(t *testing.T) {
	apiErr := Normalize(http.StatusBadRequest, []byte(`{"errorCode":"VALIDATION_ERROR","message":"ngày không hợp lệ","details":["appointmentDate"]}`))

	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.ErrorCode)
	assert.Equal(t, "ngày không hợp lệ", apiErr.Message)
	assert.NotNil(t, apiErr.Details)
}

func TestNetworkShape(t *testing.T) {
	apiErr := Network()

	assert.False(t, apiErr.Success)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, CodeNetworkError, apiErr.ErrorCode)
	assert.NotEmpty(t, apiErr.Message)
	assert.True(t, IsNetwork(apiErr))
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, IsValidation(New(400, "", "")))
	assert.True(t, IsUnauthorized(New(401, "", "")))
	assert.True(t, IsForbidden(New(403, "", "")))
	assert.True(t, IsNotFound(New(404, "", "")))
	assert.True(t, IsConflict(New(409, "", "")))
	assert.False(t, IsForbidden(New(404, "", "")))
	assert.False(t, IsNetwork(New(500, "", "")))
}

func TestEmptyPayloadErrorIsDistinct(t *testing.T) {
	err := &EmptyPayloadError{Operation: "/me/invoices/1/export.pdf"}

	require.Error(t, err)
	_, isAPI := As(err)
	assert.False(t, isAPI)
	assert.Contains(t, err.Error(), "empty payload")
}
