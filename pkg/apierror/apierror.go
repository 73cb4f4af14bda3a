package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Well-known error codes emitted by the backend or synthesized by the client.
const (
	CodeNetworkError = "NETWORK_ERROR"
	CodeUnknownError = "UNKNOWN_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
)

// Generic messages shown when the server did not provide one.
const (
	genericMessage = "Đã xảy ra lỗi không xác định"
	networkMessage = "Không thể kết nối tới máy chủ. Vui lòng kiểm tra kết nối mạng."
)

// APIError is the normalized error contract every failed call resolves to.
// A transport failure carries StatusCode 0; server failures carry the HTTP
// status they arrived with.
type APIError struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	ErrorCode  string      `json:"errorCode"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.ErrorCode, e.StatusCode, e.Message)
}

// New builds an APIError for the given status and code.
func New(statusCode int, errorCode, message string) *APIError {
	if message == "" {
		message = genericMessage
	}
	if errorCode == "" {
		errorCode = CodeUnknownError
	}
	return &APIError{
		Success:    false,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Network synthesizes the error used when no server response exists at all.
func Network() *APIError {
	return &APIError{
		Success:    false,
		StatusCode: 0,
		ErrorCode:  CodeNetworkError,
		Message:    networkMessage,
	}
}

// Normalize coerces a server error body into the APIError shape. Bodies
// already conforming to the contract pass through unchanged; anything else
// is reshaped from the HTTP status plus whatever fields the body carries.
func Normalize(statusCode int, body []byte) *APIError {
	var probe struct {
		Success    *bool       `json:"success"`
		StatusCode int         `json:"statusCode"`
		ErrorCode  string      `json:"errorCode"`
		Message    string      `json:"message"`
		Details    interface{} `json:"details"`
	}
	if len(body) > 0 && json.Unmarshal(body, &probe) == nil {
		if probe.Success != nil && !*probe.Success && probe.StatusCode != 0 && probe.ErrorCode != "" {
			return &APIError{
				Success:    false,
				StatusCode: probe.StatusCode,
				ErrorCode:  probe.ErrorCode,
				Message:    probe.Message,
				Details:    probe.Details,
			}
		}
		norm := New(statusCode, probe.ErrorCode, probe.Message)
		norm.Details = probe.Details
		return norm
	}
	return New(statusCode, "", "")
}

// EmptyPayloadError marks a binary download that completed over the wire
// but delivered zero bytes. It is deliberately not an APIError so callers
// can tell a functional failure apart from a transport or server one.
type EmptyPayloadError struct {
	Operation string
}

func (e *EmptyPayloadError) Error() string {
	return fmt.Sprintf("%s: received empty payload", e.Operation)
}

// Status helpers used by presentation code for branching.

// As unwraps err into its APIError, if it carries one.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsValidation(err error) bool   { return hasStatus(err, http.StatusBadRequest) }
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }
func IsForbidden(err error) bool    { return hasStatus(err, http.StatusForbidden) }
func IsNotFound(err error) bool     { return hasStatus(err, http.StatusNotFound) }
func IsConflict(err error) bool     { return hasStatus(err, http.StatusConflict) }

func IsNetwork(err error) bool {
	apiErr, ok := As(err)
	return ok && apiErr.StatusCode == 0 && apiErr.ErrorCode == CodeNetworkError
}

func hasStatus(err error, status int) bool {
	apiErr, ok := As(err)
	return ok && apiErr.StatusCode == status
}
