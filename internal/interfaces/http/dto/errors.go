package dto

import "net/http"

// Stable error codes surfaced by the API. Domain errors carry these codes
// directly so clients can branch on them without parsing messages.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"PERMISSION_DENIED":   http.StatusForbidden,

	"NOT_FOUND":        http.StatusNotFound,
	"ALREADY_EXISTS":   http.StatusConflict,
	"UPLOAD_NOT_FOUND": http.StatusNotFound,

	"DUPLICATE_OPERATION": http.StatusConflict,

	"INVALID_TRANSITION":    http.StatusUnprocessableEntity,
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"MISSING_DEPENDENCY":    http.StatusUnprocessableEntity,
	"EMPTY_COMMENT":         http.StatusUnprocessableEntity,
	"UNSUPPORTED_FILE_TYPE": http.StatusUnprocessableEntity,

	"INVALID_SHIPPING_TYPE": http.StatusBadRequest,
	"INVALID_CASE_NUMBER":   http.StatusBadRequest,
	"INVALID_CUSTOMER":      http.StatusBadRequest,
	"INVALID_AMOUNT":        http.StatusBadRequest,
	"INVALID_INSTALLMENT":   http.StatusBadRequest,
	"UNKNOWN_DOCUMENT":      http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are treated as business rule violations, not server faults.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
