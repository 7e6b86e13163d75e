package dto

import "net/http"

// Codes raised by the HTTP layer itself
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// 400: the request itself is wrong
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_RATE":           http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_LINE_ITEM":      http.StatusBadRequest,
	"INVALID_PAYMENT_TYPE":   http.StatusBadRequest,
	"INVALID_TRANSPORT_MODE": http.StatusBadRequest,
	"INVALID_REFERENCE":      http.StatusBadRequest,
	"INVALID_TRANSACTION":    http.StatusBadRequest,
	"INVALID_BATCH_NAME":     http.StatusBadRequest,
	"INVALID_BATCH_DATES":    http.StatusBadRequest,
	"INVALID_CUSTOMER":       http.StatusBadRequest,
	"INVALID_ACTOR":          http.StatusBadRequest,
	"INVALID_CREATOR":        http.StatusBadRequest,
	"NO_ORDER_ITEMS":         http.StatusBadRequest,
	"TOTAL_MISMATCH":         http.StatusBadRequest,

	// 401 and 403
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	"INVALID_WEBHOOK_TOKEN": http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,

	// 404
	"NOT_FOUND":               http.StatusNotFound,
	"NO_ACTIVE_BATCH":         http.StatusNotFound,
	"PROVIDER_NOT_REGISTERED": http.StatusNotFound,

	// 409: the request conflicts with current state
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"BATCH_ALREADY_OPEN":   http.StatusConflict,
	"CHECKOUT_BLOCKED":     http.StatusConflict,
	"ALREADY_PAID":         http.StatusConflict,

	// 413
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// 422: well-formed but not allowed now
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INVALID_TRANSITION": http.StatusUnprocessableEntity,
	"SNAPSHOT_LOCKED":    http.StatusUnprocessableEntity,
	"NOTHING_TO_PAY":     http.StatusUnprocessableEntity,

	// 502: the payment provider failed us
	"GATEWAY_UNAVAILABLE": http.StatusBadGateway,
	"GATEWAY_REJECTED":    http.StatusBadGateway,

	// 503
	"CONFIG_UNAVAILABLE": http.StatusServiceUnavailable,
	"RECONCILE_FAILED":   http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
