package dto

import "net/http"

// API error codes. The codes mirror the domain error codes one to one so
// clients see the same vocabulary whether an error crossed the HTTP
// boundary or showed up in a log line.
const (
	// Generic
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"

	// Concurrency
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// errorCodeHTTPStatus maps domain error codes to HTTP statuses. Codes not
// listed here fall back to 422: an unknown domain code is still a business
// rejection, never a server fault.
var errorCodeHTTPStatus = map[string]int{
	// Not found
	"NOT_FOUND": http.StatusNotFound,

	// Auth and tenancy
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"INVALID_CREDENTIALS":  http.StatusUnauthorized,
	"TENANT_SCOPE_MISSING": http.StatusUnauthorized,
	"FORBIDDEN":            http.StatusForbidden,
	"ACCOUNT_LOCKED":       http.StatusForbidden,
	"USER_DEACTIVATED":     http.StatusForbidden,
	"PHARMACY_SUSPENDED":   http.StatusForbidden,

	// Uniqueness conflicts
	"ALREADY_EXISTS": http.StatusConflict,
	"ACCOUNT_EXISTS": http.StatusConflict,
	"BARCODE_TAKEN":  http.StatusConflict,
	"PHONE_TAKEN":    http.StatusConflict,
	"NAME_TAKEN":     http.StatusConflict,
	"LICENSE_TAKEN":  http.StatusConflict,
	"USERNAME_TAKEN": http.StatusConflict,
	"DUPLICATE_LOT":  http.StatusConflict,

	// Optimistic locking
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Malformed input
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_BARCODE":        http.StatusBadRequest,
	"INVALID_CEILING":        http.StatusBadRequest,
	"INVALID_CUSTOMER":       http.StatusBadRequest,
	"INVALID_DIRECTION":      http.StatusBadRequest,
	"INVALID_DISPLAY_NAME":   http.StatusBadRequest,
	"INVALID_EMAIL":          http.StatusBadRequest,
	"INVALID_EXPIRY":         http.StatusBadRequest,
	"INVALID_FLOAT":          http.StatusBadRequest,
	"INVALID_INSURER":        http.StatusBadRequest,
	"INVALID_INVOICE_REF":    http.StatusBadRequest,
	"INVALID_KIND":           http.StatusBadRequest,
	"INVALID_LICENSE":        http.StatusBadRequest,
	"INVALID_LIMIT":          http.StatusBadRequest,
	"INVALID_LOT_NUMBER":     http.StatusBadRequest,
	"INVALID_MEMBERSHIP":     http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_PARTY":          http.StatusBadRequest,
	"INVALID_PASSWORD":       http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_PRESCRIBER":     http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_PRODUCT":        http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_RATE":           http.StatusBadRequest,
	"INVALID_REASON":         http.StatusBadRequest,
	"INVALID_REGISTER":       http.StatusBadRequest,
	"INVALID_ROLE":           http.StatusBadRequest,
	"INVALID_SALE_CATEGORY":  http.StatusBadRequest,
	"INVALID_SALE_REF":       http.StatusBadRequest,
	"INVALID_SCAN_KEY":       http.StatusBadRequest,
	"INVALID_SLIP":           http.StatusBadRequest,
	"INVALID_STATUS":         http.StatusBadRequest,
	"INVALID_SUPPLIER":       http.StatusBadRequest,
	"INVALID_THRESHOLD":      http.StatusBadRequest,
	"INVALID_USERNAME":       http.StatusBadRequest,
	"INVALID_ACTOR":          http.StatusBadRequest,
	"INVALID_OPERATOR":       http.StatusBadRequest,

	// Business-rule rejections
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"CREDIT_LIMIT_EXCEEDED":  http.StatusUnprocessableEntity,
	"OVERPAYMENT_REJECTED":   http.StatusUnprocessableEntity,
	"OVERDISPENSE_REJECTED":  http.StatusUnprocessableEntity,
	"SESSION_ALREADY_OPEN":   http.StatusUnprocessableEntity,
	"SESSION_NOT_OPEN":       http.StatusUnprocessableEntity,
	"LOT_DESTROYED":          http.StatusUnprocessableEntity,
	"NOT_EXPIRED":            http.StatusUnprocessableEntity,
	"EMPTY_SALE":             http.StatusUnprocessableEntity,
	"EMPTY_DELIVERY":         http.StatusUnprocessableEntity,
	"EMPTY_PRESCRIPTION":     http.StatusUnprocessableEntity,
	"EMPTY_SCAN":             http.StatusUnprocessableEntity,
	"MISSING_LOT_DETAILS":    http.StatusUnprocessableEntity,
	"UNCHECKED_LINES":        http.StatusUnprocessableEntity,
	"INCONSISTENT_MOVEMENT":  http.StatusUnprocessableEntity,
	"CUSTOMER_INACTIVE":      http.StatusUnprocessableEntity,
	"CUSTOMER_REQUIRED":      http.StatusUnprocessableEntity,
	"SUPPLIER_INACTIVE":      http.StatusUnprocessableEntity,
	"INSURER_SUSPENDED":      http.StatusUnprocessableEntity,
	"NOT_AFFILIATED":         http.StatusUnprocessableEntity,
	"NOTHING_TO_INVOICE":     http.StatusUnprocessableEntity,
	"PRESCRIPTION_REQUIRED":  http.StatusUnprocessableEntity,
	"PRESCRIPTION_EXPIRED":   http.StatusUnprocessableEntity,
	"PRESCRIPTION_MISMATCH":  http.StatusUnprocessableEntity,
	"PRODUCT_NOT_SELLABLE":   http.StatusUnprocessableEntity,
	"ACCOUNT_DISABLED":       http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":         http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED":    http.StatusUnprocessableEntity,
	"ALREADY_SUSPENDED":      http.StatusUnprocessableEntity,
	"NOT_LOCKED":             http.StatusUnprocessableEntity,

	// Server faults
	"INTERNAL_ERROR":      http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
