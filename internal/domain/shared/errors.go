package shared

// DomainError represents a business-rule rejection. These are user-facing
// and never retried automatically; the only internal retry in the system is
// the single re-validation after a write conflict on a lot or credit account.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Business errors shared across bounded contexts
var (
	ErrInvalidQuantity     = NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrCreditLimitExceeded = NewDomainError("CREDIT_LIMIT_EXCEEDED", "Credit sale would exceed the authorized limit")
	ErrOverpaymentRejected = NewDomainError("OVERPAYMENT_REJECTED", "Payment exceeds outstanding debt")
	ErrSessionAlreadyOpen  = NewDomainError("SESSION_ALREADY_OPEN", "A cash session is already open for this register")
	ErrSessionNotOpen      = NewDomainError("SESSION_NOT_OPEN", "Cash session is not open")
	ErrTenantScopeMissing  = NewDomainError("TENANT_SCOPE_MISSING", "Operation attempted without a resolved pharmacy scope")
)
