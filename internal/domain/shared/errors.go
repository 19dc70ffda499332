package shared

// DomainError represents a domain-level error
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
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrPermissionDenied   = NewDomainError("PERMISSION_DENIED", "You don't have permission to perform this action")
	ErrInvalidTransition  = NewDomainError("INVALID_TRANSITION", "Status change is not allowed from the current status")
	ErrDuplicateOperation = NewDomainError("DUPLICATE_OPERATION", "Operation has already been performed")
	ErrMissingDependency  = NewDomainError("MISSING_DEPENDENCY", "A required related record could not be resolved")
)
