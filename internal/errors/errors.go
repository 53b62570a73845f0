package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeWallet       = "WALLET_ERROR"

	// Validation errors
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeConfirmationRequired = "CONFIRMATION_REQUIRED"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"

	// Service errors
	ErrCodeStorage            = "STORAGE_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Kind classifies a failure so callers can react to it without string matching.
type Kind uint8

const (
	KindOther Kind = iota
	KindValidation
	KindWallet
	KindStorage
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindWallet:
		return "wallet"
	case KindStorage:
		return "storage"
	case KindNotFound:
		return "not found"
	default:
		return "other"
	}
}

// Error carries the operation that failed and the kind of failure.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String() + " error"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with an operation name and kind.
func E(op string, kind Kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// WalletError sends a 401 response for a failed wallet connection
func WalletError(c *gin.Context, message string) {
	if message == "" {
		message = "Failed to connect wallet"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeWallet, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// ConfirmationRequired sends a 409 response when a destructive action was not confirmed
func ConfirmationRequired(c *gin.Context, message string) {
	if message == "" {
		message = "Confirmation required"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConfirmationRequired, message))
}

// StorageError sends a 500 response for a failed store operation
func StorageError(c *gin.Context, message string) {
	if message == "" {
		message = "Storage operation failed"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeStorage, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}

// Respond sends the response matching the Kind of err. Storage and
// unclassified failures get a generic message.
func Respond(c *gin.Context, err error) {
	var message string
	var e *Error
	if stderrors.As(err, &e) && e.Err != nil {
		message = e.Err.Error()
	}

	switch KindOf(err) {
	case KindValidation:
		BadRequest(c, message)
	case KindWallet:
		WalletError(c, message)
	case KindNotFound:
		NotFound(c, message)
	case KindStorage:
		StorageError(c, "")
	default:
		InternalError(c, "")
	}
}
