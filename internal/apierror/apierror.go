package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/saif727/stellar-token-issuer/internal/ledger"
)

// ErrorCode classifies an API error for clients
type ErrorCode string

const (
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrConflict           ErrorCode = "CONFLICT"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrPreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	ErrLedgerUnavailable  ErrorCode = "LEDGER_UNAVAILABLE"
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
)

// APIError is the error body returned by the HTTP API
type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError creates an APIError and logs its details when present
func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromError classifies a service error into an APIError.
func FromError(err error) APIError {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, ledger.ErrInvalidNetwork):
		return NewAPIError(ErrInvalidInput, err.Error(), nil)
	case errors.Is(err, ledger.ErrInsufficientReserve), errors.Is(err, ledger.ErrCredentialLoad):
		return NewAPIError(ErrPreconditionFailed, err.Error(), nil)
	case errors.Is(err, ledger.ErrBalanceQuery), errors.Is(err, ledger.ErrSubmissionExhausted):
		return NewAPIError(ErrLedgerUnavailable, err.Error(), nil)
	}
	return NewAPIError(ErrInternalServer, "internal error", err.Error())
}

// MapErrorToHTTPStatus returns the HTTP status for an APIError, 500 for anything else
func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict:
			return http.StatusConflict
		case ErrInvalidInput:
			return http.StatusBadRequest
		case ErrPreconditionFailed:
			return http.StatusPreconditionFailed
		case ErrLedgerUnavailable:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
