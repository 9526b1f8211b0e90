package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saif727/stellar-token-issuer/internal/apierror"
	"github.com/saif727/stellar-token-issuer/internal/ledger"
)

func TestNewAPIError(t *testing.T) {
	details := "Some internal error details"
	apiErr := apierror.NewAPIError(apierror.ErrInternalServer, "Something went wrong", details)

	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Equal(t, "INTERNAL_SERVER_ERROR: Something went wrong", apiErr.Error())
}

func TestFromErrorAndStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     apierror.ErrorCode
		expected int
	}{
		{"invalid input", fmt.Errorf("%w: bad code", ledger.ErrInvalidInput), apierror.ErrInvalidInput, http.StatusBadRequest},
		{"invalid network", ledger.ErrInvalidNetwork, apierror.ErrInvalidInput, http.StatusBadRequest},
		{"underfunded", fmt.Errorf("%w: cold", ledger.ErrInsufficientReserve), apierror.ErrPreconditionFailed, http.StatusPreconditionFailed},
		{"balance query", ledger.ErrBalanceQuery, apierror.ErrLedgerUnavailable, http.StatusBadGateway},
		{"exhausted", ledger.ErrSubmissionExhausted, apierror.ErrLedgerUnavailable, http.StatusBadGateway},
		{"unknown", errors.New("boom"), apierror.ErrInternalServer, http.StatusInternalServerError},
		{"passthrough", apierror.NewAPIError(apierror.ErrConflict, "busy", nil), apierror.ErrConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := apierror.FromError(tt.err)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.expected, apierror.MapErrorToHTTPStatus(apiErr))
		})
	}

	assert.Equal(t, http.StatusInternalServerError, apierror.MapErrorToHTTPStatus(errors.New("plain")))
}
