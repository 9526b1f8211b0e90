package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saif727/stellar-token-issuer/internal/apierror"
	"github.com/saif727/stellar-token-issuer/internal/reserve"
	"github.com/saif727/stellar-token-issuer/models"
)

// Issuer is the issuance workflow as seen by the HTTP layer
type Issuer interface {
	Issue(ctx context.Context, req models.IssuanceRequest) (*models.IssuanceResponse, error)
}

// ReserveChecker reports the native balances of the wallets
type ReserveChecker interface {
	CheckAll(ctx context.Context, addresses ...string) ([]reserve.Balance, error)
	Minimum() int64
}

// IssuanceController runs the issuance workflow. A run holds the submission lock
// for its whole duration.
type IssuanceController struct {
	Issuer    Issuer
	Gate      ReserveChecker
	Addresses []string

	submissions *SubmissionLock
}

// NewIssuanceController creates a new IssuanceController instance. Controllers that
// submit for the same wallets must share lock.
func NewIssuanceController(issuer Issuer, gate ReserveChecker, lock *SubmissionLock, addresses ...string) *IssuanceController {
	if lock == nil {
		lock = NewSubmissionLock()
	}
	return &IssuanceController{Issuer: issuer, Gate: gate, Addresses: addresses, submissions: lock}
}

// Issue handles POST /api/v1/issuance
func (ctrl *IssuanceController) Issue(c *gin.Context) {
	var req models.IssuanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apierror.NewAPIError(apierror.ErrInvalidInput, "invalid request body: "+err.Error(), nil)})
		return
	}

	if !ctrl.submissions.acquire(c, "another ledger submission is in progress") {
		return
	}
	defer ctrl.submissions.release()

	report, err := ctrl.Issuer.Issue(c.Request.Context(), req)
	if err != nil {
		apiErr := apierror.FromError(err)
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), gin.H{"error": apiErr, "report": report})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Reserve handles GET /api/v1/reserve
func (ctrl *IssuanceController) Reserve(c *gin.Context) {
	balances, err := ctrl.Gate.CheckAll(c.Request.Context(), ctrl.Addresses...)

	response := models.ReserveResponse{
		Sufficient: err == nil,
		Minimum:    reserve.Balance{Stroops: ctrl.Gate.Minimum()}.String(),
		Balances:   make(map[string]string, len(balances)),
	}
	for _, balance := range balances {
		response.Balances[balance.Address] = balance.String()
	}
	if err != nil {
		response.Error = err.Error()
		c.JSON(apierror.MapErrorToHTTPStatus(apierror.FromError(err)), response)
		return
	}
	c.JSON(http.StatusOK, response)
}
