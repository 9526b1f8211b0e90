package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saif727/stellar-token-issuer/internal/apierror"
	"github.com/saif727/stellar-token-issuer/models"
	"github.com/saif727/stellar-token-issuer/services"
)

// WalletController handles wallet-related HTTP requests
type WalletController struct {
	Service *services.WalletService

	submissions *SubmissionLock
}

// NewWalletController creates a new WalletController instance
func NewWalletController(service *services.WalletService, lock *SubmissionLock) *WalletController {
	if lock == nil {
		lock = NewSubmissionLock()
	}
	return &WalletController{Service: service, submissions: lock}
}

func respondError(c *gin.Context, err error) {
	apiErr := apierror.FromError(err)
	c.JSON(apierror.MapErrorToHTTPStatus(apiErr), gin.H{"error": apiErr})
}

// CreateWallet handles POST /api/v1/wallets/create
func (ctrl *WalletController) CreateWallet(c *gin.Context) {
	response, err := ctrl.Service.ProvisionWallets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetWalletDetails handles GET /api/v1/wallets/:public_key
func (ctrl *WalletController) GetWalletDetails(c *gin.Context) {
	publicKey := c.Param("public_key")
	response, err := ctrl.Service.GetWalletDetails(publicKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// TransferFunds handles POST /api/v1/wallets/transfer
func (ctrl *WalletController) TransferFunds(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apierror.NewAPIError(apierror.ErrInvalidInput, "invalid request body: "+err.Error(), nil)})
		return
	}

	if !ctrl.submissions.acquire(c, "another ledger submission is in progress") {
		return
	}
	defer ctrl.submissions.release()

	response, err := ctrl.Service.TransferFunds(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
