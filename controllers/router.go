package controllers

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the operator API routes.
func NewRouter(wallets *WalletController, issuance *IssuanceController) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")

	// Wallet provisioning endpoint
	v1.POST("/wallets/create", wallets.CreateWallet)

	// Wallet details endpoint
	v1.GET("/wallets/:public_key", wallets.GetWalletDetails)

	// Issued token transfer endpoint
	v1.POST("/wallets/transfer", wallets.TransferFunds)

	v1.GET("/reserve", issuance.Reserve)
	v1.POST("/issuance", issuance.Issue)

	return router
}
