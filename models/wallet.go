package models

// WalletResponse represents the API response for wallet provisioning
type WalletResponse struct {
	ColdAddress string `json:"cold_address"`
	HotAddress  string `json:"hot_address"`
	Message     string `json:"message"`
}

// BalanceLine is one asset balance held by an account
type BalanceLine struct {
	AssetType string `json:"asset_type"`
	AssetCode string `json:"asset_code,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
	Balance   string `json:"balance"`
	Limit     string `json:"limit,omitempty"`
}

// WalletDetailsResponse represents the API response for wallet details
type WalletDetailsResponse struct {
	PublicKey      string        `json:"public_key"`
	Exists         bool          `json:"exists"`
	HomeDomain     string        `json:"home_domain,omitempty"`
	Balances       []BalanceLine `json:"balances"`
	SequenceNumber int64         `json:"sequence_number"`
}

// TransferRequest represents the request body for distributing issued tokens
// from the hot wallet
type TransferRequest struct {
	ToPublicKey  string `json:"to_public_key" binding:"required"`
	CurrencyCode string `json:"currency_code" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
}

// TransferResponse represents the API response for the transfer endpoint
type TransferResponse struct {
	TransactionHash string `json:"transaction_hash"`
	Ledger          int32  `json:"ledger"`
	Message         string `json:"message"`
}

// ReserveResponse reports whether both wallets hold the minimum reserve
type ReserveResponse struct {
	Sufficient bool              `json:"sufficient"`
	Minimum    string            `json:"minimum"`
	Balances   map[string]string `json:"balances"`
	Error      string            `json:"error,omitempty"`
}
