package models

// IssuanceRequest describes the token to issue
type IssuanceRequest struct {
	CurrencyCode string `json:"currency_code" binding:"required"`
	TotalSupply  int64  `json:"total_supply" binding:"required,gt=0"`
	Domain       string `json:"domain" binding:"required"`
}

// StepResult records a confirmed workflow step
type StepResult struct {
	Step     string `json:"step"`
	Hash     string `json:"hash"`
	Ledger   int32  `json:"ledger"`
	Attempts int    `json:"attempts"`
}

// IssuanceResponse reports how far the issuance workflow got
type IssuanceResponse struct {
	Asset      string       `json:"asset"`
	Supply     string       `json:"supply"`
	Completed  bool         `json:"completed"`
	FailedStep string       `json:"failed_step,omitempty"`
	Error      string       `json:"error,omitempty"`
	Steps      []StepResult `json:"steps"`
}
