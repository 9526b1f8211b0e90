package ledger

import "errors"

var (
	ErrInvalidNetwork      = errors.New("invalid network: choose 'testnet' or 'mainnet'")
	ErrInvalidInput        = errors.New("invalid input")
	ErrCredentialLoad      = errors.New("failed to load credentials")
	ErrBalanceQuery        = errors.New("failed to retrieve wallet balance")
	ErrInsufficientReserve = errors.New("wallet is underfunded")
	ErrSubmissionExhausted = errors.New("transaction failed after multiple attempts")
)
