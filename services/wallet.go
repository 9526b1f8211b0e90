package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"

	"github.com/saif727/stellar-token-issuer/internal/credentials"
	"github.com/saif727/stellar-token-issuer/internal/ledger"
	"github.com/saif727/stellar-token-issuer/models"
)

// Config holds what the wallet service needs to reach the ledger
type Config struct {
	Client    ledger.Client
	Store     credentials.Store
	Faucet    ledger.Faucet
	Submitter TransactionSubmitter
}

// WalletService provides methods for wallet operations
type WalletService struct {
	Config Config
}

// NewWalletService creates a new WalletService instance
func NewWalletService(config Config) *WalletService {
	return &WalletService{Config: config}
}

// ProvisionWallets creates and funds the cold and hot wallets, or loads them if the
// wallets file already exists
func (s *WalletService) ProvisionWallets(ctx context.Context) (*models.WalletResponse, error) {
	wallets, err := credentials.Provision(ctx, s.Config.Store, s.Config.Faucet)
	if err != nil {
		return nil, err
	}

	return &models.WalletResponse{
		ColdAddress: wallets.Cold.Address,
		HotAddress:  wallets.Hot.Address,
		Message:     "Wallets ready",
	}, nil
}

// GetWalletDetails retrieves details of a wallet
func (s *WalletService) GetWalletDetails(publicKey string) (*models.WalletDetailsResponse, error) {
	if _, err := keypair.ParseAddress(publicKey); err != nil {
		return nil, fmt.Errorf("%w: invalid public key format", ledger.ErrInvalidInput)
	}

	accountRequest := horizonclient.AccountRequest{AccountID: publicKey}
	account, err := s.Config.Client.AccountDetail(accountRequest)
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return &models.WalletDetailsResponse{
				PublicKey:      publicKey,
				Exists:         false,
				Balances:       []models.BalanceLine{},
				SequenceNumber: 0,
			}, nil
		}
		return nil, fmt.Errorf("%w: failed to fetch wallet details: %v", ledger.ErrBalanceQuery, err)
	}

	balances := make([]models.BalanceLine, 0, len(account.Balances))
	for _, balance := range account.Balances {
		balances = append(balances, models.BalanceLine{
			AssetType: balance.Type,
			AssetCode: balance.Code,
			Issuer:    balance.Issuer,
			Balance:   balance.Balance,
			Limit:     balance.Limit,
		})
	}

	return &models.WalletDetailsResponse{
		PublicKey:      publicKey,
		Exists:         true,
		HomeDomain:     account.HomeDomain,
		Balances:       balances,
		SequenceNumber: account.Sequence,
	}, nil
}

// TransferFunds distributes issued tokens from the hot wallet to another account
func (s *WalletService) TransferFunds(ctx context.Context, req models.TransferRequest) (*models.TransferResponse, error) {
	if s.Config.Submitter == nil {
		return nil, errors.New("transfers are not configured")
	}

	if err := ledger.ValidateAddress(req.ToPublicKey); err != nil {
		return nil, fmt.Errorf("%w: invalid recipient public key", ledger.ErrInvalidInput)
	}

	if err := ledger.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("%w: invalid amount: must be a positive number", ledger.ErrInvalidInput)
	}

	wallets, err := s.Config.Store.Load()
	if err != nil {
		return nil, err
	}

	asset, err := ledger.NewAsset(req.CurrencyCode, wallets.Cold.Address)
	if err != nil {
		return nil, err
	}

	op := ledger.Payment{
		Account:     wallets.Hot.Address,
		Destination: req.ToPublicKey,
		Asset:       asset,
		Amount:      req.Amount,
	}

	outcome, err := s.Config.Submitter.Submit(ctx, op, wallets.Hot)
	if err != nil {
		return nil, err
	}

	return &models.TransferResponse{
		TransactionHash: outcome.Hash,
		Ledger:          outcome.Ledger,
		Message:         asset.Code + " transferred successfully",
	}, nil
}
