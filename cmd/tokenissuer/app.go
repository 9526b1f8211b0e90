package main

import (
	"fmt"

	"github.com/saif727/stellar-token-issuer/config"
	"github.com/saif727/stellar-token-issuer/internal/credentials"
	"github.com/saif727/stellar-token-issuer/internal/ledger"
	"github.com/saif727/stellar-token-issuer/internal/reserve"
	"github.com/saif727/stellar-token-issuer/internal/submitter"
	"github.com/saif727/stellar-token-issuer/services"
)

// runtime holds the ledger-facing components built for one network.
type runtime struct {
	network   ledger.Network
	client    ledger.Client
	store     *credentials.FileStore
	faucet    ledger.Faucet
	gate      *reserve.Gate
	submitter *submitter.Submitter
}

// connect builds every ledger component for the named network and wallets file.
func connect(cnf *config.Configuration, networkName, walletsFile string) (*runtime, error) {
	n, err := ledger.ResolveNetwork(networkName, cnf.Network.TestnetRPC, cnf.Network.MainnetRPC)
	if err != nil {
		return nil, err
	}

	client := ledger.NewClient(n, cnf.RequestTimeout())

	rt := &runtime{
		network: n,
		client:  client,
		store:   credentials.NewFileStore(walletsFile),
		gate:    reserve.NewGate(client, cnf.Token.MinimumReserve),
		submitter: submitter.New(client, n.Passphrase, submitter.Config{
			MaxAttempts:     cnf.Submission.MaxAttempts,
			RetryDelay:      cnf.RetryDelay(),
			BaseFee:         cnf.Submission.BaseFee,
			TxTimeout:       cnf.Submission.TxTimeoutSec,
			StopOnRejection: cnf.Submission.StopOnRejection,
		}),
	}

	// mainnet has no faucet, leave the interface nil
	if n.IsTestnet() {
		rt.faucet = ledger.NewFriendbot(cnf.Network.FriendbotURL, cnf.RequestTimeout())
	}

	return rt, nil
}

func (rt *runtime) walletService() *services.WalletService {
	return services.NewWalletService(services.Config{
		Client:    rt.client,
		Store:     rt.store,
		Faucet:    rt.faucet,
		Submitter: rt.submitter,
	})
}

// issuanceService builds the workflow for wallets with the configured account flags.
func (rt *runtime) issuanceService(cnf *config.Configuration, wallets *credentials.Wallets) (*services.IssuanceService, error) {
	issuerFlags, err := ledger.ParseAccountFlags(cnf.Token.IssuerFlags)
	if err != nil {
		return nil, fmt.Errorf("issuer flags: %w", err)
	}
	operationalFlags, err := ledger.ParseAccountFlags(cnf.Token.OperationalFlags)
	if err != nil {
		return nil, fmt.Errorf("operational flags: %w", err)
	}
	return services.NewIssuanceService(rt.submitter, rt.gate, wallets, issuerFlags, operationalFlags), nil
}
