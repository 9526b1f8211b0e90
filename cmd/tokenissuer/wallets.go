package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/saif727/stellar-token-issuer/internal/credentials"
	"github.com/saif727/stellar-token-issuer/internal/reserve"
)

// walletFlags selects the network and wallets file for the non-interactive commands.
type walletFlags struct {
	network     string
	walletsFile string
}

func (f *walletFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.network, "network", "", "network to use (testnet or mainnet)")
	cmd.Flags().StringVar(&f.walletsFile, "wallets", "", "path of the wallets file")
}

func (f *walletFlags) connect(app *issuerInstance) (*runtime, error) {
	network := f.network
	if network == "" {
		network = app.cnf.Network.Name
	}
	walletsFile := f.walletsFile
	if walletsFile == "" {
		walletsFile = app.cnf.WalletsFile
	}
	return connect(app.cnf, network, walletsFile)
}

// provisionCommands returns the command that generates and funds the cold and hot
// wallets, or shows the existing ones.
func provisionCommands(app *issuerInstance) *cobra.Command {
	var flags walletFlags

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "generate the cold and hot wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.connect(app)
			if err != nil {
				return err
			}

			wallets, err := credentials.Provision(cmd.Context(), rt.store, rt.faucet)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wallets file: %s\n", rt.store.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "Cold wallet:  %s\n", wallets.Cold.Address)
			fmt.Fprintf(cmd.OutOrStdout(), "Hot wallet:   %s\n", wallets.Hot.Address)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

// balancesCommands returns the command that checks both wallets against the
// minimum reserve without submitting anything.
func balancesCommands(app *issuerInstance) *cobra.Command {
	var flags walletFlags

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "check that both wallets hold the minimum reserve",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.connect(app)
			if err != nil {
				return err
			}

			wallets, err := rt.store.Load()
			if err != nil {
				return err
			}

			balances, err := rt.gate.CheckAll(cmd.Context(), wallets.Cold.Address, wallets.Hot.Address)
			printBalances(cmd.OutOrStdout(), rt.gate.Minimum(), balances)
			return err
		},
	}
	flags.register(cmd)

	return cmd
}

func printBalances(w io.Writer, minimum int64, balances []reserve.Balance) {
	fmt.Fprintf(w, "Minimum reserve: %s\n", reserve.Balance{Stroops: minimum})
	for _, balance := range balances {
		fmt.Fprintf(w, "  %s  %s\n", balance.Address, balance)
	}
}
