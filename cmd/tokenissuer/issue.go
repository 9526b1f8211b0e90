package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/saif727/stellar-token-issuer/internal/credentials"
	"github.com/saif727/stellar-token-issuer/models"
)

// issueCommands returns the interactive command that runs a full issuance: it
// asks for the inputs, loads or provisions the wallets and issues the supply.
func issueCommands(app *issuerInstance) *cobra.Command {
	var defaults issuanceAnswers

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "configure the wallets and issue a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults.Network == "" {
				defaults.Network = app.cnf.Network.Name
			}
			if defaults.WalletsFile == "" {
				defaults.WalletsFile = app.cnf.WalletsFile
			}

			answers, err := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).askIssuance(defaults)
			if err != nil {
				return err
			}

			rt, err := connect(app.cnf, answers.Network, answers.WalletsFile)
			if err != nil {
				return err
			}
			logrus.WithField("horizon", rt.network.URL).Infof("🔹 Connected to %s", rt.network.Name)

			wallets, err := credentials.Provision(cmd.Context(), rt.store, rt.faucet)
			if err != nil {
				return err
			}

			svc, err := rt.issuanceService(app.cnf, wallets)
			if err != nil {
				return err
			}

			report, err := svc.Issue(cmd.Context(), models.IssuanceRequest{
				CurrencyCode: answers.CurrencyCode,
				TotalSupply:  answers.TotalSupply,
				Domain:       answers.Domain,
			})
			if report != nil {
				printReport(cmd.OutOrStdout(), wallets, report)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&defaults.Network, "network", "", "network to issue on (testnet or mainnet)")
	cmd.Flags().StringVar(&defaults.WalletsFile, "wallets", "", "path of the wallets file")
	cmd.Flags().StringVar(&defaults.CurrencyCode, "currency", "", "currency code of the token")
	cmd.Flags().Int64Var(&defaults.TotalSupply, "supply", 0, "total supply to issue")
	cmd.Flags().StringVar(&defaults.Domain, "domain", "", "issuing domain")

	return cmd
}

func printReport(w io.Writer, wallets *credentials.Wallets, report *models.IssuanceResponse) {
	fmt.Fprintf(w, "\nAsset:        %s\n", report.Asset)
	fmt.Fprintf(w, "Supply:       %s\n", report.Supply)
	fmt.Fprintf(w, "Issuer:       %s\n", wallets.Cold.Address)
	fmt.Fprintf(w, "Distributor:  %s\n", wallets.Hot.Address)
	for _, step := range report.Steps {
		fmt.Fprintf(w, "  %-22s ledger %-10d attempts %d  %s\n", step.Step, step.Ledger, step.Attempts, step.Hash)
	}
	if report.FailedStep != "" {
		fmt.Fprintf(w, "Failed step:  %s\n", report.FailedStep)
	}
	if report.Error != "" {
		fmt.Fprintf(w, "Error:        %s\n", report.Error)
	}
}
