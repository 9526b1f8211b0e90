package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/saif727/stellar-token-issuer/config"
)

// TokenIssuer represents the CLI application, wrapping the root Cobra command.
type TokenIssuer struct {
	cmd *cobra.Command
}

// issuerInstance carries the loaded configuration into every subcommand.
type issuerInstance struct {
	cnf *config.Configuration
}

// recoverPanic logs a panic and exits with an error status.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration before any subcommand runs.
func preRun(app *issuerInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cnf, err := config.Load(*configFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		app.cnf = cnf
		return nil
	}
}

// NewCLI builds the root command and its subcommands.
func NewCLI() *TokenIssuer {
	var configFile string
	app := &issuerInstance{}

	rootCmd := &cobra.Command{
		Use:           "tokenissuer",
		Short:         "Issue a custom token on the Stellar network",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./"+config.DEFAULT_CONFIG_FILE_NAME, "Configuration file for the token issuer")
	rootCmd.PersistentPreRunE = preRun(app, &configFile)

	rootCmd.AddCommand(issueCommands(app))
	rootCmd.AddCommand(provisionCommands(app))
	rootCmd.AddCommand(balancesCommands(app))
	rootCmd.AddCommand(serverCommands(app))

	return &TokenIssuer{cmd: rootCmd}
}

// executeCLI runs the root command and exits non-zero on failure. An interrupt
// cancels the context, which stops any pending retry wait.
func (t TokenIssuer) executeCLI() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := t.cmd.ExecuteContext(ctx); err != nil {
		logrus.Errorf("❌ %v", err)
		stop()
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
