package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/saif727/stellar-token-issuer/config"
	"github.com/saif727/stellar-token-issuer/controllers"
	"github.com/saif727/stellar-token-issuer/internal/credentials"
)

const shutdownTimeout = 10 * time.Second

// initializeRouter provisions or loads the wallets and wires the operator API.
func initializeRouter(ctx context.Context, cnf *config.Configuration, rt *runtime) (*gin.Engine, error) {
	if !cnf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	wallets, err := credentials.Provision(ctx, rt.store, rt.faucet)
	if err != nil {
		return nil, err
	}

	issuer, err := rt.issuanceService(cnf, wallets)
	if err != nil {
		return nil, err
	}

	lock := controllers.NewSubmissionLock()
	return controllers.NewRouter(
		controllers.NewWalletController(rt.walletService(), lock),
		controllers.NewIssuanceController(issuer, rt.gate, lock, wallets.Cold.Address, wallets.Hot.Address),
	), nil
}

// startServer serves router until ctx is cancelled, then drains open requests.
func startServer(ctx context.Context, router *gin.Engine, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("🚀 Starting server on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// serverCommands returns the command that runs the operator HTTP API.
func serverCommands(app *issuerInstance) *cobra.Command {
	var flags walletFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the token issuer API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.connect(app)
			if err != nil {
				return err
			}

			router, err := initializeRouter(cmd.Context(), app.cnf, rt)
			if err != nil {
				return err
			}

			return startServer(cmd.Context(), router, app.cnf.Server)
		},
	}
	flags.register(cmd)

	return cmd
}
