package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"minter/internal/api"
)

var servePort int

// serveCmd runs the HTTP API until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API with the NFT, account and audit endpoints.

Minting over HTTP needs PRIVATE_KEY or MNEMONIC and the account must own the
contract. The audit endpoints need DATABASE_URL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("🌟 Starting NFT Minter...")
		ctx := cmd.Context()

		a, err := newApp(ctx, cfg, appOptions{database: true})
		if err != nil {
			return err
		}
		defer a.Close()

		port := cfg.APIPort
		if servePort > 0 {
			port = servePort
		}

		opts := api.Options{
			Port:           port,
			CurrencySymbol: cfg.CurrencySymbol,
			ContractAddr:   a.contract.Address(),
			Checks:         a.healthChecks(),
			WriteTimeout:   cfg.UploadTimeout + cfg.MineTimeout + cfg.CallTimeout,
		}
		if a.repo != nil {
			opts.Repository = a.repo
		}
		if a.wallet != nil {
			opts.Performer = a.wallet
			warnIfNotOwner(ctx, a)
		}

		server := api.NewServer(a.service, opts)
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}

		slog.Info("🚀 NFT Minter running",
			"port", port,
			"contract", a.contract.Address().Hex(),
			"minting", a.wallet != nil,
			"audit", a.repo != nil,
		)

		<-ctx.Done()
		slog.Info("Shutdown signal received, stopping gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown error", "error", err)
		}

		slog.Info("✅ NFT Minter stopped")
		return nil
	},
}

// warnIfNotOwner logs when the loaded account cannot mint
func warnIfNotOwner(ctx context.Context, a *app) {
	isOwner, err := a.service.IsContractOwner(ctx, a.wallet.Address())
	if err != nil {
		slog.Warn("Could not read contract owner", "error", err)
		return
	}
	if !isOwner {
		slog.Warn("⚠️ Wallet is not the contract owner, POST /nfts will be rejected",
			"address", a.wallet.Address().Hex(),
		)
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (overrides API_PORT)")
}
