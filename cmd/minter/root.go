package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"minter/internal/config"
	"minter/internal/logging"
)

// GlobalFlags are shared by every command
type GlobalFlags struct {
	EnvFile  string // dotenv file loaded before the environment is read
	JSON     bool   // print results as JSON instead of tables
	LogLevel string // overrides LOG_LEVEL
}

var (
	globalFlags GlobalFlags
	cfg         *config.Config
	logCloser   io.Closer
)

// rootCmd is the minter command
var rootCmd = &cobra.Command{
	Use:   "minter",
	Short: "Upload NFT images and metadata to IPFS and mint ERC-721 tokens",
	Long: `minter talks to an ERC-721 contract on Celo and to an IPFS node.

It uploads images and metadata documents, mints tokens with safeMint,
lists the collection with its metadata and answers ownership queries.
The serve command exposes the same operations over HTTP.

Configuration is read from the environment (and a .env file):
  RPC_URL, CHAIN_ID, CONTRACT_ADDRESS, PRIVATE_KEY or MNEMONIC,
  IPFS_API_URL, IPFS_GATEWAY_URL, DATABASE_URL, API_PORT, LOG_LEVEL`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Load(globalFlags.EnvFile)

		cfg = config.Load()
		if globalFlags.LogLevel != "" {
			cfg.LogLevel = globalFlags.LogLevel
		}

		logCloser = logging.Setup(logging.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
		if envErr != nil && globalFlags.EnvFile != ".env" {
			return fmt.Errorf("failed to load %s: %w", globalFlags.EnvFile, envErr)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel the command context
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.EnvFile, "env-file", ".env", "dotenv file to load (missing default file is ignored)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "debug | info | warn | error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(ownerCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(mintsCmd)
}
