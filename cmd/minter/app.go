package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"minter/internal/api"
	"minter/internal/config"
	"minter/internal/contract"
	"minter/internal/ipfs"
	"minter/internal/minter"
	"minter/internal/orchestrator"
	"minter/internal/retry"
	"minter/internal/services"
	"minter/internal/storage"
	"minter/internal/wallet"
)

// appOptions select the optional parts of the wiring a command needs
type appOptions struct {
	database        bool // connect the audit database when DATABASE_URL is set
	requireDatabase bool
	requireSigner   bool
}

// app holds the wired clients shared by the commands
type app struct {
	cfg      *config.Config
	eth      *ethclient.Client
	contract *contract.Minter
	store    *ipfs.Client
	wallet   *wallet.KeyedWallet // nil without PRIVATE_KEY or MNEMONIC
	repo     storage.Repository  // nil without DATABASE_URL
	orch     *orchestrator.Orchestrator
	service  *minter.Service
}

// newApp connects the node, IPFS and (optionally) Postgres and builds the minter service
func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	a := &app{cfg: cfg}
	strategy := retry.NewStrategy(cfg.Retry)

	// 1. EVM node
	err := strategy.Execute(ctx, "rpc connect", func(ctx context.Context) error {
		client, err := ethclient.DialContext(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("failed to dial rpc: %w", err)
		}
		chainID, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return fmt.Errorf("failed to read chain id: %w", err)
		}
		if chainID.Int64() != cfg.ChainID {
			client.Close()
			return fmt.Errorf("chain id mismatch: node reports %s, CHAIN_ID is %d", chainID, cfg.ChainID)
		}
		a.eth = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("RPC connected", "rpc", cfg.RPCURL, "chain_id", cfg.ChainID)

	// 2. Contract binding
	a.contract, err = contract.NewMinter(common.HexToAddress(cfg.ContractAddress), a.eth)
	if err != nil {
		a.Close()
		return nil, err
	}

	// 3. IPFS
	a.store = ipfs.NewClient(ipfs.ClientConfig{
		APIURL:        cfg.IPFSAPIURL,
		GatewayURL:    cfg.IPFSGatewayURL,
		ProjectID:     cfg.IPFSProjectID,
		ProjectSecret: cfg.IPFSProjectSecret,
		Pin:           cfg.IPFSPin,
		Timeout:       cfg.UploadTimeout,
	})
	fetcher := ipfs.NewFetcher(&http.Client{}, cfg.IPFSGatewayURL)

	// 4. Signer
	if cfg.HasSigner() {
		a.wallet, err = loadWallet(cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		slog.Info("Wallet loaded", "address", a.wallet.Address().Hex())
	} else if opts.requireSigner {
		a.Close()
		return nil, errors.New("PRIVATE_KEY or MNEMONIC is required for this command")
	}

	// 5. Audit database
	if opts.requireDatabase && cfg.DatabaseURL == "" {
		a.Close()
		return nil, errors.New("DATABASE_URL is required for this command")
	}
	if opts.database && cfg.DatabaseURL != "" {
		if err := a.connectDatabase(ctx, strategy); err != nil {
			a.Close()
			return nil, err
		}
	}

	// 6. Orchestrator with services
	svcs := []services.Service{services.NewMetricsService()}
	if a.repo != nil {
		svcs = append(svcs, services.NewAuditService(a.repo))
	}
	a.orch = orchestrator.New(svcs)
	slog.Debug("Orchestrator enabled", "services", len(a.orch.Services()))

	// 7. Minter service
	a.service, err = minter.NewService(minter.Deps{
		Contract: a.contract,
		Store:    a.store,
		Fetcher:  fetcher,
		Balances: a.eth,
		Recorder: a.orch,
	}, minter.Options{
		CallTimeout:   cfg.CallTimeout,
		UploadTimeout: cfg.UploadTimeout,
		FetchTimeout:  cfg.FetchTimeout,
		MineTimeout:   cfg.MineTimeout,
		Workers:       cfg.EnumerateWorkers,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) connectDatabase(ctx context.Context, strategy retry.Strategy) error {
	err := strategy.Execute(ctx, "database connect", func(ctx context.Context) error {
		repo, err := storage.NewPostgresRepository(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.repo = repo
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("Database connected successfully")

	if err := storage.Migrate(a.cfg.DatabaseURL); err != nil {
		return err
	}
	return nil
}

// loadWallet prefers PRIVATE_KEY over MNEMONIC
func loadWallet(cfg *config.Config) (*wallet.KeyedWallet, error) {
	chainID := big.NewInt(cfg.ChainID)
	if cfg.PrivateKey != "" {
		return wallet.FromHexKey(cfg.PrivateKey, chainID)
	}
	return wallet.FromMnemonic(cfg.Mnemonic, cfg.MnemonicPassphrase, cfg.DerivationPath, chainID)
}

// healthChecks are the dependency probes of GET /health
func (a *app) healthChecks() map[string]api.HealthCheck {
	checks := map[string]api.HealthCheck{
		"rpc": func(ctx context.Context) error {
			_, err := a.eth.BlockNumber(ctx)
			return err
		},
		"ipfs": func(ctx context.Context) error {
			if !a.store.Ping() {
				return errors.New("ipfs api unreachable")
			}
			return nil
		},
	}
	if a.repo != nil {
		checks["database"] = a.repo.Ping
	}
	return checks
}

// Close releases the node and database connections
func (a *app) Close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
	if a.eth != nil {
		a.eth.Close()
	}
}
