package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"minter/internal/models"
	"minter/internal/storage"
	"minter/internal/wallet"
)

// NFTService is the minter surface the HTTP API exposes
type NFTService interface {
	ListAssetsRange(ctx context.Context, offset, limit uint64) (*models.Listing, error)
	GetAsset(ctx context.Context, index uint64) (*models.NftRecord, error)
	OwnerOf(ctx context.Context, index uint64) (common.Address, error)
	ContractOwner(ctx context.Context) (common.Address, error)
	RequireContractOwner(ctx context.Context, account common.Address) error
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, account common.Address) (uint64, error)
	UploadImage(ctx context.Context, filename string, r io.Reader) (*models.Upload, error)
	CreateNft(ctx context.Context, performer wallet.Performer, req models.MintRequest) (*models.MintResult, error)
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Options configures the API server. Repository and Performer are optional.
type Options struct {
	Port           int
	Repository     storage.Repository
	Performer      wallet.Performer
	CurrencySymbol string
	ContractAddr   common.Address
	Checks         map[string]HealthCheck
	MaxUploadBytes int64
	WriteTimeout   time.Duration
}

// Server represents the HTTP API server
// Provides endpoints for Prometheus metrics, health checks, and the NFT REST API
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	nfts       NFTService
	opts       Options
}

// NewServer creates a new API server instance
func NewServer(nfts NFTService, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Minute
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "CELO"
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", opts.Port),
			Handler:      withRequestID(mux),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
		mux:  mux,
		nfts: nfts,
		opts: opts,
	}

	// Register all HTTP routes
	s.registerRoutes()

	return s
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.handleMetrics())

	// NFT endpoints
	s.mux.HandleFunc("GET /nfts", s.handleListNfts)
	s.mux.HandleFunc("GET /nfts/{index}", s.handleGetNft)
	s.mux.HandleFunc("GET /nfts/{index}/owner", s.handleGetNftOwner)
	s.mux.HandleFunc("POST /nfts", s.handleCreateNft)
	s.mux.HandleFunc("POST /images", s.handleUploadImage)

	// Account endpoints
	s.mux.HandleFunc("GET /owner", s.handleContractOwner)
	s.mux.HandleFunc("GET /wallet", s.handleWallet)

	// Audit endpoints
	s.mux.HandleFunc("GET /mints", s.handleListMints)
	s.mux.HandleFunc("GET /uploads", s.handleListUploads)
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server in a goroutine
// Returns immediately after starting the server
func (s *Server) Start() error {
	go func() {
		slog.Info("API server starting",
			"port", s.opts.Port,
			"endpoints", []string{"/", "/health", "/metrics", "/nfts", "/images", "/owner", "/wallet", "/mints", "/uploads"},
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server error", "error", err)
		}
	}()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	return nil
}

// Shutdown gracefully shuts down the HTTP server
// Waits for active connections to close or context to timeout
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("API server shutting down...")
	return s.httpServer.Shutdown(ctx)
}
