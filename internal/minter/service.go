package minter

import (
	"context"
	"errors"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"minter/internal/models"
)

// Contract is the on-chain surface of the minter contract
type Contract interface {
	TotalSupply(ctx context.Context) (uint64, error)
	TokenURI(ctx context.Context, tokenID uint64) (string, error)
	OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error)
	Owner(ctx context.Context) (common.Address, error)
	BalanceOf(ctx context.Context, holder common.Address) (uint64, error)
	SafeMint(opts *bind.TransactOpts, to common.Address, uri string) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	MintedTokenID(receipt *types.Receipt) (uint64, bool)
}

// ContentStore adds blobs to content-addressed storage
type ContentStore interface {
	Add(ctx context.Context, r io.Reader) (string, error)
	Locator(path string) string
}

// MetadataFetcher dereferences a token URI
type MetadataFetcher interface {
	Fetch(ctx context.Context, uri string) (*models.NftMetadata, error)
}

// BalanceReader reads native balances. *ethclient.Client satisfies it.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Recorder receives uploads and mint attempts for auditing.
// Implementations log their own failures.
type Recorder interface {
	RecordUpload(ctx context.Context, upload *models.Upload)
	RecordMint(ctx context.Context, result *models.MintResult)
}

// Deps are the collaborators of the service. Recorder and Balances are optional.
type Deps struct {
	Contract Contract
	Store    ContentStore
	Fetcher  MetadataFetcher
	Balances BalanceReader
	Recorder Recorder
}

// Options bound every network call
type Options struct {
	CallTimeout   time.Duration
	UploadTimeout time.Duration
	FetchTimeout  time.Duration
	MineTimeout   time.Duration
	Workers       int
}

// DefaultOptions mirrors the config defaults
func DefaultOptions() Options {
	return Options{
		CallTimeout:   15 * time.Second,
		UploadTimeout: 60 * time.Second,
		FetchTimeout:  20 * time.Second,
		MineTimeout:   2 * time.Minute,
		Workers:       8,
	}
}

// Service is the data-access layer of the minter: uploads, mints, enumeration and ownership
type Service struct {
	contract Contract
	store    ContentStore
	fetcher  MetadataFetcher
	balances BalanceReader
	recorder Recorder
	opts     Options
}

// NewService wires the service
func NewService(deps Deps, opts Options) (*Service, error) {
	if deps.Contract == nil {
		return nil, errors.New("contract is required")
	}
	if deps.Store == nil {
		return nil, errors.New("content store is required")
	}
	if deps.Fetcher == nil {
		return nil, errors.New("metadata fetcher is required")
	}

	defaults := DefaultOptions()
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaults.CallTimeout
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = defaults.UploadTimeout
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaults.FetchTimeout
	}
	if opts.MineTimeout <= 0 {
		opts.MineTimeout = defaults.MineTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}

	return &Service{
		contract: deps.Contract,
		store:    deps.Store,
		fetcher:  deps.Fetcher,
		balances: deps.Balances,
		recorder: deps.Recorder,
		opts:     opts,
	}, nil
}

// tokenTimeout bounds one enumeration task: tokenURI, then metadata and owner in parallel
func (s *Service) tokenTimeout() time.Duration {
	return s.opts.CallTimeout + max(s.opts.FetchTimeout, s.opts.CallTimeout)
}
