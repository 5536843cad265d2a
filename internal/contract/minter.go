package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"minter/internal/metrics"
)

// Backend is what the binding needs from the chain: calls, transactions and receipts.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Minter is a binding to a deployed ERC-721 minter contract
type Minter struct {
	abi      abi.ABI
	address  common.Address
	contract *bind.BoundContract
	backend  Backend
}

// NewMinter binds the contract at address
func NewMinter(address common.Address, backend Backend) (*Minter, error) {
	parsed, err := abi.JSON(strings.NewReader(MinterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse minter abi: %w", err)
	}

	return &Minter{
		abi:      parsed,
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
	}, nil
}

// Address returns the contract address
func (m *Minter) Address() common.Address {
	return m.address
}

func (m *Minter) call(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	var out []interface{}
	err := m.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...)
	metrics.ContractCalls.WithLabelValues(method, metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return out[0], nil
}

// TotalSupply returns the number of tokens minted so far
func (m *Minter) TotalSupply(ctx context.Context) (uint64, error) {
	out, err := m.call(ctx, "totalSupply")
	if err != nil {
		return 0, err
	}
	supply := abi.ConvertType(out, new(big.Int)).(*big.Int)
	if !supply.IsUint64() {
		return 0, fmt.Errorf("totalSupply: value %s out of range", supply)
	}
	return supply.Uint64(), nil
}

// TokenURI returns the metadata locator stored for tokenID
func (m *Minter) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	out, err := m.call(ctx, "tokenURI", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out, new(string)).(*string), nil
}

// OwnerOf returns the current holder of tokenID
func (m *Minter) OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error) {
	out, err := m.call(ctx, "ownerOf", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out, new(common.Address)).(*common.Address), nil
}

// Owner returns the contract owner, the only account allowed to mint
func (m *Minter) Owner(ctx context.Context) (common.Address, error) {
	out, err := m.call(ctx, "owner")
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out, new(common.Address)).(*common.Address), nil
}

// BalanceOf returns how many tokens holder owns
func (m *Minter) BalanceOf(ctx context.Context, holder common.Address) (uint64, error) {
	out, err := m.call(ctx, "balanceOf", holder)
	if err != nil {
		return 0, err
	}
	return abi.ConvertType(out, new(big.Int)).(*big.Int).Uint64(), nil
}

// SafeMint submits safeMint(to, uri) signed with opts
func (m *Minter) SafeMint(opts *bind.TransactOpts, to common.Address, uri string) (*types.Transaction, error) {
	tx, err := m.contract.Transact(opts, "safeMint", to, uri)
	metrics.ContractCalls.WithLabelValues("safeMint", metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("safeMint: %w", err)
	}
	return tx, nil
}

// WaitMined blocks until tx is included or ctx is done
func (m *Minter) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, m.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err)
	}
	return receipt, nil
}

// MintedTokenID extracts the token id from the Transfer(0x0, to, id) log of a receipt
func (m *Minter) MintedTokenID(receipt *types.Receipt) (uint64, bool) {
	if receipt == nil {
		return 0, false
	}
	transfer := m.abi.Events["Transfer"].ID
	for _, lg := range receipt.Logs {
		if lg.Address != m.address || len(lg.Topics) != 4 || lg.Topics[0] != transfer {
			continue
		}
		// mints come from the zero address
		if lg.Topics[1] != (common.Hash{}) {
			continue
		}
		id := new(big.Int).SetBytes(lg.Topics[3].Bytes())
		if !id.IsUint64() {
			return 0, false
		}
		return id.Uint64(), true
	}
	return 0, false
}
