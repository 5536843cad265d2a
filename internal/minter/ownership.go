package minter

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// OwnerOf returns the holder of the token at index
func (s *Service) OwnerOf(ctx context.Context, index uint64) (common.Address, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	owner, err := s.contract.OwnerOf(callCtx, index)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: owner of token %d: %w", ErrRead, index, err)
	}
	return owner, nil
}

// ContractOwner returns the account allowed to mint
func (s *Service) ContractOwner(ctx context.Context) (common.Address, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	owner, err := s.contract.Owner(callCtx)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: contract owner: %w", ErrRead, err)
	}
	return owner, nil
}

// IsContractOwner compares addresses as 20-byte values, so hex case does not matter
func (s *Service) IsContractOwner(ctx context.Context, account common.Address) (bool, error) {
	owner, err := s.ContractOwner(ctx)
	if err != nil {
		return false, err
	}
	return owner == account, nil
}

// RequireContractOwner returns ErrNotContractOwner unless account owns the contract
func (s *Service) RequireContractOwner(ctx context.Context, account common.Address) error {
	ok, err := s.IsContractOwner(ctx, account)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotContractOwner, account.Hex())
	}
	return nil
}

// TokenBalance returns how many tokens of the collection account holds
func (s *Service) TokenBalance(ctx context.Context, account common.Address) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	n, err := s.contract.BalanceOf(callCtx, account)
	if err != nil {
		return 0, fmt.Errorf("%w: token balance of %s: %w", ErrRead, account.Hex(), err)
	}
	return n, nil
}

// Balance returns the native balance of account in wei
func (s *Service) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	if s.balances == nil {
		return nil, errors.New("balance reader not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	wei, err := s.balances.BalanceAt(callCtx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: balance of %s: %w", ErrRead, account.Hex(), err)
	}
	return wei, nil
}

// FormatBalance renders wei as a decimal amount of the native currency with four decimals
func FormatBalance(wei *big.Int) string {
	if wei == nil {
		return "0.0000"
	}
	f := new(big.Float).SetPrec(256).SetInt(wei)
	f.Quo(f, new(big.Float).SetPrec(256).SetInt64(params.Ether))
	return f.Text('f', 4)
}
