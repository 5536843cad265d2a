package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// DefaultDerivationPath is the first Ethereum account of a BIP-44 wallet
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

// Kit is handed to an action: the active account and a signer for it
type Kit struct {
	DefaultAccount common.Address
	Opts           *bind.TransactOpts
}

// Action runs with an unlocked account
type Action func(ctx context.Context, kit Kit) error

// Performer runs actions on behalf of the active account
type Performer interface {
	Address() common.Address
	PerformActions(ctx context.Context, action Action) error
}

// KeyedWallet holds a single secp256k1 key. Actions are serialized so
// two concurrent mints never pick the same nonce.
type KeyedWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	mu      sync.Mutex
}

// NewKeyedWallet wraps an existing key for chainID
func NewKeyedWallet(key *ecdsa.PrivateKey, chainID *big.Int) (*KeyedWallet, error) {
	if key == nil {
		return nil, errors.New("private key is required")
	}
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, errors.New("chain id must be positive")
	}
	return &KeyedWallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).Set(chainID),
	}, nil
}

// FromHexKey loads a wallet from a hex private key, with or without 0x prefix
func FromHexKey(hexKey string, chainID *big.Int) (*KeyedWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewKeyedWallet(key, chainID)
}

// FromMnemonic derives the key at path from a BIP-39 mnemonic
func FromMnemonic(mnemonic, passphrase, path string, chainID *big.Int) (*KeyedWallet, error) {
	key, err := DeriveKey(mnemonic, passphrase, path)
	if err != nil {
		return nil, err
	}
	return NewKeyedWallet(key, chainID)
}

// DeriveKey walks the BIP-32 path from the mnemonic seed
func DeriveKey(mnemonic, passphrase, path string) (*ecdsa.PrivateKey, error) {
	if path == "" {
		path = DefaultDerivationPath
	}

	seed, err := bip39.NewSeedWithErrorChecking(strings.TrimSpace(mnemonic), passphrase)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}

	indices, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation path %q: %w", path, err)
	}

	// Network params only matter for serialization, not for derivation
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}

	for _, index := range indices {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", path, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	return priv.ToECDSA(), nil
}

// Address returns the wallet account
func (w *KeyedWallet) Address() common.Address {
	return w.address
}

// ChainID returns the chain the transactor signs for
func (w *KeyedWallet) ChainID() *big.Int {
	return new(big.Int).Set(w.chainID)
}

// PerformActions runs action with a fresh transactor bound to ctx
func (w *KeyedWallet) PerformActions(ctx context.Context, action Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(w.key, w.chainID)
	if err != nil {
		return fmt.Errorf("create transactor: %w", err)
	}
	opts.Context = ctx

	return action(ctx, Kit{DefaultAccount: w.address, Opts: opts})
}
