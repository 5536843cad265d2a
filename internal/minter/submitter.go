package minter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"minter/internal/ipfs"
	"minter/internal/metrics"
	"minter/internal/models"
	"minter/internal/wallet"
)

// Mint submits safeMint(recipient, tokenURI) signed by kit and waits for the receipt.
// The result is returned even on failure so callers can report the transaction hash;
// the mint succeeded only when err is nil.
func (s *Service) Mint(ctx context.Context, kit wallet.Kit, recipient common.Address, tokenURI string) (*models.MintResult, error) {
	if kit.Opts == nil {
		return nil, fmt.Errorf("%w: no signer", ErrTransaction)
	}

	result := &models.MintResult{
		ID:        uuid.NewString(),
		Sender:    kit.DefaultAccount.Hex(),
		Recipient: recipient.Hex(),
		TokenURI:  tokenURI,
		CreatedAt: time.Now().UTC(),
	}
	if c, err := ipfs.ContentID(tokenURI); err == nil {
		result.MetadataCID = c.String()
	}

	start := time.Now()
	receipt, err := s.submit(ctx, kit, recipient, tokenURI, result)
	metrics.MintDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		result.Error = err.Error()
		if result.Status == "" {
			result.Status = models.MintFailed
		}
		slog.Error("Mint failed",
			"recipient", result.Recipient,
			"tx_hash", result.TxHash,
			"status", result.Status,
			"error", err,
		)
		s.recordMint(ctx, result)
		return result, err
	}

	result.Status = models.MintSucceeded
	result.BlockNumber = receipt.BlockNumber.Uint64()
	result.GasUsed = receipt.GasUsed
	if id, ok := s.contract.MintedTokenID(receipt); ok {
		result.TokenID = &id
	}

	slog.Info("✅ NFT minted",
		"recipient", result.Recipient,
		"tx_hash", result.TxHash,
		"block", result.BlockNumber,
		"token_id", result.TokenID,
	)

	s.recordMint(ctx, result)
	return result, nil
}

func (s *Service) submit(ctx context.Context, kit wallet.Kit, recipient common.Address, tokenURI string, result *models.MintResult) (*types.Receipt, error) {
	sendCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	opts := *kit.Opts
	opts.Context = sendCtx

	tx, err := s.contract.SafeMint(&opts, recipient, tokenURI)
	if err != nil {
		return nil, fmt.Errorf("%w: submit safeMint: %w", ErrTransaction, err)
	}
	result.TxHash = tx.Hash().Hex()

	slog.Debug("safeMint submitted", "tx_hash", result.TxHash, "nonce", tx.Nonce())

	mineCtx, cancelMine := context.WithTimeout(ctx, s.opts.MineTimeout)
	defer cancelMine()

	receipt, err := s.contract.WaitMined(mineCtx, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransaction, err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		result.Status = models.MintReverted
		result.BlockNumber = receipt.BlockNumber.Uint64()
		result.GasUsed = receipt.GasUsed
		return nil, fmt.Errorf("%w: %s reverted in block %d", ErrTransaction, result.TxHash, result.BlockNumber)
	}

	return receipt, nil
}

// CreateNft uploads the metadata document for req and mints it.
// Incomplete metadata is rejected before anything is uploaded or signed.
func (s *Service) CreateNft(ctx context.Context, performer wallet.Performer, req models.MintRequest) (*models.MintResult, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Image) == "" {
		return nil, ErrIncompleteMetadata
	}

	recipient := performer.Address()
	if req.Recipient != "" {
		if !common.IsHexAddress(req.Recipient) {
			return nil, fmt.Errorf("%w: recipient %q is not an address", ErrInvalidForm, req.Recipient)
		}
		recipient = common.HexToAddress(req.Recipient)
	}

	var result *models.MintResult
	err := performer.PerformActions(ctx, func(ctx context.Context, kit wallet.Kit) error {
		upload, err := s.BuildAndUploadMetadata(ctx, models.NftMetadata{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			Owner:       kit.DefaultAccount.Hex(),
			Attributes:  req.Attributes,
		})
		if err != nil {
			return err
		}

		result, err = s.Mint(ctx, kit, recipient, upload.Locator)
		return err
	})

	return result, err
}

func (s *Service) recordMint(ctx context.Context, result *models.MintResult) {
	if s.recorder != nil {
		s.recorder.RecordMint(ctx, result)
	}
}
