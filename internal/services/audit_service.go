package services

import (
	"context"
	"fmt"
	"log/slog"

	"minter/internal/storage"
)

// AuditService persists uploads and mint attempts
type AuditService struct {
	repository storage.Repository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repository storage.Repository) *AuditService {
	return &AuditService{
		repository: repository,
	}
}

// Process writes the event payload to the repository
func (s *AuditService) Process(ctx context.Context, event *Event) error {
	switch event.Kind {
	case EventUpload:
		if event.Upload == nil {
			return fmt.Errorf("upload event without payload")
		}
		if err := s.repository.SaveUpload(ctx, event.Upload); err != nil {
			return err
		}
		slog.Debug("AuditService: Upload saved", "id", event.Upload.ID, "cid", event.Upload.CID)

	case EventMint:
		if event.Mint == nil {
			return fmt.Errorf("mint event without payload")
		}
		if err := s.repository.SaveMint(ctx, event.Mint); err != nil {
			return err
		}
		slog.Debug("AuditService: Mint saved",
			"id", event.Mint.ID,
			"tx_hash", event.Mint.TxHash,
			"status", event.Mint.Status,
		)

	default:
		return fmt.Errorf("unknown event kind %q", event.Kind)
	}

	return nil
}

// Name returns the service name
func (s *AuditService) Name() string {
	return "AuditService"
}
