package storage

import (
	"context"

	"minter/internal/models"
)

// Repository defines the interface for the upload and mint audit log
type Repository interface {
	// Uploads
	SaveUpload(ctx context.Context, upload *models.Upload) error
	ListUploads(ctx context.Context, limit, offset int) ([]*models.Upload, error)

	// Mints
	SaveMint(ctx context.Context, result *models.MintResult) error
	ListMints(ctx context.Context, limit, offset int) ([]*models.MintResult, error)
	CountMints(ctx context.Context) (int, error)

	// Health & Maintenance
	Ping(ctx context.Context) error
	Close() error
}
