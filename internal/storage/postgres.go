package storage

import (
	"context"
	"fmt"

	"minter/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

// SaveUpload records a blob added to IPFS
func (r *PostgresRepository) SaveUpload(ctx context.Context, upload *models.Upload) error {
	query := `
		INSERT INTO uploads (id, cid, kind, filename, size, locator, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		upload.ID,
		upload.CID,
		string(upload.Kind),
		upload.Filename,
		upload.Size,
		upload.Locator,
		upload.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}

	return nil
}

// ListUploads lists recorded uploads, newest first
func (r *PostgresRepository) ListUploads(ctx context.Context, limit, offset int) ([]*models.Upload, error) {
	query := `
		SELECT id, cid, kind, filename, size, locator, created_at
		FROM uploads
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*models.Upload

	for rows.Next() {
		var upload models.Upload
		var kind string

		err := rows.Scan(
			&upload.ID,
			&upload.CID,
			&kind,
			&upload.Filename,
			&upload.Size,
			&upload.Locator,
			&upload.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}

		upload.Kind = models.UploadKind(kind)
		uploads = append(uploads, &upload)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating uploads: %w", err)
	}

	return uploads, nil
}

// SaveMint records a mint attempt, successful or not
func (r *PostgresRepository) SaveMint(ctx context.Context, result *models.MintResult) error {
	query := `
		INSERT INTO mints (
			id, tx_hash, sender, recipient, token_uri, metadata_cid,
			token_id, block_number, gas_used, status, error, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			tx_hash = EXCLUDED.tx_hash,
			token_id = EXCLUDED.token_id,
			block_number = EXCLUDED.block_number,
			gas_used = EXCLUDED.gas_used,
			status = EXCLUDED.status,
			error = EXCLUDED.error
	`

	var tokenID *int64
	if result.TokenID != nil {
		id := int64(*result.TokenID)
		tokenID = &id
	}

	_, err := r.pool.Exec(ctx, query,
		result.ID,
		result.TxHash,
		result.Sender,
		result.Recipient,
		result.TokenURI,
		result.MetadataCID,
		tokenID,
		int64(result.BlockNumber),
		int64(result.GasUsed),
		string(result.Status),
		result.Error,
		result.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save mint: %w", err)
	}

	return nil
}

// ListMints lists recorded mint attempts, newest first
func (r *PostgresRepository) ListMints(ctx context.Context, limit, offset int) ([]*models.MintResult, error) {
	query := `
		SELECT
			id, tx_hash, sender, recipient, token_uri, metadata_cid,
			token_id, block_number, gas_used, status, error, created_at
		FROM mints
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list mints: %w", err)
	}
	defer rows.Close()

	var mints []*models.MintResult

	for rows.Next() {
		var result models.MintResult
		var tokenID *int64
		var blockNumber, gasUsed int64
		var status string

		err := rows.Scan(
			&result.ID,
			&result.TxHash,
			&result.Sender,
			&result.Recipient,
			&result.TokenURI,
			&result.MetadataCID,
			&tokenID,
			&blockNumber,
			&gasUsed,
			&status,
			&result.Error,
			&result.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mint: %w", err)
		}

		if tokenID != nil {
			id := uint64(*tokenID)
			result.TokenID = &id
		}
		result.BlockNumber = uint64(blockNumber)
		result.GasUsed = uint64(gasUsed)
		result.Status = models.MintStatus(status)

		mints = append(mints, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mints: %w", err)
	}

	return mints, nil
}

// CountMints returns the number of recorded mint attempts
func (r *PostgresRepository) CountMints(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM mints`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count mints: %w", err)
	}
	return count, nil
}

// Ping checks if the database connection is alive
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
