package services

import (
	"context"
	"errors"
	"testing"

	"minter/internal/models"
)

// memRepository records what the audit service writes
type memRepository struct {
	uploads []*models.Upload
	mints   []*models.MintResult
	err     error
}

func (r *memRepository) SaveUpload(ctx context.Context, u *models.Upload) error {
	if r.err != nil {
		return r.err
	}
	r.uploads = append(r.uploads, u)
	return nil
}

func (r *memRepository) ListUploads(ctx context.Context, limit, offset int) ([]*models.Upload, error) {
	return r.uploads, nil
}

func (r *memRepository) SaveMint(ctx context.Context, m *models.MintResult) error {
	if r.err != nil {
		return r.err
	}
	r.mints = append(r.mints, m)
	return nil
}

func (r *memRepository) ListMints(ctx context.Context, limit, offset int) ([]*models.MintResult, error) {
	return r.mints, nil
}

func (r *memRepository) CountMints(ctx context.Context) (int, error) { return len(r.mints), nil }
func (r *memRepository) Ping(ctx context.Context) error { return nil }
func (r *memRepository) Close() error { return nil }

func TestAuditService_Process(t *testing.T) {
	repo := &memRepository{}
	s := NewAuditService(repo)
	ctx := context.Background()

	if err := s.Process(ctx, &Event{Kind: EventUpload, Upload: &models.Upload{ID: "u1"}}); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := s.Process(ctx, &Event{Kind: EventMint, Mint: &models.MintResult{ID: "m1"}}); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if len(repo.uploads) != 1 || len(repo.mints) != 1 {
		t.Fatalf("expected one upload and one mint, got %d and %d", len(repo.uploads), len(repo.mints))
	}

	if err := s.Process(ctx, &Event{Kind: EventMint}); err == nil {
		t.Error("expected an error for a mint event without payload")
	}
	if err := s.Process(ctx, &Event{Kind: "other"}); err == nil {
		t.Error("expected an error for an unknown event kind")
	}
}

func TestAuditService_RepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	s := NewAuditService(&memRepository{err: boom})

	err := s.Process(context.Background(), &Event{Kind: EventUpload, Upload: &models.Upload{ID: "u1"}})
	if !errors.Is(err, boom) {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestMetricsService_Process(t *testing.T) {
	s := NewMetricsService()
	events := []*Event{
		{Kind: EventUpload, Upload: &models.Upload{Kind: models.UploadImage, Size: 42}},
		{Kind: EventMint, Mint: &models.MintResult{Status: models.MintSucceeded}},
		{Kind: EventMint, Mint: &models.MintResult{Status: models.MintReverted}},
		{Kind: EventMint},
	}
	for _, e := range events {
		if err := s.Process(context.Background(), e); err != nil {
			t.Errorf("unexpected error for %s: %v", e.Kind, err)
		}
	}
}
