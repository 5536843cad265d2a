package minter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"minter/internal/metrics"
	"minter/internal/models"
	"minter/internal/pipeline"
)

// ListAssets reads every minted token. Only a totalSupply failure fails the call;
// a token that cannot be read keeps its slot with an error marker.
func (s *Service) ListAssets(ctx context.Context) (*models.Listing, error) {
	return s.ListAssetsRange(ctx, 0, 0)
}

// ListAssetsRange reads tokens [offset, offset+limit) clamped to the total supply.
// A zero limit means up to the end.
func (s *Service) ListAssetsRange(ctx context.Context, offset, limit uint64) (*models.Listing, error) {
	start := time.Now()

	total, err := s.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}

	first := min(offset, total)
	last := total
	if limit > 0 && limit < last-first {
		last = first + limit
	}

	p := pipeline.New(pipeline.Config{
		WorkerCount: s.opts.Workers,
		TaskTimeout: s.tokenTimeout(),
	}, s.readToken)
	results := p.Run(ctx, first, last-first)

	listing := &models.Listing{
		TotalSupply: total,
		Offset:      first,
		Records:     make([]models.NftRecord, 0, len(results)),
	}

	for _, r := range results {
		record := r.Value
		record.Index = r.Index
		if r.Err != nil {
			record.Error = r.Err.Error()
			listing.Failed = append(listing.Failed, r.Index)
			slog.Warn("Token could not be read",
				"index", r.Index,
				"worker_id", r.WorkerID,
				"error", r.Err,
			)
		}
		listing.Records = append(listing.Records, record)
	}

	metrics.EnumerationDuration.Observe(time.Since(start).Seconds())
	metrics.EnumerationFailedIndices.Set(float64(len(listing.Failed)))

	slog.Info("Enumerated tokens",
		"total_supply", total,
		"offset", first,
		"count", len(listing.Records),
		"failed", len(listing.Failed),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return listing, nil
}

// GetAsset reads a single token
func (s *Service) GetAsset(ctx context.Context, index uint64) (*models.NftRecord, error) {
	total, err := s.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	if index >= total {
		return nil, fmt.Errorf("%w: index %d, total supply %d", ErrNotFound, index, total)
	}

	taskCtx, cancel := context.WithTimeout(ctx, s.tokenTimeout())
	defer cancel()

	record, err := s.readToken(taskCtx, index)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// TotalSupply returns the number of minted tokens
func (s *Service) TotalSupply(ctx context.Context) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	total, err := s.contract.TotalSupply(callCtx)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("enumerator").Inc()
		return 0, fmt.Errorf("%w: %w", ErrRead, err)
	}
	metrics.TotalSupply.Set(float64(total))
	return total, nil
}

// readToken resolves the token URI, then fetches the metadata and the owner concurrently
func (s *Service) readToken(ctx context.Context, index uint64) (models.NftRecord, error) {
	start := time.Now()
	defer func() {
		metrics.TokenFetchDuration.Observe(time.Since(start).Seconds())
	}()

	record := models.NftRecord{Index: index}

	uriCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	uri, err := s.contract.TokenURI(uriCtx, index)
	cancel()
	if err != nil {
		return record, fmt.Errorf("%w: token %d: %w", ErrRead, index, err)
	}
	record.TokenURI = uri

	var (
		meta  *models.NftMetadata
		owner common.Address
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetchCtx, cancel := context.WithTimeout(gctx, s.opts.FetchTimeout)
		defer cancel()

		m, err := s.fetcher.Fetch(fetchCtx, uri)
		metrics.MetadataFetches.WithLabelValues(metrics.Status(err)).Inc()
		if err != nil {
			return fmt.Errorf("token %d metadata: %w", index, err)
		}
		meta = m
		return nil
	})
	g.Go(func() error {
		o, err := s.OwnerOf(gctx, index)
		if err != nil {
			return err
		}
		owner = o
		return nil
	})

	if err := g.Wait(); err != nil {
		return record, err
	}

	record.Owner = owner.Hex()
	record.Name = meta.Name
	record.Image = meta.Image
	record.Description = meta.Description
	record.Attributes = meta.Attributes

	return record, nil
}
