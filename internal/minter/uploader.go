package minter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"minter/internal/metrics"
	"minter/internal/models"
)

// UploadImage pushes an image to IPFS and returns its locator
func (s *Service) UploadImage(ctx context.Context, filename string, r io.Reader) (*models.Upload, error) {
	if r == nil {
		return nil, ErrNoFile
	}

	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoFile
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrUpload, filename, err)
	}

	return s.upload(ctx, models.UploadImage, filename, br)
}

// BuildAndUploadMetadata serializes meta to JSON as given, adds it to IPFS and returns
// the document locator. A trait type appearing twice is rejected with ErrInvalidForm;
// merge attributes with models.AttributeSet first.
func (s *Service) BuildAndUploadMetadata(ctx context.Context, meta models.NftMetadata) (*models.Upload, error) {
	if !meta.IsComplete() {
		return nil, ErrIncompleteMetadata
	}

	seen := make(map[string]struct{}, len(meta.Attributes))
	for _, a := range meta.Attributes {
		if _, dup := seen[a.TraitType]; dup {
			return nil, fmt.Errorf("%w: duplicate trait %q", ErrInvalidForm, a.TraitType)
		}
		seen[a.TraitType] = struct{}{}
	}
	if meta.Attributes == nil {
		meta.Attributes = []models.Attribute{}
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	return s.upload(ctx, models.UploadMetadata, "", bytes.NewReader(data))
}

func (s *Service) upload(ctx context.Context, kind models.UploadKind, filename string, r io.Reader) (*models.Upload, error) {
	addCtx, cancel := context.WithTimeout(ctx, s.opts.UploadTimeout)
	defer cancel()

	start := time.Now()
	counter := &countingReader{r: r}

	path, err := s.store.Add(addCtx, counter)
	metrics.UploadDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.UploadsTotal.WithLabelValues(string(kind), metrics.Status(err)).Inc()
	if err != nil {
		slog.Error("IPFS upload failed",
			"kind", kind,
			"filename", filename,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrUpload, kind, err)
	}

	upload := &models.Upload{
		ID:        uuid.NewString(),
		Kind:      kind,
		Filename:  filename,
		CID:       path,
		Locator:   s.store.Locator(path),
		Size:      counter.n,
		CreatedAt: time.Now().UTC(),
	}

	slog.Info("📦 Uploaded to IPFS",
		"kind", kind,
		"cid", upload.CID,
		"size", upload.Size,
	)

	if s.recorder != nil {
		s.recorder.RecordUpload(ctx, upload)
	}

	return upload, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
