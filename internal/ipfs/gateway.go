package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"minter/internal/models"
)

// maxDocumentSize caps the metadata documents read from the gateway
const maxDocumentSize = 1 << 20

// Fetcher dereferences token URIs over plain HTTP(S) GET
type Fetcher struct {
	httpClient *http.Client
	gateway    string
}

// NewFetcher creates a metadata fetcher. ipfs:// URIs are resolved against gateway.
func NewFetcher(httpClient *http.Client, gateway string) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Fetcher{
		httpClient: httpClient,
		gateway:    gateway,
	}
}

// LoadMetadata fetches uri and decodes the JSON body into payload
func (f *Fetcher) LoadMetadata(ctx context.Context, uri string, payload any) error {
	if uri == "" {
		return fmt.Errorf("empty token uri")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, Resolve(f.gateway, uri), nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %q: %w", uri, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %q: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentSize))
		return fmt.Errorf("failed to fetch %q: unexpected status %s", uri, resp.Status)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(payload); err != nil {
		return fmt.Errorf("failed to decode metadata from %q: %w", uri, err)
	}

	return nil
}

// Fetch dereferences a token URI into its metadata document
func (f *Fetcher) Fetch(ctx context.Context, uri string) (*models.NftMetadata, error) {
	var meta models.NftMetadata
	if err := f.LoadMetadata(ctx, uri, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
