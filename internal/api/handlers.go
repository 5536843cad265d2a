package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"minter/internal/debug"
	"minter/internal/minter"
	"minter/internal/models"
)

// handleIndex returns basic service information
// GET / - Returns service info and available endpoints
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"service":     "NFT Minter",
		"version":     "1.0.0",
		"description": "Upload NFT images and metadata to IPFS and mint ERC-721 tokens",
		"contract":    s.opts.ContractAddr.Hex(),
		"traits": map[string][]string{
			models.TraitBackground: models.Colors,
			models.TraitColor:      models.Colors,
			models.TraitShape:      models.Shapes,
		},
		"endpoints": map[string]string{
			"GET /":                   "This page - Service information",
			"GET /health":             "Health check endpoint",
			"GET /metrics":            "Prometheus metrics for monitoring",
			"GET /nfts":               "List minted NFTs (supports ?limit=, ?offset=)",
			"GET /nfts/{index}":       "Get a single NFT with its metadata",
			"GET /nfts/{index}/owner": "Get the owner of an NFT",
			"POST /nfts":              "Upload metadata and mint an NFT (contract owner only)",
			"POST /images":            "Upload an image to IPFS (multipart field 'file')",
			"GET /owner":              "Get the contract owner (supports ?address=)",
			"GET /wallet":             "Get the active account, its balance and token count",
			"GET /mints":              "List recorded mint attempts (supports ?limit=, ?offset=)",
			"GET /uploads":            "List recorded IPFS uploads (supports ?limit=, ?offset=)",
		},
	}

	s.sendJSON(w, http.StatusOK, info)
}

// handleHealth returns health status
// GET /health - Health check for monitoring systems
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := make(map[string]string, len(s.opts.Checks))
	status, code := "healthy", http.StatusOK

	for name, check := range s.opts.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	s.sendJSON(w, code, map[string]interface{}{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC(),
		"service":   "nft-minter",
	})
}

// handleMetrics returns Prometheus metrics
// GET /metrics - Prometheus scraping endpoint
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

// =============================================================================
// NFT ENDPOINTS
// =============================================================================

// handleListNfts lists minted tokens with their metadata
// GET /nfts?limit=50&offset=0
func (s *Server) handleListNfts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	listing, err := s.nfts.ListAssetsRange(r.Context(), uint64(offset), uint64(limit))
	if err != nil {
		s.sendServiceError(w, "list nfts", err)
		return
	}

	s.sendJSON(w, http.StatusOK, listing)
}

// handleGetNft returns one token
// GET /nfts/{index}
func (s *Server) handleGetNft(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(r)
	if !ok {
		s.sendError(w, "Token index must be a non-negative integer", http.StatusBadRequest)
		return
	}

	record, err := s.nfts.GetAsset(r.Context(), index)
	if err != nil {
		s.sendServiceError(w, "get nft", err)
		return
	}

	s.sendJSON(w, http.StatusOK, record)
}

// handleGetNftOwner returns the holder of one token
// GET /nfts/{index}/owner
func (s *Server) handleGetNftOwner(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(r)
	if !ok {
		s.sendError(w, "Token index must be a non-negative integer", http.StatusBadRequest)
		return
	}

	owner, err := s.nfts.OwnerOf(r.Context(), index)
	if err != nil {
		s.sendServiceError(w, "owner of", err)
		return
	}

	s.sendJSON(w, http.StatusOK, models.OwnerResponse{Index: &index, Owner: owner.Hex()})
}

// handleUploadImage adds an image to IPFS
// POST /images (multipart/form-data, field "file")
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		s.sendServiceError(w, "upload image", minter.ErrNoFile)
		return
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.sendError(w, fmt.Sprintf("Image exceeds the %d byte limit", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		s.sendError(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	upload, err := s.nfts.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		s.sendServiceError(w, "upload image", err)
		return
	}

	s.sendJSON(w, http.StatusCreated, upload)
}

// handleCreateNft validates the mint form, checks the wallet may mint, then uploads and mints
// POST /nfts
func (s *Server) handleCreateNft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form models.MintForm
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&form); err != nil {
		s.sendError(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	req := models.MintRequest{
		Name:        form.Name,
		Description: form.Description,
		Image:       form.Image,
		Attributes:  form.Attributes,
		Recipient:   form.Recipient,
	}
	if err := minter.ValidateMintRequest(req); err != nil {
		s.sendServiceError(w, "create nft", err)
		return
	}

	if s.opts.Performer == nil {
		s.sendError(w, "No signing key configured", http.StatusServiceUnavailable)
		return
	}

	if err := s.nfts.RequireContractOwner(ctx, s.opts.Performer.Address()); err != nil {
		s.sendServiceError(w, "create nft", err)
		return
	}

	result, err := s.nfts.CreateNft(ctx, s.opts.Performer, req)
	if err != nil {
		if result != nil {
			debug.PrintMintResult(result)
		}
		s.sendServiceError(w, "create nft", err)
		return
	}
	debug.PrintMintResult(result)

	response := models.MintResponse{Mint: result}
	if result.TokenID != nil {
		record, err := s.nfts.GetAsset(ctx, *result.TokenID)
		if err != nil {
			slog.Warn("Minted token could not be read back",
				"token_id", *result.TokenID,
				"error", err,
			)
		} else {
			response.Record = record
		}
	}

	s.sendJSON(w, http.StatusCreated, response)
}

// =============================================================================
// ACCOUNT ENDPOINTS
// =============================================================================

// handleContractOwner returns the contract owner and optionally whether ?address= is it
// GET /owner?address=0x...
func (s *Server) handleContractOwner(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address != "" && !common.IsHexAddress(address) {
		s.sendError(w, "address must be a hex address", http.StatusBadRequest)
		return
	}

	owner, err := s.nfts.ContractOwner(r.Context())
	if err != nil {
		s.sendServiceError(w, "contract owner", err)
		return
	}

	response := models.OwnerResponse{Owner: owner.Hex()}
	if address != "" {
		account := common.HexToAddress(address)
		isOwner := account == owner
		response.Address = account.Hex()
		response.IsOwner = &isOwner
	}

	s.sendJSON(w, http.StatusOK, response)
}

// handleWallet returns the active account and its native balance
// GET /wallet
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	if s.opts.Performer == nil {
		s.sendError(w, "No signing key configured", http.StatusServiceUnavailable)
		return
	}

	account := s.opts.Performer.Address()
	wei, err := s.nfts.Balance(r.Context(), account)
	if err != nil {
		s.sendServiceError(w, "wallet balance", err)
		return
	}
	tokens, err := s.nfts.TokenBalance(r.Context(), account)
	if err != nil {
		s.sendServiceError(w, "wallet tokens", err)
		return
	}

	s.sendJSON(w, http.StatusOK, models.WalletResponse{
		Address:    account.Hex(),
		BalanceWei: wei.String(),
		Balance:    minter.FormatBalance(wei),
		Symbol:     s.opts.CurrencySymbol,
		Tokens:     tokens,
	})
}

// =============================================================================
// AUDIT ENDPOINTS
// =============================================================================

// handleListMints lists recorded mint attempts
// GET /mints?limit=50&offset=0
func (s *Server) handleListMints(w http.ResponseWriter, r *http.Request) {
	if s.opts.Repository == nil {
		s.sendError(w, "Audit database not configured", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	limit, offset := pagination(r)

	total, err := s.opts.Repository.CountMints(ctx)
	if err != nil {
		slog.Error("Failed to count mints", "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	mints, err := s.opts.Repository.ListMints(ctx, limit, offset)
	if err != nil {
		slog.Error("Failed to list mints", "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if mints == nil {
		mints = []*models.MintResult{}
	}

	s.sendJSON(w, http.StatusOK, models.MintListResponse{
		Mints:    mints,
		Total:    total,
		Page:     (offset / limit) + 1,
		PageSize: limit,
	})
}

// handleListUploads lists recorded IPFS uploads
// GET /uploads?limit=50&offset=0
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	if s.opts.Repository == nil {
		s.sendError(w, "Audit database not configured", http.StatusServiceUnavailable)
		return
	}

	limit, offset := pagination(r)

	uploads, err := s.opts.Repository.ListUploads(r.Context(), limit, offset)
	if err != nil {
		slog.Error("Failed to list uploads", "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if uploads == nil {
		uploads = []*models.Upload{}
	}

	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"uploads":   uploads,
		"page":      (offset / limit) + 1,
		"page_size": limit,
	})
}
