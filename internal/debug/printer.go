package debug

import (
	"encoding/json"
	"io"
	"log/slog"

	"minter/internal/models"
)

// PrintMintResult prints the mint result in JSON format
func PrintMintResult(result *models.MintResult) {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal mint result to JSON", "error", err)
		return
	}

	slog.Debug("Mint result details", "json", string(jsonData))
}

// PrintRecord prints an NFT record in JSON format
func PrintRecord(record *models.NftRecord) {
	jsonData, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal record to JSON", "error", err)
		return
	}

	slog.Debug("NFT record details", "json", string(jsonData))
}

// WriteJSON writes v as indented JSON, for the CLI --json output
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
