package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"minter/internal/debug"
	"minter/internal/models"
)

// printJSON writes v to stdout when --json is set and reports whether it did
func printJSON(v any) (bool, error) {
	if !globalFlags.JSON {
		return false, nil
	}
	return true, debug.WriteJSON(os.Stdout, v)
}

func formatAttributes(attrs []models.Attribute) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.TraitType+"="+a.Value)
	}
	return strings.Join(parts, ", ")
}

func renderRecords(records []models.NftRecord) error {
	data := pterm.TableData{{"Index", "Name", "Owner", "Attributes", "Image"}}
	for _, r := range records {
		if r.Failed() {
			data = append(data, []string{
				strconv.FormatUint(r.Index, 10),
				pterm.Red("unreadable"),
				r.Owner,
				r.Error,
				r.TokenURI,
			})
			continue
		}
		data = append(data, []string{
			strconv.FormatUint(r.Index, 10),
			r.Name,
			r.Owner,
			formatAttributes(r.Attributes),
			r.Image,
		})
	}
	return pterm.DefaultTable.WithHasHeader(true).WithData(data).Render()
}

func renderRecord(r *models.NftRecord) error {
	if r.Failed() {
		pterm.Error.Printfln("token %d could not be read: %s", r.Index, r.Error)
		return nil
	}
	data := pterm.TableData{
		{"Field", "Value"},
		{"Index", strconv.FormatUint(r.Index, 10)},
		{"Name", r.Name},
		{"Description", r.Description},
		{"Owner", r.Owner},
		{"Image", r.Image},
		{"Token URI", r.TokenURI},
	}
	for _, a := range r.Attributes {
		data = append(data, []string{"  " + a.TraitType, a.Value})
	}
	return pterm.DefaultTable.WithHasHeader(true).WithData(data).Render()
}

func renderMints(mints []*models.MintResult) error {
	data := pterm.TableData{{"Created", "Status", "Token", "Recipient", "Tx", "Error"}}
	for _, m := range mints {
		token := "-"
		if m.TokenID != nil {
			token = strconv.FormatUint(*m.TokenID, 10)
		}
		data = append(data, []string{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			string(m.Status),
			token,
			m.Recipient,
			m.TxHash,
			m.Error,
		})
	}
	return pterm.DefaultTable.WithHasHeader(true).WithData(data).Render()
}

func printMintResult(result *models.MintResult) {
	switch result.Status {
	case models.MintSucceeded:
		token := "unknown"
		if result.TokenID != nil {
			token = strconv.FormatUint(*result.TokenID, 10)
		}
		pterm.Success.Printfln("Minted token %s to %s", token, result.Recipient)
	default:
		pterm.Error.Printfln("Mint %s: %s", result.Status, result.Error)
	}
	if result.TxHash != "" {
		fmt.Printf("  tx:        %s\n", result.TxHash)
	}
	if result.BlockNumber > 0 {
		fmt.Printf("  block:     %d (gas %d)\n", result.BlockNumber, result.GasUsed)
	}
	fmt.Printf("  token uri: %s\n", result.TokenURI)
}
