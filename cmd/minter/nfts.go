package main

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"minter/internal/models"
)

var (
	listOffset uint64
	listLimit  uint64
)

// listCmd enumerates the collection
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List minted NFTs with their metadata and owners",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		listing, err := a.service.ListAssetsRange(cmd.Context(), listOffset, listLimit)
		if err != nil {
			return err
		}

		if ok, err := printJSON(listing); ok {
			return err
		}

		pterm.Info.Printfln("Total supply: %d", listing.TotalSupply)
		if len(listing.Records) == 0 {
			return nil
		}
		if err := renderRecords(listing.Records); err != nil {
			return err
		}
		if len(listing.Failed) > 0 {
			pterm.Warning.Printfln("%d token(s) could not be read: %v", len(listing.Failed), listing.Failed)
		}
		return nil
	},
}

// showCmd reads a single token
var showCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Show one NFT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("index must be a non-negative integer: %w", err)
		}

		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		record, err := a.service.GetAsset(cmd.Context(), index)
		if err != nil {
			return err
		}

		if ok, err := printJSON(record); ok {
			return err
		}
		return renderRecord(record)
	},
}

// ownerCmd prints the contract owner, or checks whether an address is it
var ownerCmd = &cobra.Command{
	Use:   "owner [address]",
	Short: "Show the contract owner or check an address against it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && !common.IsHexAddress(args[0]) {
			return fmt.Errorf("%q is not a hex address", args[0])
		}

		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		owner, err := a.service.ContractOwner(cmd.Context())
		if err != nil {
			return err
		}

		response := models.OwnerResponse{Owner: owner.Hex()}
		if len(args) == 1 {
			account := common.HexToAddress(args[0])
			isOwner := account == owner
			response.Address = account.Hex()
			response.IsOwner = &isOwner
		}
		if ok, err := printJSON(response); ok {
			return err
		}

		pterm.Info.Printfln("Contract owner: %s", response.Owner)
		switch {
		case response.IsOwner == nil:
		case *response.IsOwner:
			pterm.Success.Printfln("%s is the contract owner", response.Address)
		default:
			pterm.Warning.Printfln("%s is not the contract owner", response.Address)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Uint64Var(&listOffset, "offset", 0, "first token index")
	listCmd.Flags().Uint64Var(&listLimit, "limit", 0, "maximum number of tokens (0 = all)")
}
