package main

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"minter/internal/minter"
	"minter/internal/models"
)

var (
	mintsLimit  int
	mintsOffset int
)

// accountCmd shows the loaded account
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the loaded account, its balances and whether it owns the contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{requireSigner: true})
		if err != nil {
			return err
		}
		defer a.Close()

		address := a.wallet.Address()
		wei, err := a.service.Balance(ctx, address)
		if err != nil {
			return err
		}
		tokens, err := a.service.TokenBalance(ctx, address)
		if err != nil {
			return err
		}
		isOwner, err := a.service.IsContractOwner(ctx, address)
		if err != nil {
			return err
		}

		response := struct {
			models.WalletResponse
			IsOwner bool `json:"is_owner"`
		}{
			WalletResponse: models.WalletResponse{
				Address:    address.Hex(),
				BalanceWei: wei.String(),
				Balance:    minter.FormatBalance(wei),
				Symbol:     cfg.CurrencySymbol,
				Tokens:     tokens,
			},
			IsOwner: isOwner,
		}
		if ok, err := printJSON(response); ok {
			return err
		}

		owner := "no"
		if isOwner {
			owner = "yes"
		}
		return pterm.DefaultTable.WithData(pterm.TableData{
			{"Address", response.Address},
			{"Balance", response.Balance + " " + response.Symbol},
			{"Tokens held", strconv.FormatUint(response.Tokens, 10)},
			{"Contract owner", owner},
		}).Render()
	},
}

// mintsCmd lists recorded mint attempts from the audit database
var mintsCmd = &cobra.Command{
	Use:   "mints",
	Short: "List recorded mint attempts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{database: true, requireDatabase: true})
		if err != nil {
			return err
		}
		defer a.Close()

		total, err := a.repo.CountMints(ctx)
		if err != nil {
			return err
		}
		mints, err := a.repo.ListMints(ctx, mintsLimit, mintsOffset)
		if err != nil {
			return err
		}
		if mints == nil {
			mints = []*models.MintResult{}
		}

		if ok, err := printJSON(models.MintListResponse{
			Mints:    mints,
			Total:    total,
			Page:     mintsOffset/max(mintsLimit, 1) + 1,
			PageSize: mintsLimit,
		}); ok {
			return err
		}

		pterm.Info.Printfln("%d recorded mint attempt(s)", total)
		if len(mints) == 0 {
			return nil
		}
		return renderMints(mints)
	},
}

func init() {
	mintsCmd.Flags().IntVar(&mintsLimit, "limit", 20, "maximum number of rows")
	mintsCmd.Flags().IntVar(&mintsOffset, "offset", 0, "rows to skip")
}
