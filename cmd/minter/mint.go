package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"minter/internal/debug"
	"minter/internal/minter"
	"minter/internal/models"
)

var (
	mintName        string
	mintDescription string
	mintImage       string
	mintImageFile   string
	mintAttrs       []string
	mintTo          string
)

// uploadCmd adds an image to IPFS
var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an image to IPFS and print its locator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appOptions{database: true})
		if err != nil {
			return err
		}
		defer a.Close()

		upload, err := uploadFile(cmd, a, args[0])
		if err != nil {
			return err
		}

		if ok, err := printJSON(upload); ok {
			return err
		}
		pterm.Success.Printfln("Uploaded %s (%d bytes)", upload.Filename, upload.Size)
		fmt.Println(upload.Locator)
		return nil
	},
}

// mintCmd uploads a metadata document and mints it
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Upload NFT metadata to IPFS and mint it",
	Long: `Upload an NFT metadata document to IPFS and call safeMint with its locator.

The image is either an existing locator (--image) or a local file uploaded
first (--image-file). At least three distinct --attr trait=value pairs are
required, e.g. --attr background=Red --attr color=Blue --attr shape=Circle.
The loaded account must own the contract.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (mintImage == "") == (mintImageFile == "") {
			return fmt.Errorf("exactly one of --image and --image-file is required")
		}

		req := models.MintRequest{
			Name:        mintName,
			Description: mintDescription,
			Image:       mintImage,
			Recipient:   mintTo,
		}
		attrs, err := parseAttributes(mintAttrs)
		if err != nil {
			return err
		}
		req.Attributes = attrs
		if req.Image == "" {
			// placeholder so the form check passes before the upload
			req.Image = mintImageFile
		}
		if err := minter.ValidateMintRequest(req); err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{database: true, requireSigner: true})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.service.RequireContractOwner(ctx, a.wallet.Address()); err != nil {
			return err
		}

		if mintImageFile != "" {
			upload, err := uploadFile(cmd, a, mintImageFile)
			if err != nil {
				return err
			}
			req.Image = upload.Locator
			pterm.Info.Printfln("Image uploaded: %s", upload.Locator)
		}

		spinner, _ := pterm.DefaultSpinner.Start("Minting...")
		result, err := a.service.CreateNft(ctx, a.wallet, req)
		if spinner != nil {
			_ = spinner.Stop()
		}
		if result != nil {
			debug.PrintMintResult(result)
			if ok, jsonErr := printJSON(result); ok {
				if jsonErr != nil {
					return jsonErr
				}
			} else {
				printMintResult(result)
			}
		}
		return err
	},
}

// parseAttributes reads repeated trait=value flags; a repeated trait keeps the last value
func parseAttributes(raw []string) ([]models.Attribute, error) {
	set := models.NewAttributeSet()
	for _, r := range raw {
		attr, ok := models.ParseAttribute(r)
		if !ok {
			return nil, fmt.Errorf("%w: attribute %q must be trait=value", minter.ErrInvalidForm, r)
		}
		set.Set(attr.TraitType, attr.Value)
	}
	return set.Attributes(), nil
}

func uploadFile(cmd *cobra.Command, a *app, path string) (*models.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return a.service.UploadImage(cmd.Context(), filepath.Base(path), f)
}

func init() {
	mintCmd.Flags().StringVar(&mintName, "name", "", "NFT name")
	mintCmd.Flags().StringVar(&mintDescription, "description", "", "NFT description")
	mintCmd.Flags().StringVar(&mintImage, "image", "", "image locator (e.g. an IPFS gateway URL)")
	mintCmd.Flags().StringVar(&mintImageFile, "image-file", "", "local image to upload first")
	mintCmd.Flags().StringArrayVar(&mintAttrs, "attr", nil, "attribute as trait=value (repeatable)")
	mintCmd.Flags().StringVar(&mintTo, "to", "", "recipient address (default: the loaded account)")
}
