package minter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minter/internal/models"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func sunRequest() models.MintRequest {
	return models.MintRequest{
		Name:        "Sun",
		Description: "A star",
		Image:       "ipfs://abc",
		Attributes: []models.Attribute{
			{TraitType: models.TraitBackground, Value: "Blue"},
			{TraitType: models.TraitColor, Value: "Yellow"},
			{TraitType: models.TraitShape, Value: "Circle"},
		},
	}
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	_, err := NewService(Deps{}, Options{})
	assert.Error(t, err)

	_, err = NewService(Deps{Contract: newFakeContract(alice), Store: newMemStore()}, Options{})
	assert.Error(t, err)
}

func TestCreateNft_EndToEnd(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	result, err := fx.svc.CreateNft(ctx, fx.wallet, sunRequest())
	require.NoError(t, err)
	assert.Equal(t, models.MintSucceeded, result.Status)
	require.NotNil(t, result.TokenID)
	assert.Equal(t, uint64(0), *result.TokenID)
	assert.Equal(t, uint64(100), result.BlockNumber)
	assert.NotEmpty(t, result.TxHash)
	assert.NotEmpty(t, result.MetadataCID)
	assert.True(t, strings.HasPrefix(result.TokenURI, testGateway+"/ipfs/"))

	// The document stored on IPFS uses the wallet account as owner
	data, ok := fx.store.blob(result.TokenURI)
	require.True(t, ok)
	owner := fx.wallet.Address().Hex()
	assert.Equal(t,
		`{"name":"Sun","description":"A star","image":"ipfs://abc","owner":"`+owner+`","attributes":[`+
			`{"trait_type":"background","value":"Blue"},`+
			`{"trait_type":"color","value":"Yellow"},`+
			`{"trait_type":"shape","value":"Circle"}]}`,
		string(data))

	listing, err := fx.svc.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Records, 1)

	record := listing.Records[0]
	assert.Equal(t, uint64(0), record.Index)
	assert.Equal(t, "Sun", record.Name)
	assert.Equal(t, "A star", record.Description)
	assert.Equal(t, "ipfs://abc", record.Image)
	assert.Equal(t, owner, record.Owner)
	assert.Equal(t, sunRequest().Attributes, record.Attributes)
	assert.Empty(t, record.Error)

	require.Len(t, fx.recorder.uploads, 1)
	assert.Equal(t, models.UploadMetadata, fx.recorder.uploads[0].Kind)
	require.Len(t, fx.recorder.mints, 1)
	assert.Equal(t, models.MintSucceeded, fx.recorder.mints[0].Status)
}

func TestCreateNft_ExplicitRecipient(t *testing.T) {
	fx := newFixture(t)

	req := sunRequest()
	req.Recipient = strings.ToLower(bob.Hex())

	result, err := fx.svc.CreateNft(context.Background(), fx.wallet, req)
	require.NoError(t, err)
	assert.Equal(t, bob.Hex(), result.Recipient)
	assert.Equal(t, fx.wallet.Address().Hex(), result.Sender)

	owner, err := fx.svc.OwnerOf(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
}

func TestCreateNft_IncompleteMetadataHasNoEffect(t *testing.T) {
	for _, mutate := range []func(*models.MintRequest){
		func(r *models.MintRequest) { r.Name = "" },
		func(r *models.MintRequest) { r.Description = "  " },
		func(r *models.MintRequest) { r.Image = "" },
	} {
		fx := newFixture(t)
		req := sunRequest()
		mutate(&req)

		result, err := fx.svc.CreateNft(context.Background(), fx.wallet, req)
		assert.ErrorIs(t, err, ErrIncompleteMetadata)
		assert.Nil(t, result)
		assert.Zero(t, fx.store.addCount())
		assert.Zero(t, fx.contract.mintCount())
	}
}

func TestCreateNft_UploadFailureSkipsMint(t *testing.T) {
	fx := newFixture(t)
	fx.store.err = errors.New("401 unauthorized")

	_, err := fx.svc.CreateNft(context.Background(), fx.wallet, sunRequest())
	assert.ErrorIs(t, err, ErrUpload)
	assert.Contains(t, err.Error(), "401")
	assert.Zero(t, fx.contract.mintCount())
}

func TestCreateNft_Reverted(t *testing.T) {
	fx := newFixture(t)
	fx.contract.revert = true

	result, err := fx.svc.CreateNft(context.Background(), fx.wallet, sunRequest())
	require.ErrorIs(t, err, ErrTransaction)
	require.NotNil(t, result)
	assert.Equal(t, models.MintReverted, result.Status)
	assert.NotEmpty(t, result.TxHash)
	assert.Nil(t, result.TokenID)

	require.Len(t, fx.recorder.mints, 1)
	assert.Equal(t, models.MintReverted, fx.recorder.mints[0].Status)
	assert.NotEmpty(t, fx.recorder.mints[0].Error)
}

func TestCreateNft_InvalidRecipient(t *testing.T) {
	fx := newFixture(t)
	req := sunRequest()
	req.Recipient = "not-an-address"

	_, err := fx.svc.CreateNft(context.Background(), fx.wallet, req)
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Zero(t, fx.store.addCount())
}

func TestBuildAndUploadMetadata_RoundTrip(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	meta := models.NftMetadata{
		Name:        "Moon",
		Description: "Not a star",
		Image:       "https://ipfs.infura.io/ipfs/QmImage",
		Owner:       alice.Hex(),
		Attributes: []models.Attribute{
			{TraitType: models.TraitColor, Value: "Red"},
			{TraitType: models.TraitShape, Value: "Square"},
			{TraitType: models.TraitBackground, Value: "Green"},
		},
	}

	up, err := fx.svc.BuildAndUploadMetadata(ctx, meta)
	require.NoError(t, err)
	assert.Equal(t, models.UploadMetadata, up.Kind)
	assert.Equal(t, testGateway+"/ipfs/"+up.CID, up.Locator)
	assert.NotEmpty(t, up.ID)
	assert.Positive(t, up.Size)

	got, err := fx.fetcher.Fetch(ctx, up.Locator)
	require.NoError(t, err)
	assert.Equal(t, meta.Name, got.Name)
	assert.Equal(t, meta.Description, got.Description)
	assert.Equal(t, meta.Image, got.Image)
	assert.Equal(t, meta.Owner, got.Owner)

	assert.Equal(t, meta.Attributes, got.Attributes)
	assert.Equal(t, meta, *got)
}

func TestBuildAndUploadMetadata_RejectsDuplicateTraits(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.BuildAndUploadMetadata(context.Background(), models.NftMetadata{
		Name: "Moon", Description: "Not a star", Image: "ipfs://moon",
		Attributes: []models.Attribute{
			{TraitType: models.TraitColor, Value: "Red"},
			{TraitType: models.TraitColor, Value: "Green"},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Zero(t, fx.store.addCount())
}

func TestBuildAndUploadMetadata_EmptyAttributes(t *testing.T) {
	fx := newFixture(t)

	up, err := fx.svc.BuildAndUploadMetadata(context.Background(), models.NftMetadata{
		Name: "Sun", Description: "A star", Image: "ipfs://abc",
	})
	require.NoError(t, err)

	data, _ := fx.store.blob(up.Locator)
	assert.Contains(t, string(data), `"attributes":[]`)
}

func TestUploadImage(t *testing.T) {
	fx := newFixture(t)

	up, err := fx.svc.UploadImage(context.Background(), "sun.png", strings.NewReader("\x89PNG fake image"))
	require.NoError(t, err)
	assert.Equal(t, models.UploadImage, up.Kind)
	assert.Equal(t, "sun.png", up.Filename)
	assert.Equal(t, int64(len("\x89PNG fake image")), up.Size)

	data, ok := fx.store.blob(up.Locator)
	require.True(t, ok)
	assert.Equal(t, "\x89PNG fake image", string(data))
}

func TestUploadImage_NoFile(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.UploadImage(context.Background(), "empty.png", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = fx.svc.UploadImage(context.Background(), "nil.png", nil)
	assert.ErrorIs(t, err, ErrNoFile)

	assert.Zero(t, fx.store.addCount())
}

func TestUploadImage_Failure(t *testing.T) {
	fx := newFixture(t)
	fx.store.err = errors.New("connection refused")

	_, err := fx.svc.UploadImage(context.Background(), "sun.png", strings.NewReader("img"))
	assert.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, fx.recorder.uploads)
}

func TestListAssets_OrderedAndComplete(t *testing.T) {
	fx := newFixture(t)
	for i := 0; i < 12; i++ {
		fx.seedToken(t, fmt.Sprintf("token-%d", i), alice)
	}

	listing, err := fx.svc.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(12), listing.TotalSupply)
	assert.Empty(t, listing.Failed)
	require.Len(t, listing.Records, 12)

	for i, r := range listing.Records {
		assert.Equal(t, uint64(i), r.Index)
		assert.Equal(t, fmt.Sprintf("token-%d", i), r.Name)
		assert.Equal(t, alice.Hex(), r.Owner)
	}
}

func TestListAssets_EmptyCollection(t *testing.T) {
	fx := newFixture(t)

	listing, err := fx.svc.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Zero(t, listing.TotalSupply)
	assert.NotNil(t, listing.Records)
	assert.Empty(t, listing.Records)
	assert.Empty(t, listing.Failed)
}

func TestListAssets_IsolatesFailures(t *testing.T) {
	fx := newFixture(t)
	var locators []string
	for i := 0; i < 5; i++ {
		locators = append(locators, fx.seedToken(t, fmt.Sprintf("token-%d", i), alice))
	}

	fx.fetcher.failOn[locators[2]] = errors.New("gateway timeout")
	fx.contract.ownerErrAt[3] = errors.New("execution reverted")
	fx.contract.uriErrAt[4] = errors.New("rpc unavailable")

	listing, err := fx.svc.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, listing.Records, 5)
	assert.Equal(t, []uint64{2, 3, 4}, listing.Failed)

	for _, i := range []int{0, 1} {
		assert.Empty(t, listing.Records[i].Error)
		assert.Equal(t, fmt.Sprintf("token-%d", i), listing.Records[i].Name)
	}

	assert.Contains(t, listing.Records[2].Error, "gateway timeout")
	assert.Equal(t, locators[2], listing.Records[2].TokenURI)
	assert.Contains(t, listing.Records[3].Error, "execution reverted")
	assert.Contains(t, listing.Records[4].Error, "rpc unavailable")
	for _, i := range []int{2, 3, 4} {
		assert.Equal(t, uint64(i), listing.Records[i].Index)
		assert.True(t, listing.Records[i].Failed())
	}
}

func TestListAssets_TotalSupplyFailure(t *testing.T) {
	fx := newFixture(t)
	fx.contract.supplyErr = errors.New("dial tcp: connection refused")

	listing, err := fx.svc.ListAssets(context.Background())
	assert.ErrorIs(t, err, ErrRead)
	assert.Nil(t, listing)
}

func TestListAssetsRange(t *testing.T) {
	fx := newFixture(t)
	for i := 0; i < 10; i++ {
		fx.seedToken(t, fmt.Sprintf("token-%d", i), alice)
	}
	ctx := context.Background()

	listing, err := fx.svc.ListAssetsRange(ctx, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), listing.Offset)
	require.Len(t, listing.Records, 4)
	assert.Equal(t, uint64(3), listing.Records[0].Index)
	assert.Equal(t, uint64(6), listing.Records[3].Index)

	listing, err = fx.svc.ListAssetsRange(ctx, 8, 5)
	require.NoError(t, err)
	assert.Len(t, listing.Records, 2)

	listing, err = fx.svc.ListAssetsRange(ctx, 20, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), listing.Offset)
	assert.Empty(t, listing.Records)

	// a limit that would overflow offset+limit reads to the end
	listing, err = fx.svc.ListAssetsRange(ctx, 5, math.MaxUint64)
	require.NoError(t, err)
	require.Len(t, listing.Records, 5)
	assert.Equal(t, uint64(5), listing.Records[0].Index)
	assert.Equal(t, uint64(9), listing.Records[4].Index)
}

func TestGetAsset(t *testing.T) {
	fx := newFixture(t)
	fx.seedToken(t, "only", bob)
	ctx := context.Background()

	record, err := fx.svc.GetAsset(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "only", record.Name)
	assert.Equal(t, bob.Hex(), record.Owner)

	_, err = fx.svc.GetAsset(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnership_ErrorsAreExplicit(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.svc.OwnerOf(ctx, 7)
	assert.ErrorIs(t, err, ErrRead)

	fx.contract.ownerErr = errors.New("network down")
	_, err = fx.svc.ContractOwner(ctx)
	assert.ErrorIs(t, err, ErrRead)

	_, err = fx.svc.IsContractOwner(ctx, alice)
	assert.ErrorIs(t, err, ErrRead)
}

func TestIsContractOwner(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// Parsed from lowercase hex, compared as bytes
	lower := common.HexToAddress(strings.ToLower(fx.wallet.Address().Hex()))
	ok, err := fx.svc.IsContractOwner(ctx, lower)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fx.svc.IsContractOwner(ctx, bob)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, fx.svc.RequireContractOwner(ctx, lower))
	assert.ErrorIs(t, fx.svc.RequireContractOwner(ctx, bob), ErrNotContractOwner)
}

func TestTokenBalance(t *testing.T) {
	fx := newFixture(t)
	fx.seedToken(t, "a", alice)
	fx.seedToken(t, "b", bob)
	fx.seedToken(t, "c", alice)
	ctx := context.Background()

	n, err := fx.svc.TokenBalance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	fx.contract.ownerErr = errors.New("rpc down")
	_, err = fx.svc.TokenBalance(ctx, alice)
	assert.ErrorIs(t, err, ErrRead)
}

func TestBalance(t *testing.T) {
	fx := newFixture(t)
	fx.svc.balances = &fakeBalances{wei: new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17))}

	wei, err := fx.svc.Balance(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "1.5000", FormatBalance(wei))

	fx.svc.balances = &fakeBalances{err: errors.New("rpc down")}
	_, err = fx.svc.Balance(context.Background(), alice)
	assert.ErrorIs(t, err, ErrRead)

	assert.Equal(t, "0.0000", FormatBalance(nil))
}

func TestValidateMintRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.MintRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(r *models.MintRequest) {}},
		{name: "missing name", mutate: func(r *models.MintRequest) { r.Name = "" }, wantErr: "name is required"},
		{name: "missing image", mutate: func(r *models.MintRequest) { r.Image = "" }, wantErr: "image is required"},
		{name: "two attributes", mutate: func(r *models.MintRequest) { r.Attributes = r.Attributes[:2] }, wantErr: "at least 3"},
		{
			name: "duplicate trait",
			mutate: func(r *models.MintRequest) {
				r.Attributes[2] = models.Attribute{TraitType: models.TraitColor, Value: "Red"}
			},
			wantErr: `duplicate trait "color"`,
		},
		{name: "empty value", mutate: func(r *models.MintRequest) { r.Attributes[0].Value = "" }, wantErr: "trait_type and a value"},
		{name: "bad recipient", mutate: func(r *models.MintRequest) { r.Recipient = "0x123" }, wantErr: "not an address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sunRequest()
			tt.mutate(&req)

			err := ValidateMintRequest(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidForm)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
