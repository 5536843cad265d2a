package minter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"

	"minter/internal/ipfs"
	"minter/internal/models"
	"minter/internal/wallet"
)

const (
	testGateway = "https://ipfs.infura.io"
	testKey     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

var contractAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

type token struct {
	uri   string
	owner common.Address
}

// fakeContract keeps minted tokens in memory
type fakeContract struct {
	mu sync.Mutex

	owner  common.Address
	tokens []token
	minted map[common.Hash]uint64
	nonce  uint64
	revert bool
	mints  int

	supplyErr  error
	ownerErr   error
	uriErrAt   map[uint64]error
	ownerErrAt map[uint64]error
}

func newFakeContract(owner common.Address) *fakeContract {
	return &fakeContract{
		owner:      owner,
		minted:     make(map[common.Hash]uint64),
		uriErrAt:   make(map[uint64]error),
		ownerErrAt: make(map[uint64]error),
	}
}

func (f *fakeContract) seed(uri string, owner common.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token{uri: uri, owner: owner})
}

func (f *fakeContract) TotalSupply(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.supplyErr != nil {
		return 0, f.supplyErr
	}
	return uint64(len(f.tokens)), nil
}

func (f *fakeContract) TokenURI(ctx context.Context, id uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uriErrAt[id]; err != nil {
		return "", err
	}
	if id >= uint64(len(f.tokens)) {
		return "", errors.New("execution reverted: ERC721: invalid token ID")
	}
	return f.tokens[id].uri, nil
}

func (f *fakeContract) OwnerOf(ctx context.Context, id uint64) (common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ownerErrAt[id]; err != nil {
		return common.Address{}, err
	}
	if id >= uint64(len(f.tokens)) {
		return common.Address{}, errors.New("execution reverted: ERC721: invalid token ID")
	}
	return f.tokens[id].owner, nil
}

func (f *fakeContract) Owner(ctx context.Context) (common.Address, error) {
	if f.ownerErr != nil {
		return common.Address{}, f.ownerErr
	}
	return f.owner, nil
}

func (f *fakeContract) BalanceOf(ctx context.Context, holder common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ownerErr != nil {
		return 0, f.ownerErr
	}
	var n uint64
	for _, tk := range f.tokens {
		if tk.owner == holder {
			n++
		}
	}
	return n, nil
}

func (f *fakeContract) SafeMint(opts *bind.TransactOpts, to common.Address, uri string) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mints++
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    f.nonce,
		To:       &contractAddr,
		Gas:      210000,
		GasPrice: big.NewInt(1),
		Data:     []byte(uri),
	})
	f.nonce++

	if !f.revert {
		f.minted[tx.Hash()] = uint64(len(f.tokens))
		f.tokens = append(f.tokens, token{uri: uri, owner: to})
	}
	return tx, nil
}

func (f *fakeContract) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	status := types.ReceiptStatusSuccessful
	if f.revert {
		status = types.ReceiptStatusFailed
	}
	return &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(100),
		GasUsed:     90000,
	}, nil
}

func (f *fakeContract) MintedTokenID(receipt *types.Receipt) (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.minted[receipt.TxHash]
	return id, ok
}

func (f *fakeContract) mintCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mints
}

// memStore is a content-addressed in-memory IPFS
type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	err   error
	adds  int
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Add(ctx context.Context, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adds++
	if m.err != nil {
		return "", m.err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	path := cid.NewCidV0(mh).String()
	m.blobs[path] = data
	return path, nil
}

func (m *memStore) Locator(path string) string {
	return ipfs.Locator(testGateway, path)
}

func (m *memStore) blob(locator string) ([]byte, bool) {
	c, err := ipfs.ContentID(locator)
	if err != nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[c.String()]
	return data, ok
}

func (m *memStore) addCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adds
}

// storeFetcher dereferences locators against a memStore
type storeFetcher struct {
	store  *memStore
	failOn map[string]error
}

func (f *storeFetcher) Fetch(ctx context.Context, uri string) (*models.NftMetadata, error) {
	if err := f.failOn[uri]; err != nil {
		return nil, err
	}
	data, ok := f.store.blob(uri)
	if !ok {
		return nil, fmt.Errorf("failed to fetch %q: unexpected status 404 Not Found", uri)
	}
	var meta models.NftMetadata
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	uploads []*models.Upload
	mints   []*models.MintResult
}

func (r *fakeRecorder) RecordUpload(ctx context.Context, u *models.Upload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, u)
}

func (r *fakeRecorder) RecordMint(ctx context.Context, m *models.MintResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mints = append(r.mints, m)
}

type fakeBalances struct {
	wei *big.Int
	err error
}

func (b *fakeBalances) BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
	return b.wei, b.err
}

type fixture struct {
	svc      *Service
	contract *fakeContract
	store    *memStore
	fetcher  *storeFetcher
	recorder *fakeRecorder
	wallet   *wallet.KeyedWallet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	w, err := wallet.FromHexKey(testKey, big.NewInt(44787))
	require.NoError(t, err)

	contract := newFakeContract(w.Address())
	store := newMemStore()
	fetcher := &storeFetcher{store: store, failOn: make(map[string]error)}
	recorder := &fakeRecorder{}

	svc, err := NewService(Deps{
		Contract: contract,
		Store:    store,
		Fetcher:  fetcher,
		Balances: &fakeBalances{wei: big.NewInt(0)},
		Recorder: recorder,
	}, Options{Workers: 4})
	require.NoError(t, err)

	return &fixture{
		svc:      svc,
		contract: contract,
		store:    store,
		fetcher:  fetcher,
		recorder: recorder,
		wallet:   w,
	}
}

// seedToken uploads a metadata document and registers it as the next token
func (fx *fixture) seedToken(t *testing.T, name string, owner common.Address) string {
	t.Helper()
	up, err := fx.svc.BuildAndUploadMetadata(context.Background(), models.NftMetadata{
		Name:        name,
		Description: name + " description",
		Image:       "ipfs://" + name,
		Owner:       owner.Hex(),
		Attributes: []models.Attribute{
			{TraitType: models.TraitColor, Value: "Red"},
		},
	})
	require.NoError(t, err)
	fx.contract.seed(up.Locator, owner)
	return up.Locator
}
