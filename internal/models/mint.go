package models

import "time"

// UploadKind tells what kind of blob was pushed to IPFS
type UploadKind string

const (
	UploadImage    UploadKind = "image"
	UploadMetadata UploadKind = "metadata"
)

// Upload describes a blob added to IPFS
type Upload struct {
	ID        string     `json:"id"`
	Kind      UploadKind `json:"kind"`
	Filename  string     `json:"filename,omitempty"`
	CID       string     `json:"cid"`
	Locator   string     `json:"locator"`
	Size      int64      `json:"size"`
	CreatedAt time.Time  `json:"created_at"`
}

// MintRequest carries the user supplied fields of a new NFT
type MintRequest struct {
	Name        string
	Description string
	Image       string
	Attributes  []Attribute

	// Recipient is the address the token is minted to.
	// Empty means the active wallet account.
	Recipient string
}

// MintStatus is the outcome of a mint attempt
type MintStatus string

const (
	MintSucceeded MintStatus = "success"
	MintReverted  MintStatus = "reverted"
	MintFailed    MintStatus = "failed"
)

// MintResult describes a submitted safeMint transaction
type MintResult struct {
	ID          string     `json:"id"`
	TxHash      string     `json:"tx_hash,omitempty"`
	Sender      string     `json:"sender"`
	Recipient   string     `json:"recipient"`
	TokenURI    string     `json:"token_uri"`
	MetadataCID string     `json:"metadata_cid,omitempty"`
	TokenID     *uint64    `json:"token_id,omitempty"`
	BlockNumber uint64     `json:"block_number,omitempty"`
	GasUsed     uint64     `json:"gas_used,omitempty"`
	Status      MintStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
