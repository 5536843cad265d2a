package models

// MintForm is the JSON body accepted by POST /nfts
type MintForm struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Recipient   string      `json:"recipient,omitempty"`
	Attributes  []Attribute `json:"attributes"`
}

// MintResponse is returned after a successful mint.
// Record is filled when the minted token id is known and could be read back.
type MintResponse struct {
	Mint   *MintResult `json:"mint"`
	Record *NftRecord  `json:"record,omitempty"`
}

// OwnerResponse reports a token or contract owner
type OwnerResponse struct {
	Index   *uint64 `json:"index,omitempty"`
	Owner   string  `json:"owner"`
	Address string  `json:"address,omitempty"`
	IsOwner *bool   `json:"is_owner,omitempty"`
}

// WalletResponse reports the active account and its balance
type WalletResponse struct {
	Address    string `json:"address"`
	BalanceWei string `json:"balance_wei"`
	Balance    string `json:"balance"`
	Symbol     string `json:"symbol"`
	Tokens     uint64 `json:"tokens"`
}

// MintListResponse represents a paginated list of recorded mints
type MintListResponse struct {
	Mints    []*MintResult `json:"mints"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
