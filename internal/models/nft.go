package models

// Attribute is a single trait of an NFT as it appears in the metadata document
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// NftMetadata is the JSON document stored on IPFS and referenced by the token URI.
// Field order here is the serialization order of the uploaded document.
type NftMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Owner       string      `json:"owner"`
	Attributes  []Attribute `json:"attributes"`
}

// IsComplete reports whether name, description and image are all set
func (m *NftMetadata) IsComplete() bool {
	return m.Name != "" && m.Description != "" && m.Image != ""
}

// NftRecord is the view of a single minted token, rebuilt on every read
type NftRecord struct {
	Index       uint64      `json:"index"`
	Owner       string      `json:"owner,omitempty"`
	Name        string      `json:"name,omitempty"`
	Image       string      `json:"image,omitempty"`
	Description string      `json:"description,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
	TokenURI    string      `json:"token_uri,omitempty"`

	// Error is set when this index could not be read; other fields may be empty
	Error string `json:"error,omitempty"`
}

// Failed reports whether the record carries an error marker
func (r *NftRecord) Failed() bool {
	return r.Error != ""
}

// Listing is the result of an enumeration over a range of token indices
type Listing struct {
	TotalSupply uint64      `json:"total_supply"`
	Offset      uint64      `json:"offset"`
	Records     []NftRecord `json:"records"`
	Failed      []uint64    `json:"failed,omitempty"`
}
