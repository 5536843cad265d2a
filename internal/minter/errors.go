package minter

import "errors"

// Error kinds returned by the service. Causes are wrapped so callers can use errors.Is.
var (
	// ErrUpload means the IPFS add failed
	ErrUpload = errors.New("upload failed")

	// ErrTransaction means safeMint could not be submitted, mined or succeeded with status 0
	ErrTransaction = errors.New("transaction failed")

	// ErrRead means a contract view call failed
	ErrRead = errors.New("contract read failed")

	// ErrIncompleteMetadata means name, description or image is empty
	ErrIncompleteMetadata = errors.New("name, description and image are required")

	// ErrNoFile means the image upload had no content
	ErrNoFile = errors.New("no file selected")

	// ErrNotFound means the token index is outside the minted range
	ErrNotFound = errors.New("token not found")

	// ErrNotContractOwner means the active account may not mint
	ErrNotContractOwner = errors.New("account is not the contract owner")

	// ErrInvalidForm means the mint form failed validation
	ErrInvalidForm = errors.New("invalid mint form")
)
