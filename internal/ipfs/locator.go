package ipfs

import (
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
)

const schemePrefix = "ipfs://"

// Locator builds the gateway URL for a content path: https://<gateway>/ipfs/<path>
func Locator(gateway, path string) string {
	return strings.TrimSuffix(gateway, "/") + "/ipfs/" + strings.TrimPrefix(path, "/")
}

// Resolve turns an ipfs:// URI into a gateway URL. Other URIs are returned unchanged.
func Resolve(gateway, uri string) string {
	if !strings.HasPrefix(uri, schemePrefix) {
		return uri
	}
	path := strings.TrimPrefix(uri, schemePrefix)
	path = strings.TrimPrefix(path, "ipfs/")
	return Locator(gateway, path)
}

// ContentID extracts the CID from a gateway URL or an ipfs:// URI
func ContentID(locator string) (cid.Cid, error) {
	var path string
	switch {
	case strings.HasPrefix(locator, schemePrefix):
		path = strings.TrimPrefix(strings.TrimPrefix(locator, schemePrefix), "ipfs/")
	case strings.Contains(locator, "/ipfs/"):
		path = locator[strings.Index(locator, "/ipfs/")+len("/ipfs/"):]
	default:
		path = locator
	}

	root, _, _ := strings.Cut(path, "/")
	c, err := cid.Decode(root)
	if err != nil {
		return cid.Undef, fmt.Errorf("locator %q does not carry a valid CID: %w", locator, err)
	}
	return c, nil
}
