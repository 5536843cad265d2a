package ipfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
)

// ClientConfig configures the IPFS HTTP API client
type ClientConfig struct {
	APIURL        string
	GatewayURL    string
	ProjectID     string // basic auth user for hosted pinning services
	ProjectSecret string
	Pin           bool
	Timeout       time.Duration
}

// Client adds blobs to IPFS through the HTTP API and builds gateway locators.
// It holds no mutable state after construction.
type Client struct {
	shell   *shell.Shell
	gateway string
	pin     bool
}

// NewClient creates a new IPFS client
func NewClient(cfg ClientConfig) *Client {
	httpClient := &http.Client{}
	if cfg.ProjectID != "" {
		httpClient.Transport = &basicAuthTransport{
			user:     cfg.ProjectID,
			password: cfg.ProjectSecret,
			base:     http.DefaultTransport,
		}
	}

	sh := shell.NewShellWithClient(cfg.APIURL, httpClient)
	if cfg.Timeout > 0 {
		sh.SetTimeout(cfg.Timeout)
	}

	return &Client{
		shell:   sh,
		gateway: cfg.GatewayURL,
		pin:     cfg.Pin,
	}
}

// Add pushes the content to IPFS and returns its content path (CID)
func (c *Client) Add(ctx context.Context, r io.Reader) (string, error) {
	type addResult struct {
		path string
		err  error
	}

	// The shell API has no context; the shell timeout bounds the request
	done := make(chan addResult, 1)
	go func() {
		path, err := c.shell.Add(r, shell.Pin(c.pin))
		done <- addResult{path: path, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("ipfs add: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("ipfs add: %w", res.err)
		}
		return res.path, nil
	}
}

// Locator returns the gateway URL for a content path
func (c *Client) Locator(path string) string {
	return Locator(c.gateway, path)
}

// Ping checks the API is reachable
func (c *Client) Ping() bool {
	return c.shell.IsUp()
}

type basicAuthTransport struct {
	user     string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.user, t.password)
	return t.base.RoundTrip(clone)
}
