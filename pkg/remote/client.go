// Package remote implements the client half of the git smart HTTP
// protocol's fetch exchange: one GET for the refs advertisement, one POST
// for the pack. It hands raw bytes to the object layer and owns all network
// policy (timeouts, retries); the core never retries.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gat-vcs/gat/pkg/object"
)

const (
	uploadPackService = "git-upload-pack"
	uploadPackType    = "application/x-git-upload-pack-request"

	// responseLimitPack caps how much of a pack response is read into
	// memory.
	responseLimitPack = 512 << 20
	responseLimitRefs = 8 << 20
)

// ClientOptions configures the transport client.
type ClientOptions struct {
	Timeout     time.Duration // HTTP client timeout (default 60s)
	MaxAttempts int           // retry attempts (default 3)
}

// Client fetches refs advertisements and packs from one remote repository.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
}

// NewClient creates a transport client with default options.
func NewClient(remoteURL string) (*Client, error) {
	return NewClientWithOptions(remoteURL, ClientOptions{})
}

// NewClientWithOptions creates a transport client. Zero-value or negative
// fields in opts receive defaults (60s timeout, 3 attempts).
func NewClientWithOptions(remoteURL string, opts ClientOptions) (*Client, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	if remoteURL == "" {
		return nil, fmt.Errorf("remote URL is required")
	}
	u, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote URL must include scheme and host")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxAttempts: opts.MaxAttempts,
	}, nil
}

// BaseURL returns the normalized remote URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchRefs performs the refs-advertisement request and returns the raw
// response body. Callers parse it with ParseAdvertisement.
func (c *Client) FetchRefs(ctx context.Context) ([]byte, error) {
	refsURL := c.baseURL + "/info/refs?service=" + uploadPackService
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, refsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch refs: %w", err)
	}
	return c.do(req, responseLimitRefs, "fetch refs")
}

// FetchPack performs the upload-pack request for a single wanted commit and
// returns the raw response body, which contains the pack stream.
func (c *Client) FetchPack(ctx context.Context, want object.Hash) ([]byte, error) {
	if _, err := object.ParseHash(string(want)); err != nil {
		return nil, fmt.Errorf("fetch pack: %w", err)
	}

	body := fmt.Sprintf("0032want %s\n00000009done\n", want)
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/"+uploadPackService,
		strings.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch pack: %w", err)
	}
	req.Header.Set("Content-Type", uploadPackType)

	return c.do(req, responseLimitPack, "fetch pack")
}

func (c *Client) do(req *http.Request, limit int64, op string) ([]byte, error) {
	resp, err := retryDo(c.httpClient, req, c.maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	return data, nil
}
