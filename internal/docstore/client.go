// Package docstore is the HTTP client for the remote document store. The
// store is an opaque JSON blob keyed by collection name: the only
// primitives are fetching and replacing a whole collection document. There
// is no partial update and no server-side transaction, so concurrent
// writers race and the last write wins in full.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/imobsite/listing-manager/internal/logger"
	"github.com/imobsite/listing-manager/internal/models"
)

const (
	defaultTimeout = 30 * time.Second

	maxIdleConns        = 100
	maxIdleConnsPerHost = 10
	idleConnTimeout     = 90 * time.Second
)

// Store is the read/write contract the repository gateway depends on.
type Store interface {
	GetCollection(ctx context.Context, name string) (json.RawMessage, error)
	PutCollection(ctx context.Context, name string, doc json.RawMessage) error
}

// Config holds connection settings for the remote store.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the remote document store over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  logger.Logger
}

// NewClient creates a document store client.
func NewClient(cfg Config, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConnsPerHost,
				IdleConnTimeout:     idleConnTimeout,
			},
		},
		logger: log,
	}
}

// GetCollection fetches the full collection document. A collection the
// store has never seen comes back as an empty JSON array.
func (c *Client) GetCollection(ctx context.Context, name string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch collection %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return json.RawMessage("[]"), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch collection %s: unexpected status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", name, err)
	}

	c.logger.Debug("Fetched collection",
		logger.String("collection", name),
		logger.Int("bytes", len(body)),
		logger.Duration("duration", time.Since(start)),
	)

	return body, nil
}

// PutCollection replaces the full collection document in a single request.
// The store applies the body atomically or not at all; a failed write
// leaves the previous document in place. Failures are reported verbatim
// wrapped in models.ErrWriteFailed and are never retried here.
func (c *Client) PutCollection(ctx context.Context, name string, doc json.RawMessage) error {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrWriteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: unexpected status %d", models.ErrWriteFailed, resp.StatusCode)
	}

	c.logger.Debug("Wrote collection",
		logger.String("collection", name),
		logger.Int("bytes", len(doc)),
		logger.Duration("duration", time.Since(start)),
	)

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}
