package zuul

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultStatusURL is the status endpoint of the OpenStack zuul.
const DefaultStatusURL = "http://zuul.openstack.org/status.json"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxRetries is the default number of retry attempts.
const DefaultMaxRetries = 3

// DefaultRetryWait is the default initial wait between retries.
const DefaultRetryWait = 1 * time.Second

// Client fetches the zuul status document.
type Client struct {
	client     *http.Client
	statusURL  string
	maxRetries int
	retryWait  time.Duration
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	Client     *http.Client
	StatusURL  string
	MaxRetries int
	RetryWait  time.Duration
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:     cfg.Client,
		statusURL:  cfg.StatusURL,
		maxRetries: cfg.MaxRetries,
		retryWait:  cfg.RetryWait,
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: DefaultTimeout}
	}
	if c.statusURL == "" {
		c.statusURL = DefaultStatusURL
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.retryWait <= 0 {
		c.retryWait = DefaultRetryWait
	}

	return c
}

// Fetch retrieves and decodes the status document, retrying transient
// failures with exponential backoff.
func (c *Client) Fetch(ctx context.Context) (*Status, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		status, err := c.fetchOnce(ctx)
		if err == nil {
			return status, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("zuul status request failed: %w", lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("zuul returned %d: %s", resp.StatusCode, body)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}
