package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultInfoURL          = "https://api.hyperliquid.xyz/info"
	defaultLeaderboardURL   = "https://stats-data.hyperliquid.xyz/Mainnet/leaderboard"
	defaultHTTPTimeout      = 10 * time.Second
	defaultMaxRetries       = 3
	defaultRetryBackoffBase = 150 * time.Millisecond
)

// Client wraps read-only access to the Hyperliquid info and leaderboard
// endpoints. It is safe for concurrent use.
type Client struct {
	infoURL        string
	leaderboardURL string
	httpClient     *http.Client
	maxRetries     int
	logger         *log.Logger
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithInfoURL overrides the default info endpoint URL.
func WithInfoURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.infoURL = url
		}
	}
}

// WithLeaderboardURL overrides the default leaderboard URL.
func WithLeaderboardURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.leaderboardURL = url
		}
	}
}

// WithMaxRetries adjusts the retry budget.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// WithLogger injects a custom logger (defaults to log.Default()).
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient constructs a Hyperliquid API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		infoURL:        defaultInfoURL,
		leaderboardURL: defaultLeaderboardURL,
		httpClient:     &http.Client{Timeout: defaultHTTPTimeout},
		maxRetries:     defaultMaxRetries,
		logger:         log.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// HistoricalOrders fetches the full order history for a user address.
func (c *Client) HistoricalOrders(ctx context.Context, user string) ([]OrderRecord, error) {
	var records []OrderRecord
	if err := c.doInfoRequest(ctx, InfoRequest{Type: "historicalOrders", User: user}, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UserFills fetches executed fills for a user address.
func (c *Client) UserFills(ctx context.Context, user string) ([]Fill, error) {
	var fills []Fill
	if err := c.doInfoRequest(ctx, InfoRequest{Type: "userFills", User: user}, &fills); err != nil {
		return nil, err
	}
	return fills, nil
}

// UserState fetches the clearinghouse state, which carries per-instrument
// leverage annotations for open positions.
func (c *Client) UserState(ctx context.Context, user string) (*UserState, error) {
	var state UserState
	if err := c.doInfoRequest(ctx, InfoRequest{Type: "clearinghouseState", User: user}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// doInfoRequest posts an InfoRequest and decodes the response into result,
// retrying transient failures with exponential backoff.
func (c *Client) doInfoRequest(ctx context.Context, req InfoRequest, result interface{}) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("hyperliquid: encode request: %w", err)
	}
	var lastErr error
	backoff := defaultRetryBackoffBase
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.infoURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("hyperliquid: build request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("hyperliquid: read response: %w", readErr)
			} else if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("hyperliquid: http status %d: %s", resp.StatusCode, string(body))
			} else {
				if result != nil {
					if err := json.Unmarshal(body, result); err != nil {
						return fmt.Errorf("hyperliquid: decode response: %w", err)
					}
				}
				return nil
			}
		}

		if attempt < c.maxRetries {
			c.logf("hyperliquid: %s request attempt %d failed: %v", req.Type, attempt+1, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("hyperliquid: request failed without error detail")
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
