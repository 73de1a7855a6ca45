// Package tonnel is the REST client for the Tonnel marketplace gift listings.
package tonnel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// Client fetches the current gift listings from the Tonnel marketplace.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Tonnel client.
//
// baseURL is the marketplace root, e.g. "https://tonnel.market".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Market returns the marketplace identity of this source.
func (c *Client) Market() domain.Market { return domain.MarketTonnel }

// Fetch returns the marketplace's current gift listings. Malformed entries
// are dropped so callers always receive clean input.
func (c *Client) Fetch(ctx context.Context) ([]domain.Listing, error) {
	body, err := c.doGet(ctx, "/api/gifts")
	if err != nil {
		return nil, fmt.Errorf("tonnel: fetch gifts: %w", err)
	}

	var resp giftsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("tonnel: decode gifts: %w", err)
	}

	listings := make([]domain.Listing, 0, len(resp.Gifts))
	for _, g := range resp.Gifts {
		if l, ok := g.ToDomainListing(); ok {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSourceDown, resp.StatusCode, string(snippet))
	}

	return io.ReadAll(resp.Body)
}

// Compile-time interface check.
var _ domain.ListingSource = (*Client)(nil)
