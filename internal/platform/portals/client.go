// Package portals is the REST client for the Portals marketplace gift
// listings.
package portals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// Client fetches the current gift listings from the Portals marketplace.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Portals client.
//
// baseURL is the marketplace root, e.g. "https://portals.market".
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
func (c *Client) Market() domain.Market { return domain.MarketPortals }

// Fetch returns the marketplace's current gift listings. Malformed entries
// are dropped so callers always receive clean input.
func (c *Client) Fetch(ctx context.Context) ([]domain.Listing, error) {
	body, err := c.doGet(ctx, "/api/gifts")
	if err != nil {
		return nil, fmt.Errorf("portals: fetch gifts: %w", err)
	}

	var apiGifts []APIGift
	if err := json.Unmarshal(body, &apiGifts); err != nil {
		return nil, fmt.Errorf("portals: decode gifts: %w", err)
	}

	listings := make([]domain.Listing, 0, len(apiGifts))
	for _, g := range apiGifts {
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
