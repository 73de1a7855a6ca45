// Package telegram is a minimal Telegram Bot API client covering what the
// chat front end needs: long-polling getUpdates and sendMessage with HTML
// formatting and reply keyboards.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultAPIHost = "https://api.telegram.org"

// Client talks to the Telegram Bot API for a single bot token.
type Client struct {
	apiHost    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Bot API client. The HTTP timeout must exceed the long
// poll timeout passed to GetUpdates, so it is derived from it.
func NewClient(token string, pollTimeout time.Duration) *Client {
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Client{
		apiHost: defaultAPIHost,
		token:   token,
		httpClient: &http.Client{
			Timeout: pollTimeout + 10*time.Second,
		},
	}
}

// WithAPIHost overrides the Bot API host, used in tests.
func (c *Client) WithAPIHost(host string) *Client {
	c.apiHost = host
	return c
}

// GetUpdates long-polls for updates with IDs greater than or equal to
// offset. It returns an empty slice when the poll times out with no news.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(int(timeout.Seconds())))
	params.Set("allowed_updates", `["message"]`)

	raw, err := c.call(ctx, "getUpdates?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: get updates: %w", err)
	}

	var updates []Update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("telegram: decode updates: %w", err)
	}
	return updates, nil
}

// SendMessage sends an HTML-formatted message to the given chat, with an
// optional reply keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *ReplyKeyboardMarkup) error {
	payload := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal send message: %w", err)
	}
	if _, err := c.call(ctx, "sendMessage", body); err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	return nil
}

// call performs one Bot API method call and unwraps the response envelope.
// A nil body issues a GET, otherwise a JSON POST.
func (c *Client) call(ctx context.Context, method string, body []byte) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiHost, c.token, method)

	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env apiResponse
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, err)
	}
	if !env.OK {
		return nil, fmt.Errorf("api error %d: %s", env.ErrorCode, env.Description)
	}
	return env.Result, nil
}
