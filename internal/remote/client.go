// Package remote implements the HTTP client for the notifications REST API.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/note"
)

// Client talks to the notifications endpoint with Bearer token auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client for the given API base URL.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

type notesResponse struct {
	Notes []map[string]any `json:"notes"`
}

// FetchNotes retrieves the current window of notification documents.
func (c *Client) FetchNotes(ctx context.Context) ([]map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, "/notifications/?number=99", nil)
	if err != nil {
		return nil, err
	}
	var resp notesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("remote: decode notes: %w", err)
	}
	return resp.Notes, nil
}

// MarkRead sends read receipts for the given note ids.
func (c *Client) MarkRead(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	form := url.Values{}
	for _, id := range ids {
		form.Set("counts["+id+"]", "1")
	}
	_, err := c.do(ctx, http.MethodPost, "/notifications/read", strings.NewReader(form.Encode()))
	return err
}

// PostReply submits a reply built by the note model to its REST target.
func (c *Client) PostReply(ctx context.Context, r note.Reply) error {
	form := url.Values{}
	form.Set("content", r.Content)
	_, err := c.do(ctx, http.MethodPost, "/"+r.RestPath, strings.NewReader(form.Encode()))
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("remote: request failed",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s %s: status %d", apperr.ErrRemote, method, path, resp.StatusCode)
	}
	return raw, nil
}
