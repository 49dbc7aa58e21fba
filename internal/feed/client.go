package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher defines the interface for loading the feed.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	Fetch(ctx context.Context) (Feed, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client downloads the published CSV export.
type Client struct {
	feedURL   *url.URL
	http      *http.Client
	userAgent string
	maxBytes  int64
}

const (
	defaultUserAgent = "lineup/0.1"
	requestTimeout   = 15 * time.Second
	maxFeedBytes     = 16 * 1024 * 1024
)

// NewClient builds a Client for feedURL. A nil httpClient gets a default with
// a request timeout.
func NewClient(feedURL string, httpClient *http.Client) (*Client, error) {
	u, err := parseFeedURL(feedURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		feedURL:   u,
		http:      httpClient,
		userAgent: defaultUserAgent,
		maxBytes:  maxFeedBytes,
	}, nil
}

// URL returns the feed location.
func (c *Client) URL() string {
	if c == nil || c.feedURL == nil {
		return ""
	}
	return c.feedURL.String()
}

// Fetch performs a single GET of the feed and parses it.
func (c *Client) Fetch(ctx context.Context) (Feed, error) {
	if c == nil {
		return Feed{}, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL.String(), nil)
	if err != nil {
		return Feed{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Feed{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Feed{}, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return Feed{}, fmt.Errorf("read feed: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return Feed{}, fmt.Errorf("feed exceeds %d bytes", c.maxBytes)
	}

	parsed, err := Parse(bytes.NewReader(body))
	if err != nil {
		return Feed{}, fmt.Errorf("parse feed: %w", err)
	}
	return parsed, nil
}

func parseFeedURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("feed url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse feed url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("feed url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("feed url %q: missing host", raw)
	}
	u.Fragment = ""
	return u, nil
}
