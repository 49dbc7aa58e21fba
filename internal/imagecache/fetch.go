package imagecache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Fetcher loads a single image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

// Ensure HTTPFetcher implements Fetcher at compile time.
var _ Fetcher = (*HTTPFetcher)(nil)

const (
	defaultMaxBytes  = 5 * 1024 * 1024
	defaultUserAgent = "lineup/0.1"
)

// HTTPFetcher downloads images over HTTP and decodes their headers.
type HTTPFetcher struct {
	http      *http.Client
	maxBytes  int64
	userAgent string
}

// NewHTTPFetcher builds a fetcher. A nil client gets a default with timeout;
// maxBytes <= 0 uses a 5 MiB limit.
func NewHTTPFetcher(client *http.Client, maxBytes int64) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &HTTPFetcher{http: client, maxBytes: maxBytes, userAgent: defaultUserAgent}
}

// Fetch downloads url and decodes its dimensions.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}
	return Decode(url, data)
}

// Decode inspects data and returns an Image handle. Only the header is
// decoded; the pixels stay encoded in Data.
func Decode(url string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode image: empty body")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Image{
		URL:    strings.TrimSpace(url),
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   int64(len(data)),
		Data:   data,
	}, nil
}
