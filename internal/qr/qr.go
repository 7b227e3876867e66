// Package qr wraps the external QR image rendering service. The service is a
// plain URL-parameterized HTTP API, so this is a thin client: build the
// image URL for a label link, or fetch the PNG bytes for proxying/printing.
package qr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the free endpoint the original labels were generated
// with; overridable for tests and self-hosted renderers.
const DefaultBaseURL = "https://api.qrserver.com/v1/create-qr-code/"

// Client fetches QR images for label URLs.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client against the given base URL, or DefaultBaseURL when
// empty.
func New(base string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// ImageURL returns the renderer URL for a square QR image encoding data.
func (c *Client) ImageURL(data string, size int) string {
	if size <= 0 {
		size = 200
	}
	return fmt.Sprintf("%s?size=%dx%d&data=%s", c.base, size, size, url.QueryEscape(data))
}

// Fetch downloads the rendered PNG. The caller owns the returned bytes; the
// response is fully read so the connection can be reused.
func (c *Client) Fetch(ctx context.Context, data string, size int) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(data, size), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("qr renderer returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, "", err
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/png"
	}
	return body, ct, nil
}
