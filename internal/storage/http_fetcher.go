// Package storage fetches OCR model files from remote sources.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxModelBytes caps a single download.
const maxModelBytes = 256 << 20

// HTTPFetcher downloads model files over plain HTTP(S).
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose whole request, body included, is
// bounded by timeout. A zero timeout means no limit.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          4,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,

			// Release assets on GitHub redirect to a CDN host.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (limit: 5)")
				}
				return nil
			},
		},
	}
}

// Fetch downloads url in a single attempt. Any non-2xx status is an error.
func (h *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "application/octet-stream, */*")
	req.Header.Set("User-Agent", "image-scanner/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxModelBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > maxModelBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxModelBytes)
	}
	return data, nil
}
