// Package fetcher downloads video bytes over HTTP.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBadStatus is returned for any non-2xx response.
var ErrBadStatus = errors.New("unexpected status")

// Fetcher opens a remote resource for reading.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type implFetcher struct {
	client *http.Client
}

// New creates a Fetcher. A nil client means http.DefaultClient.
func New(client *http.Client) Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &implFetcher{client: client}
}

// Fetch returns the response body; the caller closes it.
func (f *implFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "reel-remix/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("%w %d fetching %s", ErrBadStatus, resp.StatusCode, url)
	}

	return resp.Body, nil
}
