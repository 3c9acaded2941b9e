// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPFetcher fetches a file from a remote HTTP server
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a new HTTPFetcher
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch performs a GET request against the provided URL and returns the response body
func (f *HTTPFetcher) Fetch(ctx context.Context, uri *URI) (io.ReadCloser, error) {
	if uri == nil || uri.URL == nil {
		return nil, fmt.Errorf("uri is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "pipevet")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: %s", uri, resp.Status)
	}
	return resp.Body, nil
}
