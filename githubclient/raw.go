// SPDX-License-Identifier: MIT

package githubclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// RawGetOptional fetches a file from the raw-content host. A 404
// yields (nil, false, nil); any other non-2xx status is an error.
func (c *Client) RawGetOptional(ctx context.Context, owner, repo, ref, path string) ([]byte, bool, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBaseURL, owner, repo, ref, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request for %s: %w", url, err)
	}
	c.applyCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 { //nolint:mnd
		return nil, false, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading response body for %s: %w", url, err)
	}
	return body, true, nil
}

func (c *Client) applyCommonHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
