// SPDX-License-Identifier: MIT

// Package githubclient wraps authenticated, disk-cached HTTP access to
// the forge's REST and GraphQL APIs and to the raw-content host. It is
// the concrete "remote fetch client" the audit pipeline's expansion
// and resolution stages depend on.
package githubclient

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/esacteksab/httpcache"
	"github.com/esacteksab/httpcache/diskcache"

	"github.com/nmasur/gh-actionaudit/utils"
)

// SHALength is the standard length of a Git SHA-1 hash.
const SHALength = 40

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// IsHexString reports whether s consists entirely of hex digits.
func IsHexString(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

// Client is the authenticated handle to the forge REST+GraphQL APIs and
// the raw-content host, all routed through the same disk-cached
// http.Client so every stage shares one rate-limit budget and cache.
type Client struct {
	rest       *github.Client
	http       *http.Client
	token      string
	userAgent  string
	rawBaseURL string
}

// Config selects the optional behaviors of a Client.
type Config struct {
	Token      string
	UserAgent  string
	RawBaseURL string // defaults to https://raw.githubusercontent.com
}

const defaultRawBaseURL = "https://raw.githubusercontent.com"

// NewClient builds a Client with a disk-backed HTTP cache and, when a
// token is present, an OAuth2 bearer transport wrapping the cache.
func NewClient(cfg Config) (*Client, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user cache directory: %w", err)
	}

	cachePath := filepath.Join(cacheDir, "gh-actionaudit")
	if err := os.MkdirAll(cachePath, 0o750); err != nil { //nolint:mnd
		return nil, fmt.Errorf("could not create cache directory %q: %w", cachePath, err)
	}

	cache := diskcache.New(cachePath)
	cacheTransport := httpcache.NewTransport(cache)

	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		authTransport := &oauth2.Transport{
			Base:   cacheTransport,
			Source: oauth2.ReuseTokenSource(nil, ts),
		}
		httpClient = &http.Client{Transport: authTransport}
		utils.LogRateLimitStatus("authenticated")
	} else {
		httpClient = &http.Client{Transport: cacheTransport}
		utils.LogRateLimitStatus("unauthenticated")
	}

	rawBaseURL := cfg.RawBaseURL
	if rawBaseURL == "" {
		rawBaseURL = defaultRawBaseURL
	}

	return &Client{
		rest:       github.NewClient(httpClient),
		http:       httpClient,
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		rawBaseURL: rawBaseURL,
	}, nil
}

// HasToken reports whether the client was configured with a bearer
// token, which several operations (GraphQL, repo scan) require.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// CheckRateLimit retrieves and logs the current API rate-limit status.
func (c *Client) CheckRateLimit(ctx context.Context) {
	limits, resp, err := c.rest.RateLimit.Get(ctx)
	if err != nil {
		utils.Logger.Warnf("could not retrieve rate limits: %v", err)
		printRate(respRate(resp))
		return
	}
	if limits != nil && limits.Core != nil {
		printRate(limits.Core)
		return
	}
	utils.Logger.Warn("rate limit data not available in response")
}

func respRate(resp *github.Response) *github.Rate {
	if resp == nil {
		return nil
	}
	return &resp.Rate
}

func printRate(rate *github.Rate) {
	if rate == nil {
		utils.Logger.Warn("rate limit info unavailable")
		return
	}
	resetTime := rate.Reset.Time.Local().Format("15:04:05 MST")
	utils.Logger.Infof("rate limit: %d/%d remaining, resets @ %s", rate.Remaining, rate.Limit, resetTime)
}
