// SPDX-License-Identifier: MIT

package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nmasur/gh-actionaudit/model"
)

// HTTPDoer is the minimal client surface the providers need; satisfied
// by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const ghsaAPIURL = "https://api.github.com/advisories"

// GHSAProvider is the forge-native advisory index: ActionProvider only,
// queried by owner/repo[/path] package name (spec §4.3). It talks to
// the same forge as githubclient.Client but deliberately does not share
// its disk-cached transport: caching advisory responses would violate
// the "offline advisory caching" non-goal.
type GHSAProvider struct {
	client  HTTPDoer
	baseURL string
	token   string
}

// NewGHSAProvider builds a provider over client, which must not be the
// disk-cached transport githubclient.Client uses for REST calls. token
// is optional and, when set, is applied as a bearer header directly on
// each request to raise the forge's rate limit for this endpoint.
func NewGHSAProvider(client HTTPDoer, token string) *GHSAProvider {
	return &GHSAProvider{client: client, baseURL: ghsaAPIURL, token: token}
}

func (p *GHSAProvider) Name() string { return "GHSA" }

type ghsaRecord struct {
	GHSAID        string `json:"ghsa_id"`
	Summary       string `json:"summary"`
	Severity      string `json:"severity"`
	HTMLURL       string `json:"html_url"`
	Vulnerabilities []struct {
		VulnerableVersionRange string `json:"vulnerable_version_range"`
	} `json:"vulnerabilities"`
}

func (p *GHSAProvider) QueryAction(ctx context.Context, action model.ActionRef) ([]model.Advisory, error) {
	query := url.Values{}
	query.Set("ecosystem", "actions")
	query.Set("affects", action.PackageName())

	reqURL := p.baseURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building GHSA request for %s: %w", action.PackageName(), err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying GHSA for %s: %w", action.PackageName(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 { //nolint:mnd
		return nil, fmt.Errorf("GHSA request for %s returned status %d", action.PackageName(), resp.StatusCode)
	}

	var records []ghsaRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding GHSA response for %s: %w", action.PackageName(), err)
	}

	return mapGHSARecords(records), nil
}

func mapGHSARecords(records []ghsaRecord) []model.Advisory {
	advisories := make([]model.Advisory, 0, len(records))
	for _, rec := range records {
		severity := rec.Severity
		if severity == "" {
			severity = "unknown"
		}

		var affectedRange string
		if len(rec.Vulnerabilities) > 0 {
			affectedRange = rec.Vulnerabilities[0].VulnerableVersionRange
		}

		advisories = append(advisories, model.Advisory{
			ID:            rec.GHSAID,
			Aliases:       []string{},
			Summary:       rec.Summary,
			Severity:      severity,
			URL:           rec.HTMLURL,
			AffectedRange: affectedRange,
			Source:        "GHSA",
		})
	}
	return advisories
}
