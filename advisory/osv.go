// SPDX-License-Identifier: MIT

package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nmasur/gh-actionaudit/model"
)

const osvAPIURL = "https://api.osv.dev/v1/query"

// OSVProvider is the public vulnerability database: both ActionProvider
// and PackageProvider, over the same POST endpoint (spec §4.3).
type OSVProvider struct {
	client  HTTPDoer
	baseURL string
}

func NewOSVProvider(client HTTPDoer) *OSVProvider {
	return &OSVProvider{client: client, baseURL: osvAPIURL}
}

func (p *OSVProvider) Name() string { return "OSV" }

type osvQuery struct {
	Package osvQueryPackage `json:"package"`
}

type osvQueryPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type osvResponse struct {
	Vulns []osvVuln `json:"vulns"`
}

type osvVuln struct {
	ID                string             `json:"id"`
	Aliases           []string           `json:"aliases"`
	Summary           string             `json:"summary"`
	References        []osvReference     `json:"references"`
	Affected          []osvAffected      `json:"affected"`
	DatabaseSpecific  *osvDatabaseSpecific `json:"database_specific"`
}

type osvReference struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type osvAffected struct {
	Ranges []osvRange `json:"ranges"`
}

type osvRange struct {
	Events []osvEvent `json:"events"`
}

type osvEvent struct {
	Introduced   string `json:"introduced"`
	Fixed        string `json:"fixed"`
	LastAffected string `json:"last_affected"`
}

type osvDatabaseSpecific struct {
	Severity string `json:"severity"`
}

func (p *OSVProvider) QueryAction(ctx context.Context, action model.ActionRef) ([]model.Advisory, error) {
	body := osvQuery{Package: osvQueryPackage{Name: action.PackageName(), Ecosystem: "GitHub Actions"}}
	return p.query(ctx, body, action.PackageName())
}

func (p *OSVProvider) QueryPackage(ctx context.Context, name string, ecosystem model.Ecosystem) ([]model.Advisory, error) {
	body := osvQuery{Package: osvQueryPackage{Name: name, Ecosystem: ecosystem.String()}}
	return p.query(ctx, body, name)
}

func (p *OSVProvider) query(ctx context.Context, body osvQuery, subject string) ([]model.Advisory, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding OSV query for %s: %w", subject, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("building OSV request for %s: %w", subject, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying OSV for %s: %w", subject, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 { //nolint:mnd
		return nil, fmt.Errorf("OSV request for %s returned status %d", subject, resp.StatusCode)
	}

	var parsed osvResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding OSV response for %s: %w", subject, err)
	}

	return mapOSVVulns(parsed.Vulns), nil
}

func mapOSVVulns(vulns []osvVuln) []model.Advisory {
	advisories := make([]model.Advisory, 0, len(vulns))
	for _, vuln := range vulns {
		severity := "unknown"
		if vuln.DatabaseSpecific != nil && vuln.DatabaseSpecific.Severity != "" {
			severity = strings.ToLower(vuln.DatabaseSpecific.Severity)
		}

		aliases := vuln.Aliases
		if aliases == nil {
			aliases = []string{}
		}

		advisories = append(advisories, model.Advisory{
			ID:            vuln.ID,
			Aliases:       aliases,
			Summary:       vuln.Summary,
			Severity:      severity,
			URL:           referenceURL(vuln.References),
			AffectedRange: affectedRange(vuln.Affected),
			Source:        "OSV",
		})
	}
	return advisories
}

// referenceURL prefers the first ADVISORY reference, falling back to
// the first WEB reference, else empty (spec §4.3).
func referenceURL(refs []osvReference) string {
	var web string
	for _, ref := range refs {
		if ref.Type == "ADVISORY" {
			return ref.URL
		}
		if ref.Type == "WEB" && web == "" {
			web = ref.URL
		}
	}
	return web
}

// affectedRange formats the first affected entry's first range's
// events into the canonical "op value, op value" form (spec §4.3).
func affectedRange(affected []osvAffected) string {
	if len(affected) == 0 || len(affected[0].Ranges) == 0 {
		return ""
	}
	return formatRangeEvents(affected[0].Ranges[0].Events)
}

func formatRangeEvents(events []osvEvent) string {
	parts := make([]string, 0, len(events))
	for _, event := range events {
		if event.Introduced != "" && event.Introduced != "0" {
			parts = append(parts, ">= "+event.Introduced)
		}
		if event.Fixed != "" {
			parts = append(parts, "< "+event.Fixed)
		}
		if event.LastAffected != "" {
			parts = append(parts, "<= "+event.LastAffected)
		}
	}
	return strings.Join(parts, ", ")
}
