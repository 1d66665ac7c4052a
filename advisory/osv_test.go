// SPDX-License-Identifier: MIT

package advisory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmasur/gh-actionaudit/model"
)

func TestOSVProvider_QueryAction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"vulns": [{
				"id": "GHSA-mcph-m25j-8j63",
				"summary": "tj-actions/changed-files workflow compromise",
				"references": [
					{"type": "ADVISORY", "url": "https://github.com/advisories/GHSA-mcph-m25j-8j63"},
					{"type": "WEB", "url": "https://example.com/other"}
				],
				"affected": [{
					"ranges": [{
						"events": [
							{"introduced": "0"},
							{"fixed": "46.0.1"}
						]
					}]
				}],
				"database_specific": {"severity": "CRITICAL"}
			}]
		}`))
	}))
	defer server.Close()

	action, err := model.ParseActionRef("tj-actions/changed-files@v45")
	require.NoError(t, err)

	provider := NewOSVProvider(http.DefaultClient)
	provider.baseURL = server.URL

	advisories, err := provider.QueryAction(context.Background(), action)
	require.NoError(t, err)
	require.Len(t, advisories, 1)

	adv := advisories[0]
	assert.Equal(t, "GHSA-mcph-m25j-8j63", adv.ID)
	assert.Equal(t, "critical", adv.Severity)
	assert.Equal(t, "https://github.com/advisories/GHSA-mcph-m25j-8j63", adv.URL)
	assert.Equal(t, "< 46.0.1", adv.AffectedRange)
	assert.Equal(t, "OSV", adv.Source)
}

func TestOSVProvider_FallsBackToWebURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"vulns": [{
				"id": "OSV-1234",
				"summary": "some issue",
				"references": [{"type": "WEB", "url": "https://example.com/web"}],
				"affected": []
			}]
		}`))
	}))
	defer server.Close()

	provider := NewOSVProvider(http.DefaultClient)
	provider.baseURL = server.URL

	advisories, err := provider.QueryPackage(context.Background(), "left-pad", model.EcosystemNpm)
	require.NoError(t, err)
	require.Len(t, advisories, 1)
	assert.Equal(t, "https://example.com/web", advisories[0].URL)
	assert.Equal(t, "unknown", advisories[0].Severity)
}

func TestOSVProvider_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := NewOSVProvider(http.DefaultClient)
	provider.baseURL = server.URL

	action, err := model.ParseActionRef("actions/checkout@v3")
	require.NoError(t, err)

	advisories, err := provider.QueryAction(context.Background(), action)
	require.NoError(t, err)
	assert.Empty(t, advisories)
}

func TestFormatRangeEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []osvEvent
		want   string
	}{
		{"introduced_zero_and_fixed", []osvEvent{{Introduced: "0"}, {Fixed: "46.0.1"}}, "< 46.0.1"},
		{"introduced_nonzero_only", []osvEvent{{Introduced: "1.2.0"}}, ">= 1.2.0"},
		{"last_affected", []osvEvent{{Introduced: "0"}, {LastAffected: "2.0.0"}}, "<= 2.0.0"},
		{"empty", []osvEvent{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatRangeEvents(tt.events))
		})
	}
}

func TestReferenceURL(t *testing.T) {
	advisoryFirst := []osvReference{
		{Type: "WEB", URL: "https://example.com/web"},
		{Type: "ADVISORY", URL: "https://example.com/advisory"},
	}
	assert.Equal(t, "https://example.com/advisory", referenceURL(advisoryFirst))
	assert.Equal(t, "https://example.com/web", referenceURL(advisoryFirst[:1]))
	assert.Equal(t, "", referenceURL(nil))
}
