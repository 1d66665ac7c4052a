// SPDX-License-Identifier: MIT

// Package advisory provides pluggable adapters over the forge-native
// (GHSA-like) and public vulnerability-database (OSV-like) backends,
// queried either by action reference or by package name.
package advisory

import (
	"context"
	"fmt"

	"github.com/nmasur/gh-actionaudit/model"
)

// ActionProvider looks up advisories for a consumed action, keyed on
// its owner/repo[/path] package name.
type ActionProvider interface {
	QueryAction(ctx context.Context, action model.ActionRef) ([]model.Advisory, error)
	Name() string
}

// PackageProvider looks up advisories for a named package in a given
// ecosystem, used by DependencyStage for transitive npm dependencies.
type PackageProvider interface {
	QueryPackage(ctx context.Context, name string, ecosystem model.Ecosystem) ([]model.Advisory, error)
	Name() string
}

// Providers is the resolved set handed to the Advisory and Dependency
// stages: action-providers for direct action lookups, package-providers
// for dependency-manifest lookups. Declaration order here is the dedup
// tie-break order (spec §4.3, §4.5.4).
type Providers struct {
	Action  []ActionProvider
	Package []PackageProvider
}

// NewProviders is the factory described in spec §4.3: a selector string
// resolves to a concrete provider set. Unknown selectors are a
// configuration error. httpClient must be a plain client, never the
// disk-cached one githubclient.Client builds REST calls from — caching
// advisory responses would violate the "offline advisory caching"
// non-goal. token, when non-empty, is applied by GHSAProvider as a
// per-request bearer header; OSV is a public database and takes none.
func NewProviders(selector string, httpClient HTTPDoer, token string) (Providers, error) {
	ghsa := NewGHSAProvider(httpClient, token)
	osv := NewOSVProvider(httpClient)

	switch selector {
	case "ghsa":
		return Providers{Action: []ActionProvider{ghsa}}, nil
	case "osv":
		return Providers{Action: []ActionProvider{osv}, Package: []PackageProvider{osv}}, nil
	case "all":
		return Providers{
			Action:  []ActionProvider{ghsa, osv},
			Package: []PackageProvider{osv},
		}, nil
	default:
		return Providers{}, fmt.Errorf("unknown advisory provider selector %q", selector)
	}
}
