// SPDX-License-Identifier: MIT

package stage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmasur/gh-actionaudit/advisory"
	"github.com/nmasur/gh-actionaudit/model"
	"github.com/nmasur/gh-actionaudit/stage"
)

type fakePackageProvider struct {
	name       string
	byPackage  map[string][]model.Advisory
}

func (f *fakePackageProvider) Name() string { return f.name }

func (f *fakePackageProvider) QueryPackage(_ context.Context, name string, _ model.Ecosystem) ([]model.Advisory, error) {
	return f.byPackage[name], nil
}

func TestDependencyStage_SkipsWithoutNpmEcosystem(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string][]byte{"package.json": []byte(`{"dependencies":{"left-pad":"1.0.0"}}`)}}
	providers := []advisory.PackageProvider{&fakePackageProvider{name: "OSV"}}
	s := stage.NewDependencyStage(fetcher, providers)

	auditCtx := newAuditCtx(t, "actions/checkout@v4")
	auditCtx.Scan = &model.ScanResult{Ecosystems: []model.Ecosystem{model.EcosystemGo}}

	require.NoError(t, s.Run(context.Background(), auditCtx))
	assert.Empty(t, auditCtx.Dependencies)
}

func TestDependencyStage_EmitsReportsForVulnerablePackages(t *testing.T) {
	manifest := []byte(`{"dependencies":{"left-pad":"1.0.0","safe-pkg":"2.0.0"},"devDependencies":{"jest":"9.9.9"}}`)
	fetcher := &fakeFetcher{files: map[string][]byte{"package.json": manifest}}
	providers := []advisory.PackageProvider{
		&fakePackageProvider{name: "OSV", byPackage: map[string][]model.Advisory{
			"left-pad": {{ID: "GHSA-left", Summary: "bad"}},
		}},
	}
	s := stage.NewDependencyStage(fetcher, providers)

	auditCtx := newAuditCtx(t, "actions/checkout@v4")
	auditCtx.Scan = &model.ScanResult{Ecosystems: []model.Ecosystem{model.EcosystemNpm}}

	require.NoError(t, s.Run(context.Background(), auditCtx))
	require.Len(t, auditCtx.Dependencies, 1)
	assert.Equal(t, "left-pad", auditCtx.Dependencies[0].Package)
	assert.Equal(t, "1.0.0", auditCtx.Dependencies[0].Version)
	assert.Equal(t, model.EcosystemNpm, auditCtx.Dependencies[0].Ecosystem)
	require.Len(t, auditCtx.Dependencies[0].Advisories, 1)
}

func TestDependencyStage_MissingManifestIsNoop(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string][]byte{}}
	providers := []advisory.PackageProvider{&fakePackageProvider{name: "OSV"}}
	s := stage.NewDependencyStage(fetcher, providers)

	auditCtx := newAuditCtx(t, "actions/checkout@v4")
	auditCtx.Scan = &model.ScanResult{Ecosystems: []model.Ecosystem{model.EcosystemNpm}}

	require.NoError(t, s.Run(context.Background(), auditCtx))
	assert.Empty(t, auditCtx.Dependencies)
}
