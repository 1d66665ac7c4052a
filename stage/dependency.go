// SPDX-License-Identifier: MIT

package stage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/nmasur/gh-actionaudit/advisory"
	"github.com/nmasur/gh-actionaudit/model"
)

// DependencyStage only runs meaningfully when a prior ScanStage
// identified npm in ctx.scan.ecosystems. It fetches package.json,
// extracts the strict top-level "dependencies" map (dev-deps ignored,
// non-string versions skipped), and queries the configured package
// providers for each (name, version) pair, emitting a DependencyReport
// per package with a non-empty deduplicated advisory list (spec
// §4.5.6).
type DependencyStage struct {
	Fetcher   RawFetcher
	Providers []advisory.PackageProvider
}

func NewDependencyStage(fetcher RawFetcher, providers []advisory.PackageProvider) *DependencyStage {
	return &DependencyStage{Fetcher: fetcher, Providers: providers}
}

func (s *DependencyStage) Name() string { return "dependency" }

type packageManifest struct {
	Dependencies map[string]any `json:"dependencies"`
}

func (s *DependencyStage) Run(ctx context.Context, auditCtx *model.AuditContext) error {
	if !auditCtx.Scan.HasEcosystem(model.EcosystemNpm) {
		return nil
	}
	if len(s.Providers) == 0 {
		return nil
	}

	action := auditCtx.Action
	body, ok, err := s.Fetcher.RawGetOptional(ctx, action.Owner, action.Repo, action.GitRef, "package.json")
	if err != nil {
		auditCtx.RecordError(s.Name(), err.Error())
		return nil
	}
	if !ok {
		return nil
	}

	var manifest packageManifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		auditCtx.RecordError(s.Name(), err.Error())
		return nil
	}

	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		version, ok := manifest.Dependencies[name].(string)
		if !ok {
			continue
		}

		advisories := s.queryAll(ctx, auditCtx, name)
		deduped := model.DeduplicateAdvisories(advisories)
		if len(deduped) == 0 {
			continue
		}

		auditCtx.Dependencies = append(auditCtx.Dependencies, model.DependencyReport{
			Package:    name,
			Version:    version,
			Ecosystem:  model.EcosystemNpm,
			Advisories: deduped,
		})
	}

	return nil
}

func (s *DependencyStage) queryAll(ctx context.Context, auditCtx *model.AuditContext, packageName string) []model.Advisory {
	results := make([][]model.Advisory, len(s.Providers))
	errs := make([]error, len(s.Providers))

	var wg sync.WaitGroup
	wg.Add(len(s.Providers))
	for i, provider := range s.Providers {
		go func(i int, provider advisory.PackageProvider) {
			defer wg.Done()
			advisories, err := provider.QueryPackage(ctx, packageName, model.EcosystemNpm)
			results[i] = advisories
			errs[i] = err
		}(i, provider)
	}
	wg.Wait()

	var combined []model.Advisory
	for i, provider := range s.Providers {
		if errs[i] != nil {
			auditCtx.RecordError(s.Name(), provider.Name()+" ("+packageName+"): "+errs[i].Error())
			continue
		}
		combined = append(combined, results[i]...)
	}
	return combined
}
