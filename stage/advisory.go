// SPDX-License-Identifier: MIT

package stage

import (
	"context"
	"sync"

	"github.com/nmasur/gh-actionaudit/advisory"
	"github.com/nmasur/gh-actionaudit/model"
)

// AdvisoryStage fans out concurrently to all configured action
// providers, collects the successes, records failures by
// (provider_name, error), and assigns the deduplicated result to
// ctx.Advisories (spec §4.5.4). Fan-out completion order is irrelevant;
// results are concatenated back in the providers' declared order
// before dedup so outcomes are stable.
type AdvisoryStage struct {
	Providers []advisory.ActionProvider
}

func NewAdvisoryStage(providers []advisory.ActionProvider) *AdvisoryStage {
	return &AdvisoryStage{Providers: providers}
}

func (s *AdvisoryStage) Name() string { return "advisory" }

func (s *AdvisoryStage) Run(ctx context.Context, auditCtx *model.AuditContext) error {
	if len(s.Providers) == 0 {
		auditCtx.Advisories = model.DeduplicateAdvisories(nil)
		return nil
	}

	results := make([][]model.Advisory, len(s.Providers))
	errs := make([]error, len(s.Providers))

	var wg sync.WaitGroup
	wg.Add(len(s.Providers))
	for i, provider := range s.Providers {
		go func(i int, provider advisory.ActionProvider) {
			defer wg.Done()
			advisories, err := provider.QueryAction(ctx, auditCtx.Action)
			results[i] = advisories
			errs[i] = err
		}(i, provider)
	}
	wg.Wait()

	var combined []model.Advisory
	for i, provider := range s.Providers {
		if errs[i] != nil {
			auditCtx.RecordError(s.Name(), provider.Name()+": "+errs[i].Error())
			continue
		}
		combined = append(combined, results[i]...)
	}

	auditCtx.Advisories = model.DeduplicateAdvisories(combined)
	return nil
}
