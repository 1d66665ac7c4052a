// SPDX-License-Identifier: MIT

package stage

import (
	"context"

	"github.com/nmasur/gh-actionaudit/model"
	"github.com/nmasur/gh-actionaudit/workflow"
)

// CompositeExpandStage tries action.yml then action.yaml via
// raw_get_optional; if neither exists the action is a leaf. Otherwise
// parse_composite_action's third-party children are appended to
// ctx.Children (spec §4.5.1).
type CompositeExpandStage struct {
	Fetcher RawFetcher
}

func NewCompositeExpandStage(fetcher RawFetcher) *CompositeExpandStage {
	return &CompositeExpandStage{Fetcher: fetcher}
}

func (s *CompositeExpandStage) Name() string { return "composite_expand" }

func (s *CompositeExpandStage) Run(ctx context.Context, auditCtx *model.AuditContext) error {
	action := auditCtx.Action

	for _, candidate := range []string{"action.yml", "action.yaml"} {
		body, ok, err := s.Fetcher.RawGetOptional(ctx, action.Owner, action.Repo, action.GitRef, candidate)
		if err != nil {
			auditCtx.RecordError(s.Name(), err.Error())
			return nil
		}
		if !ok {
			continue
		}

		parsed, err := workflow.ParseCompositeAction(body)
		if err != nil {
			auditCtx.RecordError(s.Name(), err.Error())
			return nil
		}
		for _, warning := range parsed.Warnings {
			auditCtx.RecordError(s.Name(), warning)
		}
		if parsed.IsComposite {
			auditCtx.Children = append(auditCtx.Children, parsed.Children...)
		}
		return nil
	}

	return nil
}
