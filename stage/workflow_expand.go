// SPDX-License-Identifier: MIT

package stage

import (
	"context"
	"strings"

	"github.com/nmasur/gh-actionaudit/model"
	"github.com/nmasur/gh-actionaudit/workflow"
)

// WorkflowExpandStage only applies when the action's path names a
// reusable workflow file. It fetches that file and appends its
// third-party uses refs to ctx.Children (spec §4.5.2).
type WorkflowExpandStage struct {
	Fetcher RawFetcher
}

func NewWorkflowExpandStage(fetcher RawFetcher) *WorkflowExpandStage {
	return &WorkflowExpandStage{Fetcher: fetcher}
}

func (s *WorkflowExpandStage) Name() string { return "workflow_expand" }

func (s *WorkflowExpandStage) Run(ctx context.Context, auditCtx *model.AuditContext) error {
	action := auditCtx.Action
	if !strings.Contains(action.Path, ".github/workflows/") {
		return nil
	}

	body, ok, err := s.Fetcher.RawGetOptional(ctx, action.Owner, action.Repo, action.GitRef, action.Path)
	if err != nil {
		auditCtx.RecordError(s.Name(), err.Error())
		return nil
	}
	if !ok {
		return nil
	}

	parsed, err := workflow.ParseWorkflow(body)
	if err != nil {
		auditCtx.RecordError(s.Name(), err.Error())
		return nil
	}
	for _, warning := range parsed.Warnings {
		auditCtx.RecordError(s.Name(), warning)
	}

	for _, ref := range parsed.Refs {
		if ref.Kind == model.UsesThirdParty {
			auditCtx.Children = append(auditCtx.Children, ref.Action)
		}
	}
	return nil
}
