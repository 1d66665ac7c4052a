// SPDX-License-Identifier: MIT

package stage

import (
	"context"

	"github.com/nmasur/gh-actionaudit/model"
)

// RefResolveStage resolves ctx.Action to a commit sha, storing it on
// success; failure is recorded and resolved_ref stays empty (spec
// §4.5.3).
type RefResolveStage struct {
	Resolver RefResolver
}

func NewRefResolveStage(resolver RefResolver) *RefResolveStage {
	return &RefResolveStage{Resolver: resolver}
}

func (s *RefResolveStage) Name() string { return "ref_resolve" }

func (s *RefResolveStage) Run(ctx context.Context, auditCtx *model.AuditContext) error {
	sha, err := s.Resolver.ResolveRef(ctx, auditCtx.Action)
	if err != nil {
		auditCtx.RecordError(s.Name(), err.Error())
		return nil
	}
	auditCtx.ResolvedRef = sha
	return nil
}
