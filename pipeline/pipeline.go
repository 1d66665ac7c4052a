// SPDX-License-Identifier: MIT

// Package pipeline runs an ordered, immutable list of stages over a
// single AuditContext, recording stage errors as data rather than
// unwinding (spec §4.6).
package pipeline

import (
	"context"

	"github.com/nmasur/gh-actionaudit/model"
	"github.com/nmasur/gh-actionaudit/stage"
	"github.com/nmasur/gh-actionaudit/utils"
)

// Pipeline is the immutable, ordered container of stages plus the
// concurrency budget the Walker reads when scheduling frontier levels.
type Pipeline struct {
	stages         []stage.Stage
	maxConcurrency int
}

// New builds a Pipeline. Stages run in the given order on every call to
// RunOne; they are never re-ordered or skipped except by their own
// internal predicates.
func New(stages []stage.Stage, maxConcurrency int) *Pipeline {
	return &Pipeline{stages: stages, maxConcurrency: maxConcurrency}
}

// MaxConcurrency is the semaphore capacity the Walker bounds concurrent
// node processing by.
func (p *Pipeline) MaxConcurrency() int {
	return p.maxConcurrency
}

// RunOne runs every stage sequentially against auditCtx. A stage error
// is logged and appended to ctx.errors; the next stage still runs
// unconditionally (spec §4.6).
func (p *Pipeline) RunOne(ctx context.Context, auditCtx *model.AuditContext) {
	for _, s := range p.stages {
		if err := s.Run(ctx, auditCtx); err != nil {
			if utils.Logger != nil {
				utils.Logger.Warnf("stage %s failed for %s: %v", s.Name(), auditCtx.Action.Raw, err)
			}
			auditCtx.RecordError(s.Name(), err.Error())
		}
	}
}
