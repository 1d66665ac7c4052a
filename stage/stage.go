// SPDX-License-Identifier: MIT

// Package stage implements the six concrete enrichment stages run over
// an AuditContext by the Pipeline: expanding composite actions and
// reusable workflows into children, resolving refs to shas, querying
// advisory providers, scanning the repository's manifest profile, and
// auditing npm dependencies.
package stage

import (
	"context"

	"github.com/nmasur/gh-actionaudit/model"
)

// Stage is a single unit of pipeline work. Run may mutate any field of
// ctx; recoverable failures (network errors, parse errors on remote
// data, provider failures) must be recorded on ctx via RecordError and
// the stage must still return nil. Run returns an error only for
// programmer bugs or unparseable local input — never for remote
// failures (spec §4.4).
type Stage interface {
	Name() string
	Run(ctx context.Context, auditCtx *model.AuditContext) error
}
