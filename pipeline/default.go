// SPDX-License-Identifier: MIT

package pipeline

import (
	"github.com/nmasur/gh-actionaudit/advisory"
	"github.com/nmasur/gh-actionaudit/githubclient"
	"github.com/nmasur/gh-actionaudit/stage"
)

// BuildDefault assembles the canonical stage order for a recursive
// traversal: CompositeExpand → WorkflowExpand → RefResolve → Advisory →
// Scan → Dependency. Expansion precedes resolution so children can be
// enqueued on the raw ref; Dependency follows Scan so it can read
// ctx.scan.ecosystems (spec §4.6).
func BuildDefault(client *githubclient.Client, providers advisory.Providers, maxConcurrency int) *Pipeline {
	stages := []stage.Stage{
		stage.NewCompositeExpandStage(client),
		stage.NewWorkflowExpandStage(client),
		stage.NewRefResolveStage(client),
		stage.NewAdvisoryStage(providers.Action),
		stage.NewScanStage(client),
		stage.NewDependencyStage(client, providers.Package),
	}
	return New(stages, maxConcurrency)
}
