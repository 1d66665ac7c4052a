// SPDX-License-Identifier: MIT

package walker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmasur/gh-actionaudit/model"
	"github.com/nmasur/gh-actionaudit/pipeline"
	"github.com/nmasur/gh-actionaudit/stage"
	"github.com/nmasur/gh-actionaudit/walker"
)

// graphStage expands each action into children per a fixed adjacency
// map, simulating CompositeExpandStage/WorkflowExpandStage without any
// network access.
type graphStage struct {
	children map[string][]string
}

func (g *graphStage) Name() string { return "graph" }

func (g *graphStage) Run(_ context.Context, auditCtx *model.AuditContext) error {
	for _, raw := range g.children[auditCtx.Action.Raw] {
		ref, err := model.ParseActionRef(raw)
		if err != nil {
			return err
		}
		auditCtx.Children = append(auditCtx.Children, ref)
	}
	return nil
}

func buildRoot(t *testing.T, raw string) model.ActionRef {
	t.Helper()
	ref, err := model.ParseActionRef(raw)
	require.NoError(t, err)
	return ref
}

func TestWalker_CycleSafety(t *testing.T) {
	g := &graphStage{children: map[string][]string{
		"org/a@v1": {"org/b@v1"},
		"org/b@v1": {"org/a@v1"}, // cycle back to a
	}}
	p := pipeline.New([]stage.Stage{g}, 4)
	w := walker.New(p, model.UnlimitedDepth)

	trees := w.Walk(context.Background(), []model.ActionRef{buildRoot(t, "org/a@v1")})
	require.Len(t, trees, 1)

	root := trees[0]
	assert.Equal(t, "org/a@v1", root.Raw)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "org/b@v1", root.Children[0].Raw)
	// b's cyclic reference back to a must not recreate a sub-node.
	assert.Empty(t, root.Children[0].Children)
}

func TestWalker_DepthZeroAdmitsRootsOnly(t *testing.T) {
	g := &graphStage{children: map[string][]string{
		"org/a@v1": {"org/b@v1"},
	}}
	p := pipeline.New([]stage.Stage{g}, 4)
	w := walker.New(p, model.Bounded(0))

	trees := w.Walk(context.Background(), []model.ActionRef{buildRoot(t, "org/a@v1")})
	require.Len(t, trees, 1)
	assert.Empty(t, trees[0].Children)
}

func TestWalker_SharedSubgraphVisitedOnce(t *testing.T) {
	g := &graphStage{children: map[string][]string{
		"org/root1@v1": {"org/shared@v1"},
		"org/root2@v1": {"org/shared@v1"},
	}}
	p := pipeline.New([]stage.Stage{g}, 4)
	w := walker.New(p, model.UnlimitedDepth)

	trees := w.Walk(context.Background(), []model.ActionRef{
		buildRoot(t, "org/root1@v1"),
		buildRoot(t, "org/root2@v1"),
	})
	require.Len(t, trees, 2)
	require.Len(t, trees[0].Children, 1)
	// The second root that reaches the same shared ref gets no children
	// under it: the first parent to enqueue it wins.
	assert.Empty(t, trees[1].Children)
}

func TestWalker_PreservesInputOrderForRoots(t *testing.T) {
	g := &graphStage{}
	p := pipeline.New([]stage.Stage{g}, 4)
	w := walker.New(p, model.UnlimitedDepth)

	trees := w.Walk(context.Background(), []model.ActionRef{
		buildRoot(t, "org/z@v1"),
		buildRoot(t, "org/a@v1"),
	})
	require.Len(t, trees, 2)
	assert.Equal(t, "org/z@v1", trees[0].Raw)
	assert.Equal(t, "org/a@v1", trees[1].Raw)
}
