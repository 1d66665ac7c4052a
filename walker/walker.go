// SPDX-License-Identifier: MIT

// Package walker drives the breadth-first traversal described in spec
// §4.7: each distinct action ref is processed at most once, levels are
// fully drained before the next begins, and children are enumerated in
// parent-then-declaration order so the assembled tree is deterministic
// regardless of the concurrent completion order within a level.
package walker

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/nmasur/gh-actionaudit/model"
	"github.com/nmasur/gh-actionaudit/pipeline"
)

type frontierEntry struct {
	action    model.ActionRef
	depth     int
	parentKey string
}

// Walker owns the visited set, frontier, and processed-node map for a
// single traversal run, per the spec's ownership rule (§3).
type Walker struct {
	pipeline *pipeline.Pipeline
	maxDepth model.DepthLimit
}

func New(p *pipeline.Pipeline, maxDepth model.DepthLimit) *Walker {
	return &Walker{pipeline: p, maxDepth: maxDepth}
}

// Walk runs the BFS protocol over roots (preserving input order) and
// returns the assembled AuditNode trees, one per root, in input order.
func (w *Walker) Walk(ctx context.Context, roots []model.ActionRef) []*model.AuditNode {
	visited := make(map[string]bool)
	allNodes := make(map[string]*model.AuditContext)
	childrenOrder := make(map[string][]string)
	rootKeys := make([]string, 0, len(roots))

	frontier := make([]frontierEntry, 0, len(roots))
	for _, root := range roots {
		frontier = append(frontier, frontierEntry{action: root, depth: 0})
		rootKeys = append(rootKeys, root.Raw)
	}

	maxConcurrency := int64(w.pipeline.MaxConcurrency())
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	for len(frontier) > 0 {
		currentLevel := make([]frontierEntry, 0, len(frontier))
		for _, entry := range frontier {
			if visited[entry.action.Raw] {
				continue
			}
			visited[entry.action.Raw] = true
			currentLevel = append(currentLevel, entry)
		}
		frontier = frontier[:0]

		results := w.runLevel(ctx, currentLevel, maxConcurrency)

		for i, entry := range currentLevel {
			auditCtx := results[i]
			allNodes[entry.action.Raw] = auditCtx

			if entry.parentKey != "" {
				childrenOrder[entry.parentKey] = append(childrenOrder[entry.parentKey], entry.action.Raw)
			}

			if !w.maxDepth.Admits(entry.depth + 1) {
				continue
			}
			for _, child := range auditCtx.Children {
				frontier = append(frontier, frontierEntry{
					action:    child,
					depth:     entry.depth + 1,
					parentKey: entry.action.Raw,
				})
			}
		}
	}

	trees := make([]*model.AuditNode, 0, len(rootKeys))
	for _, key := range rootKeys {
		trees = append(trees, assembleTree(key, allNodes, childrenOrder))
	}
	return trees
}

// runLevel processes a filtered level concurrently, bounded by a
// semaphore of capacity maxConcurrency, and returns each entry's
// completed AuditContext in the same order as currentLevel.
func (w *Walker) runLevel(ctx context.Context, currentLevel []frontierEntry, maxConcurrency int64) []*model.AuditContext {
	results := make([]*model.AuditContext, len(currentLevel))
	sem := semaphore.NewWeighted(maxConcurrency)

	done := make(chan struct{}, len(currentLevel))
	for i, entry := range currentLevel {
		i, entry := i, entry
		go func() {
			defer func() { done <- struct{}{} }()

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = model.NewAuditContext(entry.action, entry.depth, entry.parentKey, i)
				return
			}
			defer sem.Release(1)

			auditCtx := model.NewAuditContext(entry.action, entry.depth, entry.parentKey, i)
			w.pipeline.RunOne(ctx, auditCtx)
			results[i] = auditCtx
		}()
	}
	for range currentLevel {
		<-done
	}

	return results
}

// assembleTree recurses from key, popping each processed context from
// allNodes and recursing on childrenOrder[key], building the AuditNode
// per spec §4.7 step 6.
func assembleTree(key string, allNodes map[string]*model.AuditContext, childrenOrder map[string][]string) *model.AuditNode {
	auditCtx, ok := allNodes[key]
	if !ok {
		return nil
	}

	node := model.NewAuditNode(auditCtx)
	for _, childKey := range childrenOrder[key] {
		if child := assembleTree(childKey, allNodes, childrenOrder); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}
