// SPDX-License-Identifier: MIT

package stage

import (
	"context"

	"github.com/nmasur/gh-actionaudit/model"
)

// RawFetcher is the subset of githubclient.Client the expansion stages
// depend on, narrowed for testability.
type RawFetcher interface {
	RawGetOptional(ctx context.Context, owner, repo, ref, path string) ([]byte, bool, error)
}

// RefResolver is the subset of githubclient.Client RefResolveStage
// depends on.
type RefResolver interface {
	ResolveRef(ctx context.Context, action model.ActionRef) (string, error)
}

// GraphQLClient is the subset of githubclient.Client ScanStage depends
// on.
type GraphQLClient interface {
	GraphQL(ctx context.Context, query string) (map[string]any, error)
}
