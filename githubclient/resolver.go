// SPDX-License-Identifier: MIT

package githubclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"

	"github.com/nmasur/gh-actionaudit/model"
)

// ResolveRef implements the spec's resolve_ref operation: a Sha ref is
// returned immediately with no network call; otherwise the tag ref is
// tried first, falling back to the branch ref on 404. A resolved
// "commit" object yields its sha directly; a resolved "tag" object is
// dereferenced once more via GetTag to reach the underlying commit.
func (c *Client) ResolveRef(ctx context.Context, action model.ActionRef) (string, error) {
	if action.Type == model.RefSha {
		return action.GitRef, nil
	}

	gitRef, resp, err := c.rest.Git.GetRef(ctx, action.Owner, action.Repo, "refs/tags/"+action.GitRef)
	if err != nil {
		if !isNotFound(err, resp) {
			return "", fmt.Errorf("resolving tag ref %q for %s/%s: %w", action.GitRef, action.Owner, action.Repo, err)
		}
		gitRef, resp, err = c.rest.Git.GetRef(ctx, action.Owner, action.Repo, "refs/heads/"+action.GitRef)
		if err != nil {
			if isNotFound(err, resp) {
				return "", fmt.Errorf("ref %q not found as a tag or branch in %s/%s", action.GitRef, action.Owner, action.Repo)
			}
			return "", fmt.Errorf("resolving branch ref %q for %s/%s: %w", action.GitRef, action.Owner, action.Repo, err)
		}
	}

	obj := gitRef.GetObject()
	if obj == nil {
		return "", fmt.Errorf("ref %q for %s/%s has no object", action.GitRef, action.Owner, action.Repo)
	}

	switch obj.GetType() {
	case "commit":
		return obj.GetSHA(), nil
	case "tag":
		tag, _, err := c.rest.Git.GetTag(ctx, action.Owner, action.Repo, obj.GetSHA())
		if err != nil {
			return "", fmt.Errorf("dereferencing annotated tag for %s/%s: %w", action.Owner, action.Repo, err)
		}
		if tag.Object == nil {
			return "", fmt.Errorf("annotated tag for %s/%s has no underlying commit", action.Owner, action.Repo)
		}
		return tag.Object.GetSHA(), nil
	default:
		return "", fmt.Errorf("ref %q for %s/%s resolved to unsupported object type %q", action.GitRef, action.Owner, action.Repo, obj.GetType())
	}
}

func isNotFound(err error, resp *github.Response) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return resp != nil && resp.StatusCode == http.StatusNotFound
	}
	return false
}
