// SPDX-License-Identifier: MIT

// Package model holds the data types shared across the audit pipeline:
// action references, advisories, ecosystems, and the per-node audit
// context and result tree.
package model

import (
	"fmt"
	"strings"
)

// RefType classifies the textual git ref attached to an ActionRef.
type RefType int

const (
	RefUnknown RefType = iota
	RefSha
	RefTag
)

func (t RefType) String() string {
	switch t {
	case RefSha:
		return "sha"
	case RefTag:
		return "tag"
	default:
		return "unknown"
	}
}

// shaLength is the length of a full Git commit SHA-1 hash.
const shaLength = 40

// ActionRef is the canonical identifier for a consumable action or
// reusable workflow: owner/repo[/path]@git-ref. It is immutable once
// constructed by ParseActionRef.
type ActionRef struct {
	Raw    string
	Owner  string
	Repo   string
	Path   string // empty when absent
	GitRef string
	Type   RefType
}

// ParseActionRef parses a raw "owner/repo[/path]@ref" string. The raw
// string must contain an '@' separating the repository path from the
// ref, and the path portion must resolve to at least owner/repo.
func ParseActionRef(raw string) (ActionRef, error) {
	namePart, gitRef, found := strings.Cut(raw, "@")
	if !found {
		return ActionRef{}, fmt.Errorf("missing '@' in action reference: %s", raw)
	}

	segments := strings.Split(namePart, "/")
	if len(segments) < 2 { //nolint:mnd
		return ActionRef{}, fmt.Errorf("expected owner/repo in action reference: %s", raw)
	}

	owner, repo := segments[0], segments[1]
	if owner == "" || repo == "" {
		return ActionRef{}, fmt.Errorf("expected owner/repo in action reference: %s", raw)
	}

	var path string
	if len(segments) > 2 { //nolint:mnd
		path = strings.Join(segments[2:], "/")
	}

	return ActionRef{
		Raw:    raw,
		Owner:  owner,
		Repo:   repo,
		Path:   path,
		GitRef: gitRef,
		Type:   classifyRef(gitRef),
	}, nil
}

// classifyRef implements the ref_type invariant from the spec: exactly
// 40 hex characters is a Sha; otherwise, stripping one optional leading
// 'v' and finding an ASCII digit makes it a Tag; else Unknown.
func classifyRef(gitRef string) RefType {
	if len(gitRef) == shaLength && isHex(gitRef) {
		return RefSha
	}

	withoutV := strings.TrimPrefix(gitRef, "v")
	if withoutV != "" && withoutV[0] >= '0' && withoutV[0] <= '9' {
		return RefTag
	}

	return RefUnknown
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'f'
		isUpper := c >= 'A' && c <= 'F'
		if !isDigit && !isLower && !isUpper {
			return false
		}
	}
	return true
}

// PackageName is the owner/repo[/path] form used as the advisory
// lookup key.
func (a ActionRef) PackageName() string {
	if a.Path == "" {
		return a.Owner + "/" + a.Repo
	}
	return a.Owner + "/" + a.Repo + "/" + a.Path
}

// Version returns the 'v'-stripped tag text, or empty with ok=false
// when the ref isn't a Tag.
func (a ActionRef) Version() (string, bool) {
	if a.Type != RefTag {
		return "", false
	}
	return strings.TrimPrefix(a.GitRef, "v"), true
}

// Key identifies an ActionRef by (owner, repo, path, git_ref), per the
// spec's identity rule — raw is display-only.
func (a ActionRef) Key() string {
	return a.Owner + "/" + a.Repo + "/" + a.Path + "@" + a.GitRef
}

// IsWorkflowRef reports whether this ref's path points at a reusable
// workflow file rather than an action directory.
func (a ActionRef) IsWorkflowRef() bool {
	return strings.Contains(a.Path, ".github/workflows/")
}
