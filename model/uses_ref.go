// SPDX-License-Identifier: MIT

package model

import "strings"

// UsesKind tags the variant held by a UsesRef.
type UsesKind int

const (
	UsesLocal UsesKind = iota
	UsesDocker
	UsesThirdParty
)

// UsesRef is the parser's raw classification of a workflow or
// composite-action "uses:" string. Only ThirdParty entries carry an
// ActionRef and flow downstream into the walker.
type UsesRef struct {
	Kind   UsesKind
	Raw    string
	Action ActionRef // valid only when Kind == UsesThirdParty
}

// ClassifyUses classifies a raw "uses:" string per the spec's prefix
// rule: "./" is Local, "docker://" is Docker, otherwise an ActionRef
// parse is attempted. Note that "../" is NOT special-cased here: per
// the normative invariant (is_third_party(s) = ¬(s.startswith("./") ∨
// s.startswith("docker://"))), a "../"-prefixed uses string is
// third-party, not local.
func ClassifyUses(raw string) (UsesRef, error) {
	if strings.HasPrefix(raw, "./") {
		return UsesRef{Kind: UsesLocal, Raw: raw}, nil
	}
	if strings.HasPrefix(raw, "docker://") {
		return UsesRef{Kind: UsesDocker, Raw: raw}, nil
	}

	action, err := ParseActionRef(raw)
	if err != nil {
		return UsesRef{}, err
	}
	return UsesRef{Kind: UsesThirdParty, Raw: raw, Action: action}, nil
}

// IsThirdParty reports whether raw would classify as neither Local nor
// Docker, per the spec's third-party filter invariant.
func IsThirdParty(raw string) bool {
	return !strings.HasPrefix(raw, "./") && !strings.HasPrefix(raw, "docker://")
}
