// SPDX-License-Identifier: MIT

package model

// AuditError names the stage that produced a recoverable error and
// carries its message. Errors are data, not control flow: a node with
// errors still appears in the output tree with whatever enrichment
// succeeded.
type AuditError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// AuditContext is the per-node working state threaded through the
// pipeline. Immutable inputs are set once by the walker when it admits
// a node; mutable outputs accumulate as each stage runs.
type AuditContext struct {
	// Immutable inputs.
	Action    ActionRef
	Depth     int
	ParentKey string // empty for roots
	Index     int    // position within its BFS frontier

	// Mutable outputs.
	Children     []ActionRef
	ResolvedRef  string // empty until RefResolveStage succeeds
	Advisories   []Advisory
	Scan         *ScanResult
	Dependencies []DependencyReport
	Errors       []AuditError
}

// NewAuditContext builds the working state for a node the walker is
// about to admit into a pipeline run.
func NewAuditContext(action ActionRef, depth int, parentKey string, index int) *AuditContext {
	return &AuditContext{
		Action:    action,
		Depth:     depth,
		ParentKey: parentKey,
		Index:     index,
	}
}

// RecordError appends a recoverable failure attributed to stage.
func (c *AuditContext) RecordError(stage, message string) {
	c.Errors = append(c.Errors, AuditError{Stage: stage, Message: message})
}

// ActionEntry is the read-only projection of an ActionRef plus its
// resolved ref type used when flattening an AuditNode for output.
type ActionEntry struct {
	Raw    string `json:"raw"`
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Path   string `json:"path,omitempty"`
	GitRef string `json:"git_ref"`
	Type   string `json:"ref_type"`
}

func newActionEntry(action ActionRef) ActionEntry {
	return ActionEntry{
		Raw:    action.Raw,
		Owner:  action.Owner,
		Repo:   action.Repo,
		Path:   action.Path,
		GitRef: action.GitRef,
		Type:   action.Type.String(),
	}
}

// AuditNode is the output tree: an AuditContext projected into a
// serializable entry, plus its ordered children.
type AuditNode struct {
	ActionEntry
	ResolvedRef  string             `json:"resolved_sha,omitempty"`
	Advisories   []Advisory         `json:"advisories"`
	Scan         *ScanResult        `json:"scan,omitempty"`
	Dependencies []DependencyReport `json:"dep_vulnerabilities,omitempty"`
	Errors       []AuditError       `json:"-"`
	Children     []*AuditNode       `json:"children,omitempty"`
}

// NewAuditNode projects a finished AuditContext into an output node.
// Children are attached separately by the walker once they too have
// been turned into nodes.
func NewAuditNode(ctx *AuditContext) *AuditNode {
	advisories := ctx.Advisories
	if advisories == nil {
		advisories = []Advisory{}
	}
	return &AuditNode{
		ActionEntry:  newActionEntry(ctx.Action),
		ResolvedRef:  ctx.ResolvedRef,
		Advisories:   advisories,
		Scan:         ctx.Scan,
		Dependencies: ctx.Dependencies,
		Errors:       ctx.Errors,
	}
}
