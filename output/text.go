// SPDX-License-Identifier: MIT

// Package output renders the audit tree as plain text or JSON (spec
// §6).
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/nmasur/gh-actionaudit/model"
)

const indentWidth = 2

// WriteText renders the tree of AuditNode roots in the text format
// described in spec §6: one action per root, its enrichment block
// indented by two spaces, its children indented by two more.
func WriteText(w io.Writer, roots []*model.AuditNode) {
	for _, root := range roots {
		writeNode(w, root, 0)
	}
}

func writeNode(w io.Writer, node *model.AuditNode, depth int) {
	nodeIndent := strings.Repeat(" ", depth*indentWidth)
	enrichIndent := strings.Repeat(" ", depth*indentWidth+indentWidth)

	fmt.Fprintf(w, "%s%s\n", nodeIndent, node.Raw)

	if node.ResolvedRef != "" {
		fmt.Fprintf(w, "%ssha: %s\n", enrichIndent, node.ResolvedRef)
	}
	if node.Scan != nil && node.Scan.PrimaryLanguage != "" {
		fmt.Fprintf(w, "%slanguage: %s\n", enrichIndent, node.Scan.PrimaryLanguage)
	}
	if node.Scan != nil && len(node.Scan.Ecosystems) > 0 {
		names := make([]string, len(node.Scan.Ecosystems))
		for i, eco := range node.Scan.Ecosystems {
			names[i] = eco.String()
		}
		fmt.Fprintf(w, "%secosystems: %s\n", enrichIndent, strings.Join(names, ", "))
	}

	if len(node.Advisories) == 0 {
		fmt.Fprintf(w, "%sadvisories: none\n", enrichIndent)
	} else {
		fmt.Fprintf(w, "%sadvisories:\n", enrichIndent)
		for _, adv := range node.Advisories {
			writeAdvisory(w, adv, enrichIndent+strings.Repeat(" ", indentWidth))
		}
	}

	if len(node.Dependencies) > 0 {
		fmt.Fprintf(w, "%sdependency vulnerabilities:\n", enrichIndent)
		depIndent := enrichIndent + strings.Repeat(" ", indentWidth)
		for _, dep := range node.Dependencies {
			fmt.Fprintf(w, "%s%s@%s (%s):\n", depIndent, dep.Package, dep.Version, dep.Ecosystem.String())
			for _, adv := range dep.Advisories {
				writeAdvisory(w, adv, depIndent+strings.Repeat(" ", indentWidth))
			}
		}
	}

	for _, child := range node.Children {
		writeNode(w, child, depth+1)
	}
}

func writeAdvisory(w io.Writer, adv model.Advisory, indent string) {
	fmt.Fprintf(w, "%s%s (%s): %s\n", indent, adv.ID, adv.Severity, adv.Summary)
	fmt.Fprintf(w, "%s    %s\n", indent, adv.URL)
	if adv.AffectedRange != "" {
		fmt.Fprintf(w, "%s    affected: %s\n", indent, adv.AffectedRange)
	}
}
