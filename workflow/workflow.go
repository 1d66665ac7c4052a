// SPDX-License-Identifier: MIT

// Package workflow parses GitHub Actions workflow and composite-action
// YAML into the uses-ref data the walker consumes. Job mappings are
// walked through the yaml.Node tree rather than decoded straight into
// a Go map, because map iteration order is randomized and the BFS
// walker's ordering guarantees depend on discovery order being
// preserved exactly as written in the file.
package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nmasur/gh-actionaudit/model"
)

// Step is the subset of a workflow/composite-action step this audit
// cares about; unknown fields are ignored per the spec's YAML
// contract.
type Step struct {
	Uses string `yaml:"uses"`
}

// Job is the subset of a workflow job this audit cares about.
type Job struct {
	Uses  string `yaml:"uses"`
	Steps []Step `yaml:"steps"`
}

// Runs is the composite-action "runs:" block.
type Runs struct {
	Using string `yaml:"using"`
	Steps []Step `yaml:"steps"`
}

// CompositeAction is the subset of action.yml this audit cares about.
type CompositeAction struct {
	Runs Runs `yaml:"runs"`
}

// ParseResult carries the classified uses refs found in a workflow
// plus warnings for sub-regions that failed to parse but did not abort
// the overall parse.
type ParseResult struct {
	Refs     []model.UsesRef
	Warnings []string
}

// ParseWorkflow extracts every job-level and step-level "uses:" string
// from a workflow YAML document, preserving file order and duplicates.
// Root YAML that is syntactically invalid fails the entire call; a job
// whose value fails per-job deserialization is skipped with a warning
// naming the job, and the overall parse still succeeds.
func ParseWorkflow(data []byte) (ParseResult, error) {
	var result ParseResult

	if len(data) == 0 {
		return result, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return result, fmt.Errorf("parsing workflow YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return result, nil
	}

	jobsNode := findMappingValue(root.Content[0], "jobs")
	if jobsNode == nil || jobsNode.Kind != yaml.MappingNode {
		return result, nil
	}

	for i := 0; i+1 < len(jobsNode.Content); i += 2 {
		jobName := jobsNode.Content[i].Value
		jobNode := jobsNode.Content[i+1]

		var job Job
		if err := jobNode.Decode(&job); err != nil {
			result.Warnings = append(
				result.Warnings,
				fmt.Sprintf("skipping job %q: %v", jobName, err),
			)
			continue
		}

		if job.Uses != "" {
			result.appendUses(job.Uses)
		}
		for _, step := range job.Steps {
			if step.Uses != "" {
				result.appendUses(step.Uses)
			}
		}
	}

	return result, nil
}

func (r *ParseResult) appendUses(raw string) {
	ref, err := model.ClassifyUses(raw)
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("skipping uses %q: %v", raw, err))
		return
	}
	r.Refs = append(r.Refs, ref)
}

// findMappingValue returns the value node for key within a mapping
// node, or nil if absent or node isn't a mapping.
func findMappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// CompositeParseResult is the outcome of parsing a candidate
// action.yml: IsComposite is false when the root lacks runs: or
// runs.using isn't "composite".
type CompositeParseResult struct {
	IsComposite bool
	Children    []model.ActionRef
	Warnings    []string
}

// ParseCompositeAction parses action.yml/action.yaml content, looking
// for a composite action's third-party step references. Local and
// Docker uses are silently filtered; unparseable step refs are warned
// and skipped.
func ParseCompositeAction(data []byte) (CompositeParseResult, error) {
	var result CompositeParseResult

	if len(data) == 0 {
		return result, nil
	}

	var action CompositeAction
	if err := yaml.Unmarshal(data, &action); err != nil {
		return result, fmt.Errorf("parsing composite action YAML: %w", err)
	}

	if action.Runs.Using != "composite" {
		return result, nil
	}
	result.IsComposite = true
	result.Children = []model.ActionRef{}

	for _, step := range action.Runs.Steps {
		if step.Uses == "" {
			continue
		}
		ref, err := model.ClassifyUses(step.Uses)
		if err != nil {
			result.Warnings = append(
				result.Warnings,
				fmt.Sprintf("skipping step uses %q: %v", step.Uses, err),
			)
			continue
		}
		if ref.Kind == model.UsesThirdParty {
			result.Children = append(result.Children, ref.Action)
		}
	}

	return result, nil
}
