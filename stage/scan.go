// SPDX-License-Identifier: MIT

package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/nmasur/gh-actionaudit/model"
)

// manifestFilenames maps each fixed GraphQL alias to the path probed at
// HEAD, in the same declaration order as model.ManifestAliases (spec
// §6).
var manifestFilenames = map[string]string{
	"packageJson":     "package.json",
	"cargoToml":       "Cargo.toml",
	"goMod":           "go.mod",
	"requirementsTxt": "requirements.txt",
	"pyprojectToml":   "pyproject.toml",
	"pomXml":          "pom.xml",
	"buildGradle":     "build.gradle",
	"gemfile":         "Gemfile",
	"composerJson":    "composer.json",
	"dockerfile":      "Dockerfile",
}

const languageHistogramSize = 10

// ScanStage issues one GraphQL query against the action's repository,
// probing ten fixed manifest aliases plus the language histogram, and
// derives a ScanResult from the response (spec §4.5.5).
type ScanStage struct {
	Client GraphQLClient
}

func NewScanStage(client GraphQLClient) *ScanStage {
	return &ScanStage{Client: client}
}

func (s *ScanStage) Name() string { return "scan" }

func (s *ScanStage) Run(ctx context.Context, auditCtx *model.AuditContext) error {
	query := buildScanQuery(auditCtx.Action.Owner, auditCtx.Action.Repo)

	data, err := s.Client.GraphQL(ctx, query)
	if err != nil {
		auditCtx.RecordError(s.Name(), err.Error())
		return nil
	}

	result, err := parseScanResponse(data)
	if err != nil {
		auditCtx.RecordError(s.Name(), err.Error())
		return nil
	}
	auditCtx.Scan = result
	return nil
}

func buildScanQuery(owner, repo string) string {
	var probes strings.Builder
	for _, alias := range model.ManifestAliases {
		filename := manifestFilenames[alias.Alias]
		fmt.Fprintf(&probes, "%s: object(expression: %q) { ... on Blob { byteSize } }\n", alias.Alias, "HEAD:"+filename)
	}

	return fmt.Sprintf(`query {
  repository(owner: %q, name: %q) {
    languages(first: %d, orderBy: {field: SIZE, direction: DESC}) {
      edges { size node { name } }
    }
    %s
  }
}`, owner, repo, languageHistogramSize, probes.String())
}

// parseScanResponse derives a ScanResult from the GraphQL data map.
// primary_language is the name of the language edge with the largest
// size; ecosystems is built by scanning ManifestAliases in declaration
// order and appending each alias's mapped ecosystem the first time its
// probe object is non-null.
func parseScanResponse(data map[string]any) (*model.ScanResult, error) {
	repo, ok := data["repository"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("scan response missing repository object")
	}

	result := &model.ScanResult{Ecosystems: []model.Ecosystem{}}

	if lang := primaryLanguage(repo); lang != "" {
		result.PrimaryLanguage = lang
	}

	seen := make(map[model.Ecosystem]bool, len(model.ManifestAliases))
	for _, alias := range model.ManifestAliases {
		if repo[alias.Alias] == nil {
			continue
		}
		if seen[alias.Ecosystem] {
			continue
		}
		seen[alias.Ecosystem] = true
		result.Ecosystems = append(result.Ecosystems, alias.Ecosystem)
	}

	return result, nil
}

func primaryLanguage(repo map[string]any) string {
	languages, ok := repo["languages"].(map[string]any)
	if !ok {
		return ""
	}
	edges, ok := languages["edges"].([]any)
	if !ok || len(edges) == 0 {
		return ""
	}

	var bestName string
	var bestSize float64
	for i, raw := range edges {
		edge, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		size, _ := edge["size"].(float64)
		node, _ := edge["node"].(map[string]any)
		name, _ := node["name"].(string)
		if i == 0 || size > bestSize {
			bestSize = size
			bestName = name
		}
	}
	return bestName
}
