// SPDX-License-Identifier: MIT

// Package cmd implements the gh-actionaudit command-line driver: it
// wires the workflow parser, the forge/advisory clients, the stage
// pipeline, and the BFS walker into a single "audit" invocation.
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nmasur/gh-actionaudit/advisory"
	"github.com/nmasur/gh-actionaudit/githubclient"
	"github.com/nmasur/gh-actionaudit/model"
	"github.com/nmasur/gh-actionaudit/output"
	"github.com/nmasur/gh-actionaudit/pipeline"
	"github.com/nmasur/gh-actionaudit/stage"
	"github.com/nmasur/gh-actionaudit/utils"
	"github.com/nmasur/gh-actionaudit/walker"
	"github.com/nmasur/gh-actionaudit/workflow"
)

// Variables populated at build time via -ldflags.
var (
	Version string
	Date    string
	Commit  string
	BuiltBy string
)

const defaultMaxConcurrency = 8
const advisoryRequestTimeout = 30 * time.Second

// Flags.
var (
	filePath    string
	providerSel string
	jsonOutput  bool
	depthFlag   string
	selectFlag  string
	depsEnabled bool
	githubToken string
	verbose     bool
)

func init() {
	rootCmd.Version = utils.BuildVersion(Version, Commit, Date, BuiltBy)
	rootCmd.SetVersionTemplate(`{{printf "Version %s" .Version}}`)

	rootCmd.Flags().StringVar(&filePath, "file", "", "workflow YAML file to audit (required)")
	rootCmd.Flags().StringVar(&providerSel, "provider", "all", "advisory provider: ghsa, osv, or all")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON tree to stdout")
	rootCmd.Flags().StringVar(&depthFlag, "depth", "0", `traversal depth limit: an integer or "unlimited"`)
	rootCmd.Flags().StringVar(&selectFlag, "select", "", `filter roots by position: "all", "N", or "N-M" (comma-separated)`)
	rootCmd.Flags().BoolVar(&depsEnabled, "deps", false, "enable repository scan and npm dependency audit")
	rootCmd.Flags().StringVar(&githubToken, "github-token", "", "GitHub token (falls back to GITHUB_TOKEN)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

var rootCmd = &cobra.Command{
	Use:          "gh-actionaudit",
	Short:        "Audit third-party GitHub Actions for known vulnerabilities",
	SilenceUsage: true,
	RunE:         runAudit,
}

// Execute runs the root command and exits non-zero on failure. This is
// the entry point used by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Run executes the root command and returns a process exit code,
// matching the signature testscript.RunMain expects for a registered
// command.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func runAudit(_ *cobra.Command, _ []string) error {
	utils.CreateLogger(verbose)
	if jsonOutput {
		utils.Logger.SetFormatter(log.JSONFormatter)
	}

	if filePath == "" {
		return fmt.Errorf("--file is required")
	}
	if err := utils.ValidateWorkflowFilePath(filePath); err != nil {
		return err
	}

	depthLimit, err := model.ParseDepthLimit(depthFlag)
	if err != nil {
		return err
	}

	selectSpec, err := model.ParseSelectSpec(selectFlag)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filePath) //nolint:gosec
	if err != nil {
		return fmt.Errorf("reading workflow file %q: %w", filePath, err)
	}

	parsed, err := workflow.ParseWorkflow(data)
	if err != nil {
		return fmt.Errorf("parsing workflow file %q: %w", filePath, err)
	}
	for _, warning := range parsed.Warnings {
		utils.Logger.Warn(warning)
	}

	roots := buildRoots(parsed.Refs, selectSpec)

	token := githubToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	client, err := githubclient.NewClient(githubclient.Config{
		Token:     token,
		UserAgent: "gh-actionaudit",
	})
	if err != nil {
		return fmt.Errorf("initializing GitHub client: %w", err)
	}

	if verbose {
		client.CheckRateLimit(context.Background())
	}

	// Advisory providers deliberately get a plain HTTP client, never the
	// disk-cached one githubclient.Client builds its REST calls from:
	// persisting advisory responses to disk would amount to offline
	// advisory caching, which is out of scope.
	advisoryClient := &http.Client{Timeout: advisoryRequestTimeout}
	providers, err := advisory.NewProviders(providerSel, advisoryClient, token)
	if err != nil {
		return err
	}

	effectiveDeps := depsEnabled
	if depsEnabled && token == "" {
		utils.Logger.Warn("--deps requires a GitHub token; skipping scan and dependency audit")
		effectiveDeps = false
	}

	stages := []stage.Stage{
		stage.NewCompositeExpandStage(client),
		stage.NewWorkflowExpandStage(client),
		stage.NewRefResolveStage(client),
		stage.NewAdvisoryStage(providers.Action),
	}
	if effectiveDeps {
		stages = append(stages,
			stage.NewScanStage(client),
			stage.NewDependencyStage(client, providers.Package),
		)
	}

	p := pipeline.New(stages, defaultMaxConcurrency)
	w := walker.New(p, depthLimit)

	trees := w.Walk(context.Background(), roots)

	if jsonOutput {
		return output.WriteJSON(os.Stdout, trees)
	}
	output.WriteText(os.Stdout, trees)
	return nil
}

// buildRoots collects the third-party refs from a parsed workflow,
// deduplicating by raw string and sorting (scenario 1, spec §8), then
// applies the 1-indexed --select filter.
func buildRoots(refs []model.UsesRef, selectSpec model.SelectSpec) []model.ActionRef {
	seen := make(map[string]bool, len(refs))
	unique := make([]model.ActionRef, 0, len(refs))

	for _, ref := range refs {
		if ref.Kind != model.UsesThirdParty {
			continue
		}
		if seen[ref.Action.Raw] {
			continue
		}
		seen[ref.Action.Raw] = true
		unique = append(unique, ref.Action)
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].Raw < unique[j].Raw })

	selected := make([]model.ActionRef, 0, len(unique))
	for i, action := range unique {
		if selectSpec.Admits(i + 1) {
			selected = append(selected, action)
		}
	}
	return selected
}
