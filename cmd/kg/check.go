package main

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/kb"
)

var checkStrict bool

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit with code 3 when any issue is found")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report data-quality issues in the knowledge base",
	Long: `Load the knowledge base and report every data-quality issue found:
malformed records, duplicate concept names, dangling or self
interconnections, and orphaned activities.

Issues never stop a load. With --strict the command exits with code 3
when any issue is present, which is useful in CI.`,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status      string          `json:"status"`
	Source      string          `json:"source"`
	Stats       kb.Stats        `json:"stats"`
	ByKind      map[string]int  `json:"by_kind"`
	Diagnostics []kb.Diagnostic `json:"diagnostics"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)

	result := buildCheckResult(base)

	if humanOutput {
		printCheckHuman(result)
	} else {
		outputJSON(result)
	}

	if code := checkExitCode(result, checkStrict); code != ExitSuccess {
		os.Exit(code)
	}
	return nil
}

func buildCheckResult(base *kb.KnowledgeBase) CheckResult {
	result := CheckResult{
		Status:      "ok",
		Source:      base.Source,
		Stats:       base.Stats(),
		ByKind:      make(map[string]int),
		Diagnostics: base.Diagnostics,
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []kb.Diagnostic{}
	}
	for _, d := range base.Diagnostics {
		result.ByKind[d.Kind]++
	}
	if len(base.Diagnostics) > 0 {
		result.Status = "issues_found"
	}
	return result
}

func checkExitCode(result CheckResult, strict bool) int {
	if strict && len(result.Diagnostics) > 0 {
		return ExitDataError
	}
	return ExitSuccess
}

func printCheckHuman(result CheckResult) {
	s := result.Stats
	outputHuman("Checked %s\n", orDash(result.Source))
	outputHuman("  %d concepts in %d domains, %d strands\n", s.Concepts, s.Domains, s.Strands)
	outputHuman("  %d nodes, %d edges (%d pairs declared from both sides)\n", s.Nodes, s.Edges, s.MirroredPairs)
	outputHuman("  %d linked activities, %d orphaned\n", s.LinkedActivities, s.Orphans)

	if len(result.Diagnostics) == 0 {
		outputHuman("\nNo issues found.\n")
		return
	}

	kinds := make([]string, 0, len(result.ByKind))
	for k := range result.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	outputHuman("\nFound %d issues:\n", len(result.Diagnostics))
	for _, k := range kinds {
		outputHuman("  %-26s %d\n", k, result.ByKind[k])
	}
	outputHuman("\n")
	for _, d := range result.Diagnostics {
		outputHuman("  [%s] %s\n", d.Kind, d.Message)
	}
}
