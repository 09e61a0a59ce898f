package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/concept"
	"github.com/scigraph/kg/internal/detail"
)

var (
	conceptListDomain string
	conceptListStrand string
	conceptListLimit  int
	conceptSearchLim  int
)

func init() {
	conceptListCmd.Flags().StringVar(&conceptListDomain, "domain", "", "Only concepts in this domain")
	conceptListCmd.Flags().StringVar(&conceptListStrand, "strand", "", "Only concepts in this strand")
	conceptListCmd.Flags().IntVarP(&conceptListLimit, "limit", "n", 0, "Maximum results (0 for all)")
	conceptSearchCmd.Flags().IntVarP(&conceptSearchLim, "limit", "n", DefaultSearchLimit, "Maximum results")

	conceptCmd.AddCommand(conceptGetCmd)
	conceptCmd.AddCommand(conceptListCmd)
	conceptCmd.AddCommand(conceptSearchCmd)
	rootCmd.AddCommand(conceptCmd)
}

var conceptCmd = &cobra.Command{
	Use:   "concept",
	Short: "Inspect concepts",
}

var conceptGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show the detail panel for one concept",
	Args:  cobra.ExactArgs(1),
	RunE:  runConceptGet,
}

var conceptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List concepts in knowledge-base order",
	Args:  cobra.NoArgs,
	RunE:  runConceptList,
}

var conceptSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over concept names, groups and explanations",
	Long: `Full-text search over concept names, domains, strands and explanations.

Every word must match; words match as prefixes, so "photo" finds
Photosynthesis. The SQLite cache is rebuilt first if the knowledge base
has changed since the last build.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConceptSearch,
}

// ConceptListResult is the response for concept list and concept search.
type ConceptListResult struct {
	Count    int               `json:"count"`
	Concepts []concept.Concept `json:"concepts"`
}

func runConceptGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)

	d := detail.ForConcept(base, args[0], false)
	if d == nil {
		exitWithError(ExitDataError, "concept not found: %s", args[0])
	}

	if humanOutput {
		d.WriteHuman(os.Stdout)
		return nil
	}
	return outputJSON(d)
}

func runConceptList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)
	db := mustOpenFreshDatabase(cfg, base)
	defer db.Close()

	concepts, err := db.ListConcepts(conceptListDomain, conceptListStrand, conceptListLimit)
	if err != nil {
		exitWithError(ExitError, "listing concepts: %v", err)
	}
	return outputConcepts(concepts)
}

func runConceptSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)
	db := mustOpenFreshDatabase(cfg, base)
	defer db.Close()

	query := strings.Join(args, " ")
	concepts, err := db.SearchConcepts(query, conceptSearchLim)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}
	return outputConcepts(concepts)
}

func outputConcepts(concepts []concept.Concept) error {
	if concepts == nil {
		concepts = []concept.Concept{}
	}
	if !humanOutput {
		return outputJSON(ConceptListResult{Count: len(concepts), Concepts: concepts})
	}

	if len(concepts) == 0 {
		outputHuman("No concepts found.\n")
		return nil
	}
	for _, c := range concepts {
		outputHuman("%-*s  %s / %s\n", ListNameMaxLen, truncateString(c.Name, ListNameMaxLen), c.Domain, c.Strand)
		if c.BriefExplanation != "" {
			outputHuman("  %s\n", truncateString(c.BriefExplanation, ListExplanationMaxLen))
		}
	}
	return nil
}
