package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/config"
	"github.com/scigraph/kg/internal/neo4jsync"
)

var exportPrune bool

func init() {
	exportNeo4jCmd.Flags().BoolVar(&exportPrune, "prune", false, "Delete kg nodes that are no longer in the knowledge base")

	exportCmd.AddCommand(exportNeo4jCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph to external systems",
}

var exportNeo4jCmd = &cobra.Command{
	Use:   "neo4j",
	Short: "Mirror the graph into Neo4j",
	Long: `Mirror domains, strands, concepts and linked activities into Neo4j as
:Domain, :Strand, :Concept and :Activity nodes joined by HAS_STRAND,
HAS_CONCEPT, RELATED_TO and PRACTICES relationships.

Writes are idempotent MERGEs. Connection settings come from the neo4j
block of the config file or NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD and
NEO4J_DATABASE.`,
	Args: cobra.NoArgs,
	RunE: runExportNeo4j,
}

func runExportNeo4j(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := neo4jsync.New(ctx, cfg.Neo4j, appLog)
	if err != nil {
		if errors.Is(err, neo4jsync.ErrNotConfigured) {
			fmt.Fprintln(os.Stderr, "Tip: set NEO4J_URI, or add a neo4j block to "+config.GlobalConfigPath())
		}
		exitWithError(ExitConfigError, "connecting to neo4j: %v", err)
	}
	defer client.Close(context.Background())

	stats, err := neo4jsync.Sync(ctx, client, base, neo4jsync.Options{Prune: exportPrune})
	if err != nil {
		exitWithError(ExitError, "syncing to neo4j: %v", err)
	}

	if humanOutput {
		outputHuman("Synced to Neo4j\n")
		outputHuman("  %d domains, %d strands, %d concepts, %d activities\n",
			stats.Domains, stats.Strands, stats.Concepts, stats.Activities)
		outputHuman("  %d relationships", stats.Relations)
		if exportPrune {
			outputHuman(", %d stale nodes pruned", stats.Pruned)
		}
		outputHuman("\n")
		return nil
	}
	return outputJSON(stats)
}
