package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/viz"
)

var graphFormat string

func init() {
	graphCmd.Flags().StringVar(&graphFormat, "format", "json", "Output format: json or cytoscape")
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the assembled graph",
	Long: `Print the assembled three-tier graph: domain and strand anchors, concept
nodes, containment edges and interconnection edges.

Formats:
  json       nodes and edges as assembled (default)
  cytoscape  Cytoscape.js elements, as embedded in the viz page`,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)

	switch graphFormat {
	case "json":
		if humanOutput {
			printGraphHuman(base.Graph)
			return nil
		}
		return outputJSON(base.Graph)
	case "cytoscape":
		return outputJSON(base.Graph.ToCytoscape())
	default:
		exitWithError(ExitError, "invalid format %q (use json or cytoscape)", graphFormat)
	}
	return nil
}

func printGraphHuman(g *viz.GraphData) {
	kinds := g.CountByKind()
	edgeKinds := map[string]int{}
	for _, e := range g.Edges {
		edgeKinds[e.Kind]++
	}

	outputHuman("Nodes: %d (%d domains, %d strands, %d concepts)\n", len(g.Nodes),
		kinds[viz.NodeKindDomain], kinds[viz.NodeKindStrand], kinds[viz.NodeKindConcept])
	outputHuman("Edges: %d (%d domain-strand, %d strand-concept, %d interconnections)\n", len(g.Edges),
		edgeKinds[viz.EdgeKindContainsStrand], edgeKinds[viz.EdgeKindContainsConcept], edgeKinds[viz.EdgeKindInterconnection])
	if len(g.Dropped) > 0 {
		outputHuman("Dropped interconnections: %d\n", len(g.Dropped))
	}
	fmt.Println()
	for _, e := range g.Edges {
		if e.Kind == viz.EdgeKindInterconnection {
			outputHuman("  %s <-> %s\n", e.Source, e.Target)
		}
	}
}
