package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/viz"
)

var (
	vizOutput string
	vizLayout string
	vizTitle  string
)

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "force", "Layout algorithm: force, circle, grid or concentric")
	vizCmd.Flags().StringVar(&vizTitle, "title", viz.DefaultTitle, "Page heading")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate a standalone graph page",
	Long: `Generate a self-contained interactive HTML page of the knowledge graph.

Domains are large boxes (size 45), strands medium circles (size 30) and
concepts small dots (size 18). Every tier is colored by its domain, and
sizes are fixed per tier. Clicking a concept shows its explanation,
chapters and activities. Learned flags need the server; see 'kg serve'.

Examples:
  # Generate HTML to stdout
  kg viz > graph.html

  # Generate to file with a circular layout
  kg viz --layout circle --output graph.html`,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)

	opts := viz.HTMLOptions{
		Layout: vizLayout,
		Title:  vizTitle,
	}
	html, err := viz.GenerateHTML(base.Graph, opts)
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}

	if err := os.WriteFile(vizOutput, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Visualization written to %s\n", vizOutput)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: vizOutput})
	}
	return nil
}
