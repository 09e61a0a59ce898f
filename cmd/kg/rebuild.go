package main

import (
	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/storage"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query cache from the knowledge base",
	Long: `Rebuild the SQLite query cache from the JSON knowledge base.

The cache is rebuilt automatically when the knowledge base changes; use
this after deleting the cache or if it becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status             string `json:"status"`
	Path               string `json:"path"`
	Digest             string `json:"digest"`
	Concepts           int    `json:"concepts"`
	LinkedActivities   int    `json:"linked_activities"`
	OrphanedActivities int    `json:"orphaned_activities"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)
	db := mustOpenDatabase(cfg)
	defer db.Close()

	if _, err := db.Rebuild(base); err != nil {
		exitWithError(ExitDataError, "rebuilding cache: %v", err)
	}
	counts, err := db.Counts()
	if err != nil {
		exitWithError(ExitError, "reading cache: %v", err)
	}
	appLog.Info("cache rebuilt", "path", cfg.DBPath(), "concepts", counts.Concepts)

	result := rebuildResult(cfg.DBPath(), counts)
	if humanOutput {
		outputHuman("Rebuilt %s\n", result.Path)
		outputHuman("  %d concepts, %d linked activities, %d orphaned\n",
			result.Concepts, result.LinkedActivities, result.OrphanedActivities)
		return nil
	}
	return outputJSON(result)
}

// rebuildResult reports what the cache holds after a rebuild, read back
// from the tables rather than from the insert counters.
func rebuildResult(path string, c storage.Counts) RebuildResult {
	return RebuildResult{
		Status:             "rebuilt",
		Path:               path,
		Digest:             c.Digest,
		Concepts:           c.Concepts,
		LinkedActivities:   c.Linked,
		OrphanedActivities: c.Orphaned,
	}
}
