package main

import (
	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/activity"
	"github.com/scigraph/kg/internal/storage"
)

var activityListConcept string

func init() {
	activityListCmd.Flags().StringVarP(&activityListConcept, "concept", "c", "", "Only activities for this concept")

	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityOrphansCmd)
	rootCmd.AddCommand(activityCmd)
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Inspect learning activities",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities linked to concepts",
	Long: `List activities whose parent concept resolves, grouped by concept in
knowledge-base order. Reads the SQLite cache, rebuilding it first if the
knowledge base has changed.`,
	Args: cobra.NoArgs,
	RunE: runActivityList,
}

var activityOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List activities whose parent concept does not resolve",
	Long: `List orphaned activities. Identical records are folded into one entry
with an occurrence count.`,
	Args: cobra.NoArgs,
	RunE: runActivityOrphans,
}

// ActivityListResult is the response for activity list.
type ActivityListResult struct {
	Count      int                 `json:"count"`
	Activities []activity.Activity `json:"activities"`
}

// OrphanListResult is the response for activity orphans.
type OrphanListResult struct {
	Count   int               `json:"count"`
	Orphans []activity.Orphan `json:"orphans"`
}

func runActivityList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)
	db := mustOpenFreshDatabase(cfg, base)
	defer db.Close()

	if activityListConcept != "" {
		c, err := db.GetConcept(activityListConcept)
		if err != nil {
			exitWithError(ExitError, "reading cache: %v", err)
		}
		if c == nil {
			exitWithError(ExitDataError, "concept not found: %s", activityListConcept)
		}
	}
	activities, err := linkedActivities(db, activityListConcept)
	if err != nil {
		exitWithError(ExitError, "reading cache: %v", err)
	}

	if !humanOutput {
		return outputJSON(ActivityListResult{Count: len(activities), Activities: activities})
	}
	if len(activities) == 0 {
		outputHuman("No activities found.\n")
		return nil
	}
	current := ""
	for _, a := range activities {
		if a.ParentConcept != current {
			current = a.ParentConcept
			outputHuman("%s\n", current)
		}
		outputHuman("  - %s\n", a.Name)
	}
	return nil
}

func runActivityOrphans(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)
	db := mustOpenFreshDatabase(cfg, base)
	defer db.Close()

	orphans, err := db.Orphans()
	if err != nil {
		exitWithError(ExitError, "reading cache: %v", err)
	}
	if orphans == nil {
		orphans = []activity.Orphan{}
	}

	if !humanOutput {
		return outputJSON(OrphanListResult{Count: len(orphans), Orphans: orphans})
	}
	if len(orphans) == 0 {
		outputHuman("No orphaned activities.\n")
		return nil
	}
	for _, o := range orphans {
		outputHuman("%s -> %s (%s", o.ActivityName, orDash(o.ParentConcept), o.Reason)
		if o.Occurrences > 1 {
			outputHuman(", x%d", o.Occurrences)
		}
		outputHuman(")\n")
	}
	return nil
}

// linkedActivities returns the cached activities of one concept, or of
// every concept in knowledge-base order when name is empty.
func linkedActivities(db *storage.DB, name string) ([]activity.Activity, error) {
	out := []activity.Activity{}
	if name != "" {
		found, err := db.ActivitiesFor(name)
		return append(out, found...), err
	}
	concepts, err := db.ListConcepts("", "", 0)
	if err != nil {
		return nil, err
	}
	for _, c := range concepts {
		found, err := db.ActivitiesFor(c.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}
