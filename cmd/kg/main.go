// Package main provides the kg CLI entry point.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/config"
	"github.com/scigraph/kg/internal/kb"
	"github.com/scigraph/kg/internal/logger"
	"github.com/scigraph/kg/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	kbFlag      string
	logModeFlag string
)

// appLog is created in the root PersistentPreRunE and writes to stderr.
var appLog = logger.Nop()

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so Cobra's own errors (bad flags) surface here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
	appLog.Sync()
}

var rootCmd = &cobra.Command{
	Use:   "kg",
	Short: "Grade 7 science knowledge graph",
	Long: `kg turns a grade 7 science knowledge base into an interactive graph.

Concepts are grouped into domains and strands, linked by their declared
interconnections, and annotated with the learning activities that practice
them. The JSON knowledge base is the source of truth; a SQLite cache backs
full-text search.

All commands output JSON by default. Use --human for readable text.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&kbFlag, "kb", "", "Path to the knowledge base JSON (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logModeFlag, "log-mode", "", "Log mode: dev, prod or quiet (overrides config)")
	rootCmd.Version = Version
}

// setup loads .env and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg := mustLoadConfig()
	mode := cfg.LogMode
	if logModeFlag != "" {
		if err := config.ValidateLogMode(logModeFlag); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		mode = logModeFlag
	}

	log, err := logger.New(mode)
	if err != nil {
		exitWithError(ExitConfigError, "creating logger: %v", err)
	}
	appLog = log
	return nil
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// knowledgeBasePath returns the --kb flag when set, else the configured path.
func knowledgeBasePath(cfg *config.Config) string {
	if kbFlag != "" {
		return config.ExpandPath(kbFlag)
	}
	return cfg.KnowledgeBase
}

// mustLoadKnowledgeBase loads and derives the knowledge base, exits on error.
// A missing file is a configuration problem; anything else is a data error.
func mustLoadKnowledgeBase(cfg *config.Config) *kb.KnowledgeBase {
	path := knowledgeBasePath(cfg)
	base, err := kb.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
			os.Exit(ExitConfigError)
		}
		exitWithError(ExitDataError, "loading knowledge base: %v", err)
	}
	appLog.Debug("knowledge base loaded", "path", path, "digest", base.Digest, "diagnostics", len(base.Diagnostics))
	return base
}

// mustOpenDatabase opens the SQLite cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(cfg *config.Config) *storage.DB {
	db, err := storage.OpenDB(cfg.DBPath())
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// refreshCache rebuilds the cache when it was built from different source
// bytes. It reports whether a rebuild happened.
func refreshCache(db *storage.DB, base *kb.KnowledgeBase) (bool, error) {
	stale, err := db.IsStale(base.Digest)
	if err != nil {
		return false, err
	}
	if !stale {
		return false, nil
	}
	stats, err := db.Rebuild(base)
	if err != nil {
		return false, err
	}
	appLog.Debug("cache rebuilt", "concepts", stats.Concepts, "linked", stats.Linked, "orphaned", stats.Orphaned)
	return true, nil
}

// mustOpenFreshDatabase opens the cache and brings it up to date with base.
func mustOpenFreshDatabase(cfg *config.Config, base *kb.KnowledgeBase) *storage.DB {
	db := mustOpenDatabase(cfg)
	if _, err := refreshCache(db, base); err != nil {
		db.Close()
		exitWithError(ExitError, "refreshing cache: %v", err)
	}
	return db
}
