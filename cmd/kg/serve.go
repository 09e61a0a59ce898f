package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scigraph/kg/internal/config"
	"github.com/scigraph/kg/internal/kb"
	"github.com/scigraph/kg/internal/server"
	"github.com/scigraph/kg/internal/session"
	"github.com/scigraph/kg/internal/storage"
	"github.com/scigraph/kg/internal/viz"
)

var (
	serveAddr    string
	serveLayout  string
	serveNoCache bool
	serveOrigins []string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, "+config.DefaultListenAddr+")")
	serveCmd.Flags().StringVar(&serveLayout, "layout", "force", "Layout algorithm: force, circle, grid or concentric")
	serveCmd.Flags().BoolVar(&serveNoCache, "no-cache", false, "Run without the SQLite cache (disables /api/search)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "Allowed CORS origin (repeatable)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive graph with per-session state",
	Long: `Serve the interactive graph page and JSON API.

Each browser tab gets its own session holding the selected concept and
the learned flags. Sessions live in memory, or in Redis when redis_url
(REDIS_URL) is set so several server processes can share them.

Data-quality issues found on load are logged as warnings and served at
/api/diagnostics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	base := mustLoadKnowledgeBase(cfg)
	logDiagnostics(base)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		exitWithError(ExitConfigError, "connecting session store: %v", err)
	}
	defer store.Close()

	var cache *storage.DB
	if !serveNoCache {
		cache = openServeCache(cfg, base)
		if cache != nil {
			defer cache.Close()
		}
	}

	srv, err := server.New(server.Options{
		KB:           base,
		Sessions:     store,
		Cache:        cache,
		Log:          appLog,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
		AllowOrigins: serveOrigins,
		Page:         viz.HTMLOptions{Layout: serveLayout},
	})
	if err != nil {
		exitWithError(ExitError, "building server: %v", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}
	if err := srv.Run(ctx, addr); err != nil {
		exitWithError(ExitError, "serving: %v", err)
	}
	return nil
}

// newSessionStore picks Redis when a URL is configured, memory otherwise.
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.RedisURL == "" {
		appLog.Info("sessions in memory", "ttl", cfg.TTL().String())
		return session.NewMemoryStore(cfg.TTL()), nil
	}
	store, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL())
	if err != nil {
		return nil, err
	}
	appLog.Info("sessions in redis", "ttl", cfg.TTL().String())
	return store, nil
}

// openServeCache opens and refreshes the search cache. Search is optional,
// so failures are logged and the server runs without it.
func openServeCache(cfg *config.Config, base *kb.KnowledgeBase) *storage.DB {
	db, err := storage.OpenDB(cfg.DBPath())
	if err != nil {
		appLog.Warn("search cache unavailable", "path", cfg.DBPath(), "error", err)
		return nil
	}
	rebuilt, err := refreshCache(db, base)
	if err != nil {
		db.Close()
		appLog.Warn("search cache unavailable", "path", cfg.DBPath(), "error", err)
		return nil
	}
	appLog.Info("search cache ready", "path", cfg.DBPath(), "rebuilt", rebuilt)
	return db
}

func logDiagnostics(base *kb.KnowledgeBase) {
	for _, d := range base.Diagnostics {
		appLog.Warn(d.Message, "kind", d.Kind)
	}
	s := base.Stats()
	appLog.Info("knowledge base ready",
		"source", base.Source,
		"concepts", s.Concepts,
		"nodes", s.Nodes,
		"edges", s.Edges,
		"diagnostics", s.Diagnostics,
	)
}
