package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scigraph/kg/internal/config"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Long: `Show the resolved configuration.

Values come from built-in defaults, then the global config file, then
environment variables (KG_*, REDIS_URL, NEO4J_*), then flags such as --kb.
Secrets are redacted.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the global config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	shown := cfg.Redacted()
	shown.KnowledgeBase = knowledgeBasePath(cfg)

	if humanOutput {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(shown)
	}
	return outputJSON(configView(shown))
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := config.GlobalConfigPath()
	_, err := os.Stat(path)
	status := "present"
	if err != nil {
		status = "missing"
	}

	if humanOutput {
		outputHuman("%s (%s)\n", path, status)
		return nil
	}
	return outputJSON(StatusResponse{Status: status, Path: path})
}

// ConfigView is the JSON shape of config show.
type ConfigView struct {
	KnowledgeBase string  `json:"knowledge_base"`
	CacheDir      string  `json:"cache_dir"`
	DBPath        string  `json:"db_path"`
	ListenAddr    string  `json:"listen_addr"`
	LogMode       string  `json:"log_mode"`
	RedisURL      string  `json:"redis_url,omitempty"`
	SessionTTL    string  `json:"session_ttl"`
	RateLimit     float64 `json:"rate_limit"`
	RateBurst     int     `json:"rate_burst"`
	Neo4jURI      string  `json:"neo4j_uri,omitempty"`
	Neo4jUser     string  `json:"neo4j_user,omitempty"`
	Neo4jPassword string  `json:"neo4j_password,omitempty"`
	Neo4jDatabase string  `json:"neo4j_database,omitempty"`
}

func configView(c config.Config) ConfigView {
	return ConfigView{
		KnowledgeBase: c.KnowledgeBase,
		CacheDir:      c.CacheDir,
		DBPath:        c.DBPath(),
		ListenAddr:    c.ListenAddr,
		LogMode:       c.LogMode,
		RedisURL:      c.RedisURL,
		SessionTTL:    c.SessionTTL,
		RateLimit:     c.RateLimit,
		RateBurst:     c.RateBurst,
		Neo4jURI:      c.Neo4j.URI,
		Neo4jUser:     c.Neo4j.User,
		Neo4jPassword: c.Neo4j.Password,
		Neo4jDatabase: c.Neo4j.Database,
	}
}
