package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "kg"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded config.
var globalConfigCache *Config

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/kg/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load resolves the configuration: defaults, then the global config file,
// then environment variables. A missing file is not an error.
func Load() (*Config, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg := Defaults()
	if err := cfg.mergeFile(GlobalConfigPath()); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.KnowledgeBase = ExpandPath(cfg.KnowledgeBase)
	cfg.CacheDir = ExpandPath(cfg.CacheDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfigCache = cfg
	return cfg, nil
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	globalConfigCache = nil
}

// mergeFile overlays the YAML file at path onto c. Fields absent from the
// file keep their current values.
func (c *Config) mergeFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading global config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing global config: %w", err)
	}
	return nil
}

// applyEnv overrides fields from KG_*, REDIS_URL and NEO4J_* variables.
func (c *Config) applyEnv() error {
	strs := []struct {
		env string
		dst *string
	}{
		{"KG_KNOWLEDGE_BASE", &c.KnowledgeBase},
		{"KG_CACHE_DIR", &c.CacheDir},
		{"KG_LISTEN_ADDR", &c.ListenAddr},
		{"KG_LOG_MODE", &c.LogMode},
		{"KG_SESSION_TTL", &c.SessionTTL},
		{"REDIS_URL", &c.RedisURL},
		{"NEO4J_URI", &c.Neo4j.URI},
		{"NEO4J_USER", &c.Neo4j.User},
		{"NEO4J_PASSWORD", &c.Neo4j.Password},
		{"NEO4J_DATABASE", &c.Neo4j.Database},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("KG_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: KG_RATE_LIMIT=%q", ErrInvalidRateLimit, v)
		}
		c.RateLimit = f
	}
	if v := os.Getenv("KG_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: KG_RATE_BURST=%q", ErrInvalidRateLimit, v)
		}
		c.RateBurst = n
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	out := *c
	if out.Neo4j.Password != "" {
		out.Neo4j.Password = "[REDACTED]"
	}
	if out.RedisURL != "" {
		out.RedisURL = "[REDACTED]"
	}
	return out
}

// HelpfulConfigMessage returns a hint for when the knowledge base cannot be found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No knowledge base found.

Tip: pass --kb, set KG_KNOWLEDGE_BASE, or create %s:
  mkdir -p %s
  echo 'knowledge_base: /path/to/%s' > %s`,
		configPath,
		filepath.Dir(configPath),
		DefaultKnowledgeBase,
		configPath)
}
