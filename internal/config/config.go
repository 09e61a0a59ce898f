// Package config handles kg configuration: defaults, the global YAML file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the resolved configuration used by every command.
type Config struct {
	KnowledgeBase string      `yaml:"knowledge_base,omitempty"` // Path to the JSON knowledge base
	CacheDir      string      `yaml:"cache_dir,omitempty"`      // Directory for the SQLite query cache
	ListenAddr    string      `yaml:"listen_addr,omitempty"`
	LogMode       string      `yaml:"log_mode,omitempty"`    // dev, prod or quiet
	RedisURL      string      `yaml:"redis_url,omitempty"`   // Empty keeps sessions in memory
	SessionTTL    string      `yaml:"session_ttl,omitempty"` // Go duration, e.g. "12h"
	RateLimit     float64     `yaml:"rate_limit,omitempty"`  // Requests per second per server
	RateBurst     int         `yaml:"rate_burst,omitempty"`
	Neo4j         Neo4jConfig `yaml:"neo4j,omitempty"`
}

// Neo4jConfig holds graph database connection settings for kg export neo4j.
type Neo4jConfig struct {
	URI      string `yaml:"uri,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

const (
	DefaultKnowledgeBase = "grade7_knowledge_base.json"
	DefaultListenAddr    = "127.0.0.1:8501"
	DefaultLogMode       = "dev"
	DefaultSessionTTL    = "12h"
	DefaultRateLimit     = 20
	DefaultRateBurst     = 40
	DBFile               = "kg.db"
)

// ValidLogModes lists the accepted log_mode values.
var ValidLogModes = []string{"dev", "prod", "quiet"}

var (
	ErrInvalidLogMode    = errors.New("invalid log_mode")
	ErrInvalidSessionTTL = errors.New("invalid session_ttl")
	ErrInvalidRateLimit  = errors.New("invalid rate limit")
)

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		KnowledgeBase: DefaultKnowledgeBase,
		CacheDir:      DefaultCacheDir(),
		ListenAddr:    DefaultListenAddr,
		LogMode:       DefaultLogMode,
		SessionTTL:    DefaultSessionTTL,
		RateLimit:     DefaultRateLimit,
		RateBurst:     DefaultRateBurst,
	}
}

// DefaultCacheDir returns $XDG_CACHE_HOME/kg, falling back to ~/.cache/kg.
func DefaultCacheDir() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), GlobalConfigDir)
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, GlobalConfigDir)
}

// DBPath returns the path of the SQLite cache.
func (c *Config) DBPath() string {
	return filepath.Join(c.CacheDir, DBFile)
}

// TTL returns the parsed session lifetime.
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultSessionTTL)
	}
	return d
}

// Validate checks the values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if err := ValidateLogMode(c.LogMode); err != nil {
		return err
	}
	if c.SessionTTL != "" {
		d, err := time.ParseDuration(c.SessionTTL)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidSessionTTL, c.SessionTTL)
		}
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("%w: rate_limit=%v rate_burst=%d", ErrInvalidRateLimit, c.RateLimit, c.RateBurst)
	}
	return nil
}

// ValidateLogMode checks that mode is one of ValidLogModes.
func ValidateLogMode(mode string) error {
	if mode == "" {
		return nil
	}
	for _, valid := range ValidLogModes {
		if mode == valid {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (valid: %v)", ErrInvalidLogMode, mode, ValidLogModes)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
