package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points every config and cache location at a temp directory and
// clears the override variables.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, env := range []string{
		"KG_KNOWLEDGE_BASE", "KG_CACHE_DIR", "KG_LISTEN_ADDR", "KG_LOG_MODE", "KG_SESSION_TTL",
		"KG_RATE_LIMIT", "KG_RATE_BURST", "REDIS_URL",
		"NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	} {
		t.Setenv(env, "")
	}
	ResetCache()
	t.Cleanup(ResetCache)
	return dir
}

func writeGlobal(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, GlobalConfigDir, GlobalConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.KnowledgeBase != DefaultKnowledgeBase {
		t.Errorf("KnowledgeBase = %q, want %q", cfg.KnowledgeBase, DefaultKnowledgeBase)
	}
	if want := filepath.Join(dir, "cache", "kg"); cfg.CacheDir != want {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, want)
	}
	if cfg.DBPath() != filepath.Join(cfg.CacheDir, DBFile) {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
	if cfg.TTL() != 12*time.Hour {
		t.Errorf("TTL() = %v, want 12h", cfg.TTL())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	writeGlobal(t, dir, `
knowledge_base: /data/kb.json
listen_addr: ":9000"
rate_limit: 5
neo4j:
  uri: bolt://file:7687
  user: neo4j
`)
	t.Setenv("NEO4J_URI", "bolt://env:7687")
	t.Setenv("KG_RATE_BURST", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.KnowledgeBase != "/data/kb.json" {
		t.Errorf("KnowledgeBase = %q, want file value", cfg.KnowledgeBase)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.ListenAddr)
	}
	if cfg.LogMode != DefaultLogMode {
		t.Errorf("LogMode = %q, want default kept", cfg.LogMode)
	}
	if cfg.Neo4j.URI != "bolt://env:7687" {
		t.Errorf("Neo4j.URI = %q, want env override", cfg.Neo4j.URI)
	}
	if cfg.Neo4j.User != "neo4j" {
		t.Errorf("Neo4j.User = %q, want neo4j", cfg.Neo4j.User)
	}
	if cfg.RateLimit != 5 || cfg.RateBurst != 7 {
		t.Errorf("rate = %v/%d, want 5/7", cfg.RateLimit, cfg.RateBurst)
	}
}

func TestLoad_Cached(t *testing.T) {
	isolate(t)

	first, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("KG_LISTEN_ADDR", ":1")
	second, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Load() should return the cached config")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr error
	}{
		{name: "bad log mode", env: map[string]string{"KG_LOG_MODE": "loud"}, wantErr: ErrInvalidLogMode},
		{name: "bad ttl", file: "session_ttl: soon\n", wantErr: ErrInvalidSessionTTL},
		{name: "bad rate env", env: map[string]string{"KG_RATE_LIMIT": "fast"}, wantErr: ErrInvalidRateLimit},
		{name: "negative burst", file: "rate_burst: -1\n", wantErr: ErrInvalidRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				writeGlobal(t, dir, tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	writeGlobal(t, dir, "knowledge_base: [unterminated\n")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/kb.json", "/abs/kb.json"},
		{"~/kb.json", filepath.Join(home, "kb.json")},
		{"~user/kb.json", "~user/kb.json"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedacted(t *testing.T) {
	cfg := Defaults()
	cfg.RedisURL = "redis://:pw@localhost:6379/0"
	cfg.Neo4j.Password = "secret"

	r := cfg.Redacted()
	if r.RedisURL != "[REDACTED]" || r.Neo4j.Password != "[REDACTED]" {
		t.Errorf("Redacted() = %+v", r)
	}
	if cfg.Neo4j.Password != "secret" {
		t.Error("Redacted() modified the original")
	}
}
