package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Firestore: FirestoreConfig{ProjectID: "blog"},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingProject(t *testing.T) {
	cfg := validConfig()
	cfg.Firestore.ProjectID = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing project id")
	}
	if err.Error() != "firestore.project_id is required" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestValidate_OutlineLevels(t *testing.T) {
	for _, levels := range [][]int{{0}, {1, 7}} {
		cfg := validConfig()
		cfg.Outline.Levels = levels
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for levels %v", levels)
		}
	}
}

func TestValidate_SummarizerNeedsKey(t *testing.T) {
	cfg := validConfig()
	cfg.Summarizer.Model = "gpt-4o-mini"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for summarizer without api key")
	}

	cfg.Summarizer.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_SummarizerBudget(t *testing.T) {
	cfg := validConfig()
	cfg.Summarizer.Budget.Action = "block"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown budget action")
	}

	cfg.Summarizer.Budget.Action = "reject"
	cfg.Summarizer.Budget.DailyTokenLimit = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative limit")
	}

	cfg.Summarizer.Budget.DailyTokenLimit = 50000
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_SiteHostname(t *testing.T) {
	cfg := validConfig()
	cfg.Site.Hostname = "blog.example.com"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for hostname without scheme")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Firestore.Database != "(default)" {
		t.Errorf("expected Database='(default)', got %q", cfg.Firestore.Database)
	}
	if cfg.Firestore.Timeout() != 10*time.Second {
		t.Errorf("expected Timeout=10s, got %s", cfg.Firestore.Timeout())
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("expected TTLSec=60, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.AuthorCacheSize != 1000 {
		t.Errorf("expected AuthorCacheSize=1000, got %d", cfg.Cache.AuthorCacheSize)
	}
	if len(cfg.Outline.Levels) != 3 || cfg.Outline.UpdateEvent != "update:toc" || cfg.Outline.CSSClass != "toc" {
		t.Errorf("unexpected outline defaults: %+v", cfg.Outline)
	}
	if cfg.Summarizer.Budget.Action != "warn" {
		t.Errorf("expected budget action warn, got %q", cfg.Summarizer.Budget.Action)
	}
	if cfg.Cache.Enabled() || cfg.Summarizer.Enabled() {
		t.Error("cache and summarizer must be disabled by default")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Firestore: FirestoreConfig{Database: "blog-db", TimeoutSec: 3},
		Outline:   OutlineConfig{Levels: []int{2}, CSSClass: "contents"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Firestore.Database != "blog-db" || cfg.Firestore.TimeoutSec != 3 {
		t.Errorf("unexpected firestore config: %+v", cfg.Firestore)
	}
	if len(cfg.Outline.Levels) != 1 || cfg.Outline.CSSClass != "contents" {
		t.Errorf("unexpected outline config: %+v", cfg.Outline)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("INKWELL_TEST_PROJECT", "from-env")

	cfg, err := Parse([]byte(`
http:
  port: ${INKWELL_TEST_PORT:-9090}
firestore:
  project_id: ${INKWELL_TEST_PROJECT}
cache:
  addrs: ["localhost:6379"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Firestore.ProjectID != "from-env" {
		t.Errorf("expected project from-env, got %q", cfg.Firestore.ProjectID)
	}
	if !cfg.Cache.Enabled() {
		t.Error("expected cache enabled")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 8080\nfirestore:\n  project_id: p\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Firestore.ProjectID != "p" {
		t.Errorf("unexpected project: %q", cfg.Firestore.ProjectID)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	t.Setenv("FIRESTORE_PROJECT_ID", "demo")
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.HTTP.Port == 0 {
		t.Error("expected port from local config")
	}
}
