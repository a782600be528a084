package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=\"beta\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta", got)
	}
}

// Later files override earlier ones; the real environment wins over both.
func TestLoadEnvFiles_Precedence(t *testing.T) {
	t.Setenv("K", "")
	t.Setenv("KEEP", "process")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\nKEEP=file\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
	if got := os.Getenv("KEEP"); got != "process" {
		t.Fatalf("process env overridden: %q", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STATIC_DIRECTORY", "./web")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/houses")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_MAX_ATTEMPTS", "3")
	t.Setenv("CACHE_DIR", "/tmp/housefinder-cache")
	t.Setenv("CACHE_MAX_AGE", "24h")
	t.Setenv("CACHE_CLEAR", "yes")
	t.Setenv("CACHE_FRESH_FOR", "10m")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("VERBOSE", "off")

	cfg := DefaultConfig()
	cfg.Verbose = true
	ApplyEnvOverrides(&cfg)

	if cfg.Port != 9090 || cfg.StaticDir != "./web" || cfg.DatabaseURL != "postgres://u:p@db/houses" {
		t.Fatalf("server settings not applied: %+v", cfg)
	}
	if cfg.FetchTimeout != 5*time.Second || cfg.FetchMaxAttempts != 3 {
		t.Fatalf("fetch settings: timeout=%v attempts=%d", cfg.FetchTimeout, cfg.FetchMaxAttempts)
	}
	if cfg.CacheDir != "/tmp/housefinder-cache" || cfg.CacheMaxAge != 24*time.Hour || !cfg.CacheClear || cfg.CacheFreshFor != 10*time.Minute {
		t.Fatalf("cache settings: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("cors origins = %q", cfg.CORSOrigins)
	}
	if cfg.Verbose {
		t.Fatal("VERBOSE=off should disable verbose")
	}
}

func TestApplyEnvOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("CACHE_MAX_BYTES", "lots")

	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	defer func() { log.Logger = prev }()

	cfg := DefaultConfig()
	cfg.CacheMaxBytes = 4096
	ApplyEnvOverrides(&cfg)
	if cfg.Port != 8080 || cfg.FetchTimeout != 20*time.Second || cfg.CacheMaxBytes != 4096 {
		t.Fatalf("invalid env values should be ignored: port=%d timeout=%v maxBytes=%d", cfg.Port, cfg.FetchTimeout, cfg.CacheMaxBytes)
	}
	for _, key := range []string{"PORT", "FETCH_TIMEOUT", "CACHE_MAX_BYTES"} {
		if !strings.Contains(logs.String(), `"key":"`+key+`"`) {
			t.Errorf("no warning logged for %s: %s", key, logs.String())
		}
	}
}
