package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "housefinder.yaml")
	yaml := "port: 9000\nfetch:\n  maxAttempts: 4\ncache:\n  dir: " + filepath.Join(dir, "file-cache") + "\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("FETCH_MAX_ATTEMPTS", "")

	cfg, _, err := parseConfig([]string{"-config", path, "-port", "9200", "-cache.maxEntries", "50"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != 9200 {
		t.Errorf("port = %d, want flag value 9200", cfg.Port)
	}
	if cfg.FetchMaxAttempts != 4 {
		t.Errorf("attempts = %d, want file value 4", cfg.FetchMaxAttempts)
	}
	if cfg.CacheDir != filepath.Join(dir, "file-cache") {
		t.Errorf("cache dir = %q", cfg.CacheDir)
	}
	if cfg.CacheMaxEntries != 50 {
		t.Errorf("max entries = %d", cfg.CacheMaxEntries)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("request timeout default lost: %v", cfg.RequestTimeout)
	}
}

func TestParseConfig_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "housefinder.yaml")
	if err := os.WriteFile(path, []byte("port: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	cfg, _, err := parseConfig([]string{"-config", path})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("port = %d, want 9100", cfg.Port)
	}
}

func TestParseConfig_Version(t *testing.T) {
	_, show, err := parseConfig([]string{"-version"})
	if err != nil || !show {
		t.Fatalf("show=%v err=%v", show, err)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	if _, _, err := parseConfig([]string{"-port", "70000"}); err == nil {
		t.Fatal("expected validation error for port")
	}
	if _, _, err := parseConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	cfg, _, err := parseConfig([]string{"-host", "127.0.0.1", "-port", "0"})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}
