package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"finnterm/internal/directory"
	"finnterm/internal/finnhub"
)

// isolateHome points $HOME at an empty temp dir so user config layers
// never leak into tests.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoadConfig_FlagOverridesBeatEnv(t *testing.T) {
	isolateHome(t)
	t.Setenv("FINNTERM_TOKEN", "env-token")

	cfg, err := loadConfig(apiFlags{Token: "flag-token"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.API.Token != "flag-token" {
		t.Errorf("Token = %q, want flag override", cfg.API.Token)
	}
}

func TestLoadConfig_ExtraFileHasHighestFilePriority(t *testing.T) {
	isolateHome(t)

	extra := filepath.Join(t.TempDir(), "extra.yaml")
	if err := os.WriteFile(extra, []byte("market:\n  default: L\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(apiFlags{Config: extra})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Market.Default != "L" {
		t.Errorf("Market.Default = %q, want L from extra file", cfg.Market.Default)
	}
}

func TestEstablishDirectory_CacheHitSkipsNetwork(t *testing.T) {
	cacheDir := t.TempDir()
	cache := directory.NewCache(cacheDir)
	if err := cache.Save("US", directory.New([]directory.Entry{
		{Symbol: "AAPL", Description: "APPLE INC"},
	})); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("network call made despite a cached snapshot")
	}))
	defer srv.Close()
	client := finnhub.NewClient("tok", finnhub.WithBaseURL(srv.URL))

	dir, err := establishDirectory(cache, client, "US", time.Second)
	if err != nil {
		t.Fatalf("establishDirectory() error = %v", err)
	}
	if dir.Len() != 1 || dir.Entries()[0].Symbol != "AAPL" {
		t.Errorf("directory = %+v, want the cached snapshot", dir.Entries())
	}
}

func TestEstablishDirectory_FetchSeedsCache(t *testing.T) {
	cacheDir := t.TempDir()
	cache := directory.NewCache(cacheDir)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"displaySymbol":"AAPL","description":"APPLE INC"}]`))
	}))
	defer srv.Close()
	client := finnhub.NewClient("tok", finnhub.WithBaseURL(srv.URL))

	dir, err := establishDirectory(cache, client, "US", time.Second)
	if err != nil {
		t.Fatalf("establishDirectory() error = %v", err)
	}
	if dir.Len() != 1 {
		t.Fatalf("directory has %d entries, want 1", dir.Len())
	}

	data, err := os.ReadFile(filepath.Join(cacheDir, "US.txt"))
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if string(data) != "AAPL APPLE INC\n" {
		t.Errorf("snapshot = %q", string(data))
	}
}

func TestEstablishDirectory_NoCacheNoNetworkIsFatal(t *testing.T) {
	cache := directory.NewCache(t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable from here on
	client := finnhub.NewClient("tok", finnhub.WithBaseURL(srv.URL))

	if _, err := establishDirectory(cache, client, "US", time.Second); err == nil {
		t.Fatal("establishDirectory() should fail with no cache and no network")
	}
}
