package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("env-only load must not read the file: %v", err)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("http_addr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Gamma.BaseURL != "https://gamma-api.polymarket.com" {
		t.Fatalf("gamma base_url = %q", cfg.Gamma.BaseURL)
	}
	if cfg.Gamma.RequestDelay != 200*time.Millisecond {
		t.Fatalf("request_delay = %v", cfg.Gamma.RequestDelay)
	}
	if cfg.Sync.PageLimit != 100 || cfg.Sync.MaxPages != 200 {
		t.Fatalf("sync paging = %d/%d", cfg.Sync.PageLimit, cfg.Sync.MaxPages)
	}
	if !cfg.Sync.Resume || cfg.Sync.FetchClosed {
		t.Fatalf("sync toggles: resume=%v fetch_closed=%v", cfg.Sync.Resume, cfg.Sync.FetchClosed)
	}
	if !cfg.Sync.FetchTags || !cfg.Sync.FetchSeries || !cfg.Sync.EnrichDetails || cfg.Sync.FetchComments {
		t.Fatalf("pass toggles: tags=%v series=%v enrich=%v comments=%v",
			cfg.Sync.FetchTags, cfg.Sync.FetchSeries, cfg.Sync.EnrichDetails, cfg.Sync.FetchComments)
	}
	if cfg.Cron.DailyScan != "0 0 6 * * *" {
		t.Fatalf("daily_scan = %q", cfg.Cron.DailyScan)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PM_SYNC_PAGE_LIMIT", "250")
	t.Setenv("PM_GAMMA_MAX_RETRIES", "7")

	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sync.PageLimit != 250 {
		t.Fatalf("page_limit = %d, want env override 250", cfg.Sync.PageLimit)
	}
	if cfg.Gamma.MaxRetries != 7 {
		t.Fatalf("max_retries = %d, want env override 7", cfg.Gamma.MaxRetries)
	}
}
