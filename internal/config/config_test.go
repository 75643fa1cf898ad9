package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Input.Path != DefaultInputPath {
		t.Errorf("Input.Path = %q, want %q", cfg.Input.Path, DefaultInputPath)
	}
	if cfg.Output.Path != DefaultOutputPath {
		t.Errorf("Output.Path = %q, want %q", cfg.Output.Path, DefaultOutputPath)
	}
	if cfg.Input.KeyColumn != "Name" {
		t.Errorf("Input.KeyColumn = %q, want Name", cfg.Input.KeyColumn)
	}
	if cfg.Input.Encoding != "utf-8" {
		t.Errorf("Input.Encoding = %q, want utf-8", cfg.Input.Encoding)
	}
	if cfg.Report.TopN != 5 || cfg.Report.Examples != 20 {
		t.Errorf("Report = %+v, want top 5 and 20 examples", cfg.Report)
	}
	if cfg.Server.Port != 8080 || cfg.Server.GRPCPort != 8081 {
		t.Errorf("Server ports = %d/%d, want 8080/8081", cfg.Server.Port, cfg.Server.GRPCPort)
	}
	if cfg.Server.MaxBodyBytes != 32<<20 {
		t.Errorf("Server.MaxBodyBytes = %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Metrics.Port != 9090 || cfg.Metrics.Enabled {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Cache.Provider != "memory" || cfg.Cache.Size != 128 {
		t.Errorf("Cache = %s/%d, want memory/128", cfg.Cache.Provider, cfg.Cache.Size)
	}
	if cfg.History.Enabled || cfg.History.Path != "data/history.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Schedule.Cron != "" {
		t.Errorf("Schedule.Cron = %q, want empty", cfg.Schedule.Cron)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_INPUT_PATH", "/data/shows.csv.gz")
	t.Setenv("APP_INPUT_KEY_COLUMN", "Title")
	t.Setenv("APP_REPORT_TOP_N", "3")
	t.Setenv("APP_CACHE_PROVIDER", "redis")
	t.Setenv("APP_SCHEDULE_CRON", "0 0 3 * * *")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Input.Path != "/data/shows.csv.gz" {
		t.Errorf("Input.Path = %q", cfg.Input.Path)
	}
	if cfg.Input.KeyColumn != "Title" {
		t.Errorf("Input.KeyColumn = %q", cfg.Input.KeyColumn)
	}
	if cfg.Report.TopN != 3 {
		t.Errorf("Report.TopN = %d", cfg.Report.TopN)
	}
	if cfg.Cache.Provider != "redis" {
		t.Errorf("Cache.Provider = %q", cfg.Cache.Provider)
	}
	if cfg.Schedule.Cron != "0 0 3 * * *" {
		t.Errorf("Schedule.Cron = %q", cfg.Schedule.Cron)
	}
}

func TestCacheTTL(t *testing.T) {
	tests := []struct {
		ttl  string
		want time.Duration
	}{
		{"", time.Hour},
		{"30m", 30 * time.Minute},
		{"24h", 24 * time.Hour},
		{"forever", time.Hour},
		{"-5m", time.Hour},
	}
	for _, tt := range tests {
		var cfg Config
		cfg.Cache.TTL = tt.ttl
		if got := cfg.CacheTTL(); got != tt.want {
			t.Errorf("CacheTTL(%q) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestGlobals(t *testing.T) {
	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("GetConfig returned nil after init")
	}
	if cfg.Input.KeyColumn == "" {
		t.Error("The key column should never be empty")
	}
}
