package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Symbols) == 0 {
		t.Error("expected default symbols")
	}
	if cfg.Gamma.CacheTTLMinutes != 5 {
		t.Errorf("cache TTL = %d, want 5", cfg.Gamma.CacheTTLMinutes)
	}
	if cfg.Gamma.ScoreCap != 20 {
		t.Errorf("score cap = %d, want 20", cfg.Gamma.ScoreCap)
	}
	if cfg.Gamma.StrengthMultiplier != 1.5 {
		t.Errorf("strength multiplier = %v, want 1.5", cfg.Gamma.StrengthMultiplier)
	}
	if cfg.Multipliers["SPX"] != 10 {
		t.Errorf("SPX multiplier = %v, want 10", cfg.Multipliers["SPX"])
	}
	if cfg.Provider.FetchWorkers != 3 {
		t.Errorf("fetch workers = %d, want 3", cfg.Provider.FetchWorkers)
	}
	if cfg.Schedule.Timezone != "America/New_York" {
		t.Errorf("timezone = %s, want America/New_York", cfg.Schedule.Timezone)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
symbols:
  - SPX
multipliers:
  SPX: 10
gamma:
  cache_ttl_minutes: 10
provider:
  fetch_workers: 5
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gamma.CacheTTLMinutes != 10 {
		t.Errorf("cache TTL = %d, want 10", cfg.Gamma.CacheTTLMinutes)
	}
	if cfg.Provider.FetchWorkers != 5 {
		t.Errorf("fetch workers = %d, want 5", cfg.Provider.FetchWorkers)
	}
	// Untouched keys keep their defaults
	if cfg.Gamma.ScoreCap != 20 {
		t.Errorf("score cap = %d, want default 20", cfg.Gamma.ScoreCap)
	}
}

func TestCacheTTLDuration(t *testing.T) {
	cfg := &Config{Gamma: GammaConfig{CacheTTLMinutes: 5}}
	if cfg.CacheTTL().Minutes() != 5 {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL())
	}
}

func validConfig() *Config {
	return &Config{
		Symbols:     []string{"SPX"},
		Multipliers: map[string]float64{"SPX": 10},
		Gamma: GammaConfig{
			Enabled:            true,
			CacheTTLMinutes:    5,
			ModerateUSD:        500e6,
			HighUSD:            1e9,
			ExtremeUSD:         5e9,
			WallFallbackWidth:  50,
			ScoreCap:           20,
			StrengthMultiplier: 1.5,
		},
		Provider: ProviderConfig{FetchWorkers: 3, RatePerSecond: 2},
		Schedule: ScheduleConfig{IntervalMinutes: 30},
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate failed on good config: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }},
		{"negative multiplier", func(c *Config) { c.Multipliers["SPX"] = -1 }},
		{"zero ttl", func(c *Config) { c.Gamma.CacheTTLMinutes = 0 }},
		{"unordered thresholds", func(c *Config) { c.Gamma.HighUSD = 10e9 }},
		{"zero score cap", func(c *Config) { c.Gamma.ScoreCap = 0 }},
		{"sub-unity strength", func(c *Config) { c.Gamma.StrengthMultiplier = 0.5 }},
		{"zero wall width", func(c *Config) { c.Gamma.WallFallbackWidth = 0 }},
		{"zero workers", func(c *Config) { c.Provider.FetchWorkers = 0 }},
		{"zero rate", func(c *Config) { c.Provider.RatePerSecond = 0 }},
		{"zero interval", func(c *Config) { c.Schedule.IntervalMinutes = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Symbols = nil
	cfg.Gamma.ScoreCap = 0
	cfg.Provider.FetchWorkers = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	verrs, ok := err.(*ValidationErrors)
	if !ok {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}
	if len(verrs.Problems) != 3 {
		t.Errorf("problems = %d, want 3", len(verrs.Problems))
	}
}
