package config

import (
	"fmt"
	"strings"
)

// ValidationErrors collects all validation problems so operators see every
// issue in one pass instead of fixing them one at a time.
type ValidationErrors struct {
	Problems []string
}

func (e *ValidationErrors) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// HasErrors returns true if any validation errors exist
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Problems) > 0
}

// Error formats all validation errors into a clear message
func (e *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, p := range e.Problems {
		sb.WriteString(fmt.Sprintf("  - %s\n", p))
	}
	return sb.String()
}

func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if len(c.Symbols) == 0 {
		errs.add("at least one symbol is required")
	}
	for symbol, multiplier := range c.Multipliers {
		if multiplier <= 0 {
			errs.add("multiplier for %s must be positive, got %.2f", symbol, multiplier)
		}
	}

	if c.Gamma.CacheTTLMinutes <= 0 {
		errs.add("gamma.cache_ttl_minutes must be >= 1")
	}
	if !(c.Gamma.ModerateUSD < c.Gamma.HighUSD && c.Gamma.HighUSD < c.Gamma.ExtremeUSD) {
		errs.add("gamma magnitude thresholds must be ascending (moderate < high < extreme)")
	}
	if c.Gamma.ScoreCap <= 0 {
		errs.add("gamma.score_cap must be positive")
	}
	if c.Gamma.StrengthMultiplier < 1 {
		errs.add("gamma.strength_multiplier must be >= 1")
	}
	if c.Gamma.WallFallbackWidth <= 0 {
		errs.add("gamma.wall_fallback_width must be positive")
	}

	if c.Provider.FetchWorkers < 1 {
		errs.add("provider.fetch_workers must be >= 1")
	}
	if c.Provider.RatePerSecond < 1 {
		errs.add("provider.rate_per_second must be >= 1")
	}

	if c.Schedule.IntervalMinutes < 1 {
		errs.add("schedule.interval_minutes must be >= 1")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
