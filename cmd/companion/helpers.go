package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/chain"
	"github.com/birddograbbit/magic8-companion/internal/config"
	"github.com/birddograbbit/magic8-companion/internal/engine"
	"github.com/birddograbbit/magic8-companion/internal/gex"
)

// buildEngine wires the market-data provider and analysis engine from config.
func buildEngine(cfg *config.Config, logger *zap.Logger) *engine.Engine {
	provider := chain.NewHTTPProvider(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		cfg.Provider.RatePerSecond,
		time.Duration(cfg.Provider.TimeoutSec)*time.Second,
		time.Duration(cfg.Provider.RetryDelaySec)*time.Second,
		cfg.Provider.RetryCount,
		logger,
	)

	return engine.New(provider, engine.Options{
		Disabled:    !cfg.Gamma.Enabled,
		CacheTTL:    cfg.CacheTTL(),
		Multipliers: cfg.Multipliers,
		Thresholds: gex.Thresholds{
			Moderate: cfg.Gamma.ModerateUSD,
			High:     cfg.Gamma.HighUSD,
			Extreme:  cfg.Gamma.ExtremeUSD,
		},
		Adjust: gex.AdjustOptions{
			ScoreCap:           cfg.Gamma.ScoreCap,
			StrengthMultiplier: cfg.Gamma.StrengthMultiplier,
		},
		WallFallbackWidth: cfg.Gamma.WallFallbackWidth,
		FetchWorkers:      cfg.Provider.FetchWorkers,
	}, logger)
}
