package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/engine"
	"github.com/birddograbbit/magic8-companion/internal/export"
	"github.com/birddograbbit/magic8-companion/internal/notify"
	"github.com/birddograbbit/magic8-companion/internal/strategy"
)

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run scheduled checkpoint analyses on market days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng := buildEngine(cfg, logger)

			notifyCfg := notify.LoadConfig()
			if err := notifyCfg.Validate(); err != nil {
				return err
			}
			notifier := notify.New(notifyCfg, logger)

			var journal *export.Journal
			if cfg.Journal.Enabled {
				var err error
				journal, err = export.NewJournal(cfg.Journal.Directory, logger)
				if err != nil {
					return err
				}
				defer journal.Close()
			}

			scheduler := NewScheduler(
				cfg.Schedule.OpenHour, cfg.Schedule.OpenMinute,
				cfg.Schedule.CloseHour, cfg.Schedule.CloseMinute,
				time.Duration(cfg.Schedule.IntervalMinutes)*time.Minute,
				cfg.Schedule.Timezone,
			)

			logger.Info("daemon started",
				zap.Int("intervalMinutes", cfg.Schedule.IntervalMinutes),
				zap.String("timezone", cfg.Schedule.Timezone),
				zap.Strings("symbols", cfg.Symbols),
			)

			// Main loop - check every minute
			ticker := time.NewTicker(1 * time.Minute)
			defer ticker.Stop()

			var lastRun time.Time
			for {
				select {
				case <-ctx.Done():
					logger.Info("daemon shutting down")
					return nil

				case now := <-ticker.C:
					if !scheduler.ShouldRun(now, lastRun) {
						continue
					}
					lastRun = now
					runCheckpoint(ctx, eng, notifier, journal, logger)
				}
			}
		},
	}
}

// runCheckpoint analyzes every configured symbol and fans the outcome out
// to the journal and the notifier. Unavailable symbols are reported, not
// fatal; the rest of the cycle always proceeds.
func runCheckpoint(ctx context.Context, eng *engine.Engine, notifier notify.Notifier, journal *export.Journal, logger *zap.Logger) {
	start := time.Now()
	logger.Info("starting checkpoint", zap.Strings("symbols", cfg.Symbols))

	results := eng.AnalyzeBatch(ctx, cfg.Symbols)

	for _, symbol := range cfg.Symbols {
		result, ok := results[symbol]
		if !ok {
			continue
		}
		rec := strategy.Recommend(result)

		if journal != nil {
			if err := journal.Append(result); err != nil {
				logger.Warn("journal append failed",
					zap.String("symbol", symbol),
					zap.Error(err),
				)
			}
		}

		if err := notifier.SendCheckpoint(ctx, result, rec); err != nil {
			logger.Warn("checkpoint notification failed",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}
	}

	logger.Info("checkpoint complete",
		zap.Int("symbols", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
}
