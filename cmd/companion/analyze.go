package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/export"
	"github.com/birddograbbit/magic8-companion/internal/notify"
	"github.com/birddograbbit/magic8-companion/internal/strategy"
)

func analyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [symbols...]",
		Short: "Run one analysis cycle and print recommendations",
		Long: `Fetches the current 0-DTE option chain for each symbol, computes dealer
gamma exposure, structural levels and the strategy recommendation, then
prints a summary. Defaults to the configured symbol list.

Examples:
  companion analyze
  companion analyze SPX
  companion analyze SPX SPY --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := args
			if len(symbols) == 0 {
				symbols = cfg.Symbols
			}

			eng := buildEngine(cfg, logger)
			ctx := cmd.Context()

			var journal *export.Journal
			if cfg.Journal.Enabled {
				var err error
				journal, err = export.NewJournal(cfg.Journal.Directory, logger)
				if err != nil {
					return err
				}
				defer journal.Close()
			}

			start := time.Now()
			results := eng.AnalyzeBatch(ctx, symbols)

			for _, symbol := range symbols {
				result, ok := results[symbol]
				if !ok {
					continue
				}
				rec := strategy.Recommend(result)

				if asJSON {
					payload, err := result.ExportJSON()
					if err != nil {
						return err
					}
					fmt.Println(string(payload))
				} else {
					fmt.Println(notify.FormatCheckpointMessage(result, rec))
					fmt.Println()
				}

				if journal != nil {
					if err := journal.Append(result); err != nil {
						logger.Warn("journal append failed",
							zap.String("symbol", symbol),
							zap.Error(err),
						)
					}
				}
			}

			logger.Info("analysis cycle complete",
				zap.Int("symbols", len(symbols)),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stable export JSON instead of the summary")
	return cmd
}
