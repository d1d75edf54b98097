package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/birddograbbit/magic8-companion/internal/chain"
	"github.com/birddograbbit/magic8-companion/internal/gex"
)

const defaultMultiplier = 100.0

// Options configure an Engine.
type Options struct {
	Disabled          bool // emit unavailable results without fetching
	CacheTTL          time.Duration
	Multipliers       map[string]float64 // symbol -> contract multiplier, default 100
	Thresholds        gex.Thresholds
	Adjust            gex.AdjustOptions
	WallFallbackWidth float64
	FetchWorkers      int           // bounded fan-out for AnalyzeBatch
	FetchTimeout      time.Duration // upper bound on one shared fetch flight
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 2 * time.Minute
	}
	if o.Thresholds == (gex.Thresholds{}) {
		o.Thresholds = gex.DefaultThresholds()
	}
	if o.WallFallbackWidth <= 0 {
		o.WallFallbackWidth = gex.DefaultWallWidth
	}
	if o.FetchWorkers <= 0 {
		o.FetchWorkers = 3
	}
	return o
}

// Engine ties the pipeline stages into a single Analyze call with TTL
// caching and same-symbol in-flight collapse. The pipeline stages are pure;
// the cache is the only shared mutable state.
type Engine struct {
	provider chain.MarketDataProvider
	cache    *ResultCache
	opts     Options
	group    singleflight.Group
	logger   *zap.Logger
	now      func() time.Time
}

func New(provider chain.MarketDataProvider, opts Options, logger *zap.Logger) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		provider: provider,
		cache:    NewResultCache(opts.CacheTTL),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Multiplier returns the configured contract multiplier for a symbol.
func (e *Engine) Multiplier(symbol string) float64 {
	if m, ok := e.opts.Multipliers[symbol]; ok && m > 0 {
		return m
	}
	return defaultMultiplier
}

// Analyze runs the full pipeline for one symbol. Concurrent calls for the
// same symbol collapse to one in-flight computation; a cancelled context
// yields an unavailable result instead of blocking. InvalidInput from the
// vendor (non-positive spot) is the only error surfaced to the caller.
func (e *Engine) Analyze(ctx context.Context, symbol string) (*gex.AnalysisResult, error) {
	if e.opts.Disabled {
		return gex.Unavailable(symbol, e.now()), nil
	}

	if result, ok := e.cache.Get(symbol, e.now()); ok {
		e.logger.Debug("cache hit", zap.String("symbol", symbol))
		return result, nil
	}

	ch := e.group.DoChan(symbol, func() (interface{}, error) {
		// Detach the flight from the winning caller so one caller's
		// deadline cannot poison the result for healthy waiters
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.opts.FetchTimeout)
		defer cancel()
		return e.analyzeUncached(fetchCtx, symbol)
	})

	select {
	case <-ctx.Done():
		e.logger.Warn("analysis cancelled",
			zap.String("symbol", symbol),
			zap.Error(ctx.Err()),
		)
		return gex.Unavailable(symbol, e.now()), nil
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gex.AnalysisResult), nil
	}
}

func (e *Engine) analyzeUncached(ctx context.Context, symbol string) (*gex.AnalysisResult, error) {
	// Re-check after winning the flight; a peer may have filled the cache
	if result, ok := e.cache.Get(symbol, e.now()); ok {
		return result, nil
	}

	snapshot, err := e.provider.GetOptionChain(ctx, symbol)
	if err != nil {
		if errors.Is(err, chain.ErrDataUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			e.logger.Warn("chain unavailable, gamma enhancement skipped",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
			return gex.Unavailable(symbol, e.now()), nil
		}
		return nil, err
	}

	if snapshot.Empty() {
		e.logger.Warn("empty chain, gamma enhancement skipped", zap.String("symbol", symbol))
		return gex.Unavailable(symbol, e.now()), nil
	}

	result, err := e.runPipeline(symbol, snapshot)
	if err != nil {
		return nil, err
	}

	// Unavailable results are not cached so the next cycle can recover early
	e.cache.Put(symbol, result, e.now())

	e.logger.Info("analysis complete",
		zap.String("symbol", symbol),
		zap.Float64("netGEX", result.Profile.TotalNetGEX),
		zap.String("regime", string(result.Assessment.Regime)),
		zap.String("magnitude", string(result.Assessment.Magnitude)),
		zap.Float64("gammaFlip", result.Levels.GammaFlip),
		zap.Float64("callWall", result.Levels.CallWall),
		zap.Float64("putWall", result.Levels.PutWall),
	)

	return result, nil
}

// runPipeline executes stages calculator -> levels -> regime -> adjuster.
// All stages are pure functions; partial results are never produced.
func (e *Engine) runPipeline(symbol string, snapshot *chain.Snapshot) (*gex.AnalysisResult, error) {
	multiplier := e.Multiplier(symbol)

	profile, err := gex.Compute(snapshot.SpotPrice, snapshot.Contracts, multiplier)
	if err != nil {
		return nil, err
	}

	levels := gex.FindLevels(profile, snapshot.SpotPrice, e.opts.WallFallbackWidth)
	assessment := gex.Classify(profile.TotalNetGEX, levels, snapshot.SpotPrice, e.opts.Thresholds)
	adjustment := gex.Adjust(assessment, levels, snapshot.SpotPrice, e.opts.Adjust)

	return &gex.AnalysisResult{
		Symbol:     symbol,
		ComputedAt: e.now(),
		SpotPrice:  snapshot.SpotPrice,
		Multiplier: multiplier,
		Available:  true,
		Profile:    profile,
		Levels:     levels,
		Assessment: assessment,
		Adjustment: adjustment,
	}, nil
}

// AnalyzeBatch runs Analyze per symbol with a bounded worker pool. Symbols
// are independent; a failure on one never blocks the rest, it simply maps
// to an unavailable result.
func (e *Engine) AnalyzeBatch(ctx context.Context, symbols []string) map[string]*gex.AnalysisResult {
	results := make(map[string]*gex.AnalysisResult, len(symbols))
	if len(symbols) == 0 {
		return results
	}

	type symbolResult struct {
		symbol string
		result *gex.AnalysisResult
	}

	jobs := make(chan string, len(symbols))
	out := make(chan symbolResult, len(symbols))

	workers := e.opts.FetchWorkers
	if workers > len(symbols) {
		workers = len(symbols)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				result, err := e.Analyze(ctx, symbol)
				if err != nil {
					e.logger.Error("batch analysis failed",
						zap.String("symbol", symbol),
						zap.Error(err),
					)
					result = gex.Unavailable(symbol, e.now())
				}
				select {
				case <-ctx.Done():
					return
				case out <- symbolResult{symbol: symbol, result: result}:
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case <-ctx.Done():
				return
			case jobs <- symbol:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	for r := range out {
		results[r.symbol] = r.result
	}

	return results
}
