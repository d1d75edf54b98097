package stream

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/engine"
)

// Streamer periodically re-analyzes the configured symbols and broadcasts
// each export to connected subscribers. Within the cache TTL this only
// re-sends cached results, so the broadcast interval can be much shorter
// than the TTL without extra vendor traffic.
type Streamer struct {
	hub      *Hub
	engine   *engine.Engine
	symbols  []string
	interval time.Duration
	logger   *zap.Logger
}

// NewStreamer creates a new Streamer.
func NewStreamer(hub *Hub, eng *engine.Engine, symbols []string, interval time.Duration, logger *zap.Logger) *Streamer {
	return &Streamer{
		hub:      hub,
		engine:   eng,
		symbols:  symbols,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the streaming loop. Call in a goroutine.
// Returns when context is cancelled.
func (s *Streamer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("analysis streamer started",
		zap.Duration("interval", s.interval),
		zap.Strings("symbols", s.symbols),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("analysis streamer stopping")
			return

		case <-ticker.C:
			s.broadcastCycle(ctx)
		}
	}
}

func (s *Streamer) broadcastCycle(ctx context.Context) {
	if s.hub.ClientCount() == 0 {
		return
	}

	results := s.engine.AnalyzeBatch(ctx, s.symbols)
	for symbol, result := range results {
		payload, err := json.Marshal(result.Export())
		if err != nil {
			s.logger.Warn("failed to marshal export",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
			continue
		}
		s.hub.Broadcast(payload)
	}
}
