package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/server"
	"github.com/birddograbbit/magic8-companion/internal/stream"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve analyses over REST and websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := buildEngine(cfg, logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			hub := stream.NewHub(logger)
			go hub.Run(ctx)

			interval := time.Duration(cfg.Server.StreamIntervalSec) * time.Second
			streamer := stream.NewStreamer(hub, eng, cfg.Symbols, interval, logger)
			go streamer.Run(ctx)

			srv := server.NewServer(eng, hub, cfg.Symbols, logger)
			router := server.NewRouter(srv, logger)

			httpServer := &http.Server{
				Addr:         ":" + cfg.Server.Port,
				Handler:      router,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
			}

			go func() {
				logger.Info("starting server", zap.String("addr", httpServer.Addr))
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", zap.Error(err))
				}
			}()

			// Wait for interrupt via the root signal context
			<-ctx.Done()

			logger.Info("shutting down server...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown error", zap.Error(err))
				return err
			}

			logger.Info("server stopped")
			return nil
		},
	}
}
