package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/engine"
	"github.com/birddograbbit/magic8-companion/internal/stream"
)

// Server exposes cached analyses over REST and websocket.
type Server struct {
	engine  *engine.Engine
	hub     *stream.Hub
	symbols []string
	logger  *zap.Logger
}

func NewServer(eng *engine.Engine, hub *stream.Hub, symbols []string, logger *zap.Logger) *Server {
	return &Server{
		engine:  eng,
		hub:     hub,
		symbols: symbols,
		logger:  logger,
	}
}

func NewRouter(server *Server, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)
	r.Use(zapLoggerMiddleware(logger))

	r.Get("/health", server.GetHealth)
	r.Get("/gex/{symbol}", server.GetGex)
	r.Post("/analyze", server.PostAnalyze)

	if server.hub != nil {
		r.Get("/ws", server.hub.HandleWS)
	}

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func zapLoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r)
		})
	}
}
