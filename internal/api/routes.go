package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notewell/meetscribe/internal/config"
	"github.com/notewell/meetscribe/internal/session"
	"github.com/notewell/meetscribe/internal/websocket"
	"github.com/notewell/meetscribe/pkg/logger"
)

// Router is the API router.
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates the API router over the session manager and the
// WebSocket server.
func NewRouter(manager *session.Manager, wsServer *websocket.Server, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(manager, wsServer, cfg, log),
		middleware: NewMiddleware(log),
		config:     cfg,
		logger:     log.Named("api-router"),
	}
}

// Routes returns the composed HTTP handler.
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	router.Route("/api/v1", func(router chi.Router) {
		// Recording session lifecycle
		router.Post("/sessions", r.handler.StartSession)
		router.Get("/sessions/active", r.handler.GetActiveSession)
		router.Post("/sessions/{id}/fragments", r.handler.AppendFragment)
		router.Get("/sessions/{id}/transcript", r.handler.GetTranscript)
		router.Post("/sessions/{id}/stop", r.handler.StopSession)

		// Analysis results
		router.Get("/analysis/latest", r.handler.GetLatestAnalysis)

		// Live updates
		router.Get("/ws", r.handler.HandleWebSocket)

		// Service introspection
		router.Get("/health", r.handler.GetHealth)
		router.Get("/config", r.handler.GetConfig)
	})

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Serve the bundled web client when configured.
	if r.config.Server.StaticFilesDir != "" {
		router.Handle("/*", NewStaticFileHandler(r.config.Server.StaticFilesDir, r.logger))
	}

	return router
}
