// Package app assembles the claims dashboard server: configuration, logging,
// the websocket hub, the dashboard service, and the HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"claimsdash/internal/config"
	"claimsdash/internal/infrastructure"
	custommw "claimsdash/internal/middleware"
	"claimsdash/internal/services"
	handlers "claimsdash/internal/transport/http"
	ws "claimsdash/internal/websocket"
)

const Version = "1.0.0"

// Application is the composed server.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Router    *chi.Mux
	Server    *http.Server
	Hub       *ws.Hub
	Dashboard *services.DashboardService

	upgrader websocket.Upgrader
}

// New builds the application from configuration. The logger must already be
// initialized.
func New(cfg *config.Config, logger *slog.Logger) *Application {
	hub := ws.NewHub(logger)
	dashboard := services.NewDashboardService(cfg, hub, logger)

	app := &Application{
		Config:    cfg,
		Logger:    logger.With(slog.String("component", "app")),
		Hub:       hub,
		Dashboard: dashboard,
	}
	app.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     app.checkOrigin,
	}
	app.setupRouter()
	app.createServer()
	return app
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware that does not wrap the ResponseWriter, so the
	// websocket upgrade still works.
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	r.HandleFunc("/ws", a.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", a.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.SecurityHeaders)
		r.Use(custommw.Compress(5))
		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(a.corsConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			limiter := custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			)
			r.Use(limiter.Handler)
		}
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		handler := handlers.NewDashboardHandler(a.Dashboard, a.Config.Ingest.MaxUploadBytes, a.Logger)
		r.Mount("/api", handler.Routes())
	})

	a.Router = r
}

func (a *Application) corsConfig() custommw.CORSConfig {
	return custommw.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

func (a *Application) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Same-origin or non-browser client.
		return true
	}
	for _, allowed := range a.Config.Security.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	a.Logger.Warn("websocket origin rejected",
		slog.String("origin", origin),
		slog.Any("allowed", a.Config.Security.AllowedOrigins))
	return false
}

// handleWebSocket upgrades the connection and hands it to the hub.
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	traceID := r.Header.Get("X-Request-ID")
	if traceID == "" {
		traceID = infrastructure.GenerateTraceID()
	}
	ctx := infrastructure.WithTraceID(r.Context(), traceID)

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		a.Logger.WarnContext(ctx, "websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		return
	}

	a.Logger.InfoContext(ctx, "websocket client connected",
		slog.String("remote_addr", r.RemoteAddr))
	ws.ServeWS(a.Hub, conn, traceID)
}

func (a *Application) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := "idle"
	if a.Dashboard.SourceName() != "" {
		status = "loaded"
	}
	fmt.Fprintf(w, `{"status":"ok","version":%q,"dataset":%q}`, Version, status)
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start runs the hub and the HTTP server. It blocks until the server stops.
func (a *Application) Start(ctx context.Context) error {
	a.Hub.Start()

	a.Logger.InfoContext(ctx, "server starting",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port))

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop shuts the server and hub down gracefully.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.Hub.Stop()

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run starts the application and blocks until an interrupt arrives, then
// shuts down gracefully.
func (a *Application) Run() error {
	ctx := context.Background()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- a.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "signal received", slog.String("signal", sig.String()))
	}

	return a.Stop(ctx)
}
