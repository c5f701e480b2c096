// Package httpapi exposes the router's HTTP surface: the three inbound
// provider webhook routes, the GitHub/Jira management-API mock endpoints,
// and the health check, all on one chi.Mux.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattjoyce/unihook/internal/fanout"
	"github.com/mattjoyce/unihook/internal/log"
	"github.com/mattjoyce/unihook/internal/storage"
)

// Config holds the settings the server needs beyond its collaborators.
type Config struct {
	ListenAddr          string
	GitHubWebhookSecret string
	DatabasePath        string
}

// Refresher is satisfied by *refresh.Refresher; narrowed so mock
// registration handlers can trigger an immediate out-of-band pass.
type Refresher interface {
	Pass(ctx context.Context) error
}

// Server is the router's single HTTP listener.
type Server struct {
	cfg       Config
	store     *storage.Store
	router    Router
	refresher Refresher
	startedAt time.Time
	server    *http.Server
}

// Router is the subset of *fanout.Router the inbound handlers dispatch to.
type Router interface {
	RouteSlack(ctx context.Context, event fanout.SlackEvent, rawBody []byte)
	RouteJira(ctx context.Context, webhookEvent string, rawBody []byte, headers http.Header, queryString string)
	RouteGitHub(ctx context.Context, event fanout.GitHubEvent, rawBody []byte)
}

// New builds a Server.
func New(cfg Config, store *storage.Store, router Router, refresher Refresher) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		router:    router,
		refresher: refresher,
		startedAt: time.Now(),
	}
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully, mirroring the teacher's Start(ctx)/server.Shutdown pattern.
func (s *Server) Start(ctx context.Context) error {
	mux := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger := log.WithComponent("httpapi")
	logger.Info("http server starting", "listen", s.cfg.ListenAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("httpapi: shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("httpapi: server error: %w", err)
	}
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Post("/slack/events", s.handleSlackEvents)
	r.Post("/jira/events", s.handleJiraEvents)
	r.Post("/github/events", s.handleGitHubEvents)

	r.Get("/user", s.handleGitHubUser)
	r.Get("/repos/{owner}/{repo}/hooks", s.handleGitHubHooksList)
	r.Post("/repos/{owner}/{repo}/hooks", s.handleGitHubHooksCreate)
	r.Delete("/repos/{owner}/{repo}/hooks/{id}", s.handleGitHubHooksDelete)

	r.Get("/rest/api/2/myself", s.handleJiraMyself)
	r.Get("/rest/webhooks/1.0/webhook", s.handleJiraWebhooksList)
	r.Post("/rest/webhooks/1.0/webhook", s.handleJiraWebhooksCreate)
	r.Delete("/rest/webhooks/1.0/webhook/{id}", s.handleJiraWebhooksDelete)

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	logger := log.WithComponent("httpapi")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if r.URL.Path == "/health" {
			logger.Debug("http request", fields...)
		} else {
			logger.Info("http request", fields...)
		}
	})
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, errorResponse{Error: message})
}
