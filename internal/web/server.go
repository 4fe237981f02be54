// Package web provides the HTTP API for catalog imports, invoice intake,
// the cash cut and business settings.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/JonMunkholm/pos/internal/cashcut"
	"github.com/JonMunkholm/pos/internal/config"
	"github.com/JonMunkholm/pos/internal/core"
	"github.com/JonMunkholm/pos/internal/invoice"
	"github.com/JonMunkholm/pos/internal/settings"
	mw "github.com/JonMunkholm/pos/internal/web/middleware"
)

// Deps are the services behind the handlers.
type Deps struct {
	Importer *core.Importer
	Catalog  core.CatalogReader
	Invoices *invoice.Service
	Cash     *cashcut.Service
	Settings *settings.Service

	// Ping checks the database for /healthz. Nil skips the check.
	Ping func(ctx context.Context) error
}

// Server is the HTTP server.
type Server struct {
	cfg    *config.Config
	deps   Deps
	router *chi.Mux
	server *http.Server
	now    func() time.Time
}

// NewServer creates a Server instance.
func NewServer(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		router: chi.NewRouter(),
		now:    time.Now,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.securityHeaders())

	if s.cfg.Rate.Enabled {
		s.router.Use(s.rateLimit(s.cfg.Rate.RequestsPerMinute))
	}
}

// setupRoutes configures all HTTP routes. Catalog imports run under the
// import timeout; every other route under the request timeout.
func (s *Server) setupRoutes() {
	uploadLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		uploadLimit = s.rateLimit(s.cfg.Rate.UploadLimit)
	}

	s.router.With(middleware.Timeout(s.cfg.Server.RequestTimeout)).Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		r.With(uploadLimit, s.importDeadline()).Post("/catalog/import", s.handleImport)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

			r.With(uploadLimit).Post("/catalog/import/preview", s.handlePreview)
			r.With(uploadLimit).Post("/invoices/extract", s.handleInvoiceExtract)

			r.Get("/catalog/imports/{id}", s.handleImportReport)
			r.Get("/catalog/export", s.handleExport)
			r.Get("/catalog/template", s.handleTemplate)

			r.Post("/invoices/save", s.handleInvoiceSave)

			r.Get("/cash/cut", s.handleCashCut)
			r.Get("/cash/movements", s.handleCashMovements)
			r.Post("/cash/movements", s.handleRecordCashMovement)

			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleUpdateSettings)
		})
	})
}

// importDeadline extends the connection deadlines of an import request past
// the import timeout, so the server's read and write timeouts cannot cut
// off an import that is still within its own budget. The importer enforces
// the import timeout itself.
func (s *Server) importDeadline() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if budget := s.cfg.Import.Timeout; budget > 0 {
				deadline := time.Now().Add(budget + s.cfg.Server.WriteTimeout)
				rc := http.NewResponseController(w)
				_ = rc.SetReadDeadline(deadline)
				_ = rc.SetWriteDeadline(deadline)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests, then waits for running imports.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if s.deps.Importer != nil {
		if waitErr := s.deps.Importer.WaitForImports(ctx); waitErr != nil && err == nil {
			err = waitErr
		}
	}
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders sets the standard hardening headers.
func (s *Server) securityHeaders() func(http.Handler) http.Handler {
	opts := secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	}
	if s.cfg.Security.EnableCSP {
		opts.ContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"
	}
	return secure.New(opts).Handler
}

// rateLimit limits requests per minute per client IP.
func (s *Server) rateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			s.respondError(w, r, errRateLimited, http.StatusTooManyRequests)
		}),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	if s.deps.Importer != nil {
		status["imports"] = s.deps.Importer.LimiterStatus()
	}

	if s.deps.Ping != nil {
		if err := s.deps.Ping(r.Context()); err != nil {
			s.respondError(w, r, err, http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, http.StatusOK, status)
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
