package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salonsuite/bella"
	apimiddleware "github.com/salonsuite/bella/infrastructure/api/middleware"
	v1 "github.com/salonsuite/bella/infrastructure/api/v1"
	mcpinternal "github.com/salonsuite/bella/internal/mcp"
)

// APIServer provides an HTTP API backed by a bella Client.
type APIServer struct {
	client       *bella.Client
	apiKeys      []string
	version      string
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given bella Client.
// apiKeys configures write-protection: mutating endpoints (POST, PUT, PATCH,
// DELETE) under /api/v1 require a valid key. Read-only endpoints, the
// streaming surface, MCP, and docs remain open.
func NewAPIServer(client *bella.Client, apiKeys []string, version string) *APIServer {
	return &APIServer{
		client:  client,
		apiKeys: apiKeys,
		version: version,
		logger:  client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, ListenAndServe creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

// mountRoutes wires up all routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-KEY", "X-Correlation-ID"},
		MaxAge:         300,
	}))
	router.Use(apimiddleware.CorrelationID)
	router.Use(apimiddleware.Logging(a.logger))
	router.Use(apimiddleware.Metrics)

	// Streaming/compat surface at the root mount. These handlers flush
	// incrementally; neither Timeout nor Compress may wrap them.
	streamRouter := NewStreamRouter(c, c.Config().Stream(), a.version)
	streamRouter.Register(router)

	calendarsRouter := v1.NewCalendarsRouter(c)
	batchRouter := v1.NewBatchRouter(c)
	templatesRouter := v1.NewTemplatesRouter(c)
	contentRouter := v1.NewContentRouter(c)
	authConfig := apimiddleware.NewAuthConfigWithKeys(a.apiKeys)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Use(chimiddleware.Compress(5))

		// Open routes: read-only lookups.
		r.Mount("/trends", contentRouter.TrendRoutes())
		r.Mount("/analytics", contentRouter.AnalyticsRoutes())

		// Write-protected routes: mutating methods require a valid API key.
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.WriteProtect(authConfig))
			r.Mount("/calendars", calendarsRouter.Routes())
			r.Mount("/batch", batchRouter.Routes())
			r.Mount("/templates", templatesRouter.Routes())
			r.Mount("/images", contentRouter.ImageRoutes())
		})
	})

	// Prometheus metrics.
	router.Handle("/metrics", promhttp.Handler())

	// MCP (Model Context Protocol) endpoint, no timeout middleware.
	// MCP uses streaming responses and manages its own session state via
	// response headers, which is incompatible with chi's Timeout middleware
	// that wraps the ResponseWriter.
	mcpSrv := mcpinternal.NewServer(c.Calendars, c.Trends, c.Templates, a.version, a.logger)
	httpHandler := server.NewStreamableHTTPServer(mcpSrv.MCPServer())
	router.Mount("/mcp", httpHandler)

	// Swagger UI and spec.
	router.Mount("/docs", NewDocsRouter("/docs/openapi.json").Routes())
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
