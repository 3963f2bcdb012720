// Package server exposes the regulation graph over HTTP: the connection
// settings relay, the autocomplete lookups, graph search and the static
// browser application.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/internal/config"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/internal/observability"
)

// Deps are the collaborators of the HTTP surface.
type Deps struct {
	Settings     config.ConnectionSettings
	Searcher     GraphSearcher
	Lookups      []Lookup
	Metrics      *observability.Metrics
	Logger       *slog.Logger
	StaticDir    string
	QueryTimeout time.Duration
}

// SetupRoutes registers every route on router.
func SetupRoutes(router *gin.Engine, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router.GET("/health", HealthCheck)
	router.GET("/env", HandleEnv(d.Settings))
	if d.Searcher != nil {
		router.GET("/graph", HandleGraph(d.Searcher, d.QueryTimeout, d.Metrics, logger))
	}
	for _, l := range d.Lookups {
		router.GET(l.Path, HandleLookup(l, d.QueryTimeout, d.Metrics, logger))
	}
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// Static files are served for every path not matched above, so "/"
	// resolves to index.html.
	if d.StaticDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(d.StaticDir))))
	}
}

// NewRouter returns a gin engine with recovery, request logging, metrics and all routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	router.Use(gin.Recovery(), RequestLogger(logger))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
	}
	SetupRoutes(router, d)
	return router
}

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
