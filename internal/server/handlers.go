package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/internal/config"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/internal/observability"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/render"
)

// GraphSearcher runs a search for the graph endpoint.
type GraphSearcher interface {
	Search(ctx context.Context, c peraturan.Criteria) (*models.GraphResult, error)
}

// ValueLister lists the sorted distinct values of one property.
type ValueLister interface {
	Values(ctx context.Context, field string) ([]string, error)
}

// Lookup describes one autocomplete endpoint.
type Lookup struct {
	// Path is the route, e.g. "/topik".
	Path string
	// Name appears in logs and in the error message.
	Name   string
	Field  string
	Lister ValueLister
}

// HealthCheck reports that the process is up. It does not touch the database.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleEnv relays the connection settings verbatim.
func HandleEnv(settings config.ConnectionSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, settings)
	}
}

// HandleLookup serves the distinct values of one property as a JSON array.
// Failures are logged and answered with a 500 and a fixed message.
func HandleLookup(l Lookup, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withTimeout(c.Request.Context(), timeout)
		defer cancel()

		logger.Info("Fetching " + l.Name + " from Neo4j")
		start := time.Now()
		values, err := l.Lister.Values(ctx, l.Field)
		if metrics != nil {
			metrics.ObserveQuery("lookup", start, err)
		}
		if err != nil {
			logger.Error("Error fetching "+l.Name, "error", err)
			c.String(http.StatusInternalServerError, "Error fetching "+l.Name)
			return
		}
		c.JSON(http.StatusOK, values)
	}
}

// HandleGraph runs a search built from the query string and returns the
// decorated view. An empty result is a 200 with empty arrays.
func HandleGraph(searcher GraphSearcher, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var criteria peraturan.Criteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := withTimeout(c.Request.Context(), timeout)
		defer cancel()

		start := time.Now()
		graph, err := searcher.Search(ctx, criteria)
		if metrics != nil {
			metrics.ObserveQuery("graph", start, err)
		}
		if err != nil {
			status := searchErrorStatus(err)
			logger.Error("Graph search failed", "status", status, "error", err)
			c.JSON(status, gin.H{"error": http.StatusText(status) + ": " + errorMessage(err, status)})
			return
		}

		view := render.Decorate(graph, nil)
		nodes, edges := view.Counts()
		if metrics != nil {
			metrics.GraphNodes.Observe(float64(nodes))
			if nodes == 0 && edges == 0 {
				metrics.EmptyResultsTotal.Inc()
			}
		}
		logger.Debug("Graph search completed", "nodes", nodes, "edges", edges)
		c.JSON(http.StatusOK, view)
	}
}

func searchErrorStatus(err error) int {
	if errors.Is(err, peraturan.ErrRawQueryDisabled) {
		return http.StatusForbidden
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) && strings.HasPrefix(neoErr.Code, "Neo.ClientError.") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorMessage exposes client errors (bad Cypher, disabled raw queries) and
// hides the details of server side failures.
func errorMessage(err error, status int) string {
	if status == http.StatusBadRequest || status == http.StatusForbidden {
		return err.Error()
	}
	return "graph query failed"
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
