// Package cli implements the peraturan command line: the HTTP server, a
// terminal search client and document ingestion.
package cli

import (
	"context"
	"log/slog"

	"github.com/saulfrancisco-ruizacevedo/go-peraturan"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/internal/config"
	"github.com/spf13/cobra"
)

var envFile string

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "peraturan",
		Short:         "Browse and search the regulation graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with NEO4J_* settings (optional)")

	root.AddCommand(newServeCmd(), newSearchCmd(), newIngestCmd())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads the configuration and installs the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openRunner connects to Neo4j. When the driver cannot be created the
// returned runner fails every call with that error, so the caller keeps
// working and reports the problem per request.
func openRunner(ctx context.Context, cfg *config.Config, logger *slog.Logger) (peraturan.DBRunner, func()) {
	executor, err := peraturan.NewNeo4jExecutor(
		cfg.Connection.URI,
		cfg.Connection.Username,
		cfg.Connection.Password,
		cfg.Database,
		peraturan.ExecutorOptions{MaxConnectionPoolSize: cfg.MaxPoolSize},
	)
	if err != nil {
		logger.Error("Could not create Neo4j driver", "uri", cfg.Connection.URI, "error", err)
		return peraturan.UnavailableRunner{Err: err}, func() {}
	}

	if err := executor.Verify(ctx); err != nil {
		logger.Warn("Neo4j is not reachable yet", "uri", cfg.Connection.URI, "error", err)
	}

	return executor, func() {
		if err := executor.Close(context.Background()); err != nil {
			logger.Warn("Failed to close Neo4j driver", "error", err)
		}
	}
}

func newManager(runner peraturan.DBRunner, cfg *config.Config) *peraturan.GraphManager {
	builder := peraturan.NewQueryBuilder()
	builder.AllowRawQueries = cfg.AllowRawQueries
	return peraturan.NewGraphManager(runner, builder)
}
