package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/internal/observability"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser application and its API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			ctx := cmd.Context()
			runner, closeRunner := openRunner(ctx, cfg, logger)
			defer closeRunner()
			gm := newManager(runner, cfg)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			deps := server.Deps{
				Settings:     cfg.Connection,
				Searcher:     gm,
				Metrics:      observability.NewMetrics(reg),
				Logger:       logger,
				StaticDir:    cfg.StaticDir,
				QueryTimeout: cfg.QueryTimeout,
			}
			if cfg.LookupEndpoints {
				deps.Lookups, err = server.DefaultLookups(gm)
				if err != nil {
					return err
				}
			}

			return server.Run(ctx, cfg.Addr(), server.NewRouter(deps), logger)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}
