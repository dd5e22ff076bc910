package cli

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/prometheus"
	apihttp "github.com/turtacn/gem-thermo/internal/interfaces/http"
	"github.com/turtacn/gem-thermo/internal/interfaces/http/handlers"
	"github.com/turtacn/gem-thermo/internal/interfaces/http/middleware"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

type serveOptions struct {
	port      int
	outputDir string
	noReload  bool
}

// NewServeCmd serves the cache documents over HTTP.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cache documents over the read-only HTTP API",
		Long: "Serve the compound and reaction caches over HTTP.  The documents are\n" +
			"reloaded whenever a pipeline run rewrites them, unless --no-reload is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			if opts.port != 0 {
				cfg.Server.Port = opts.port
			}
			setIf(&cfg.Pipeline.OutputDir, opts.outputDir)
			return runServe(cmd.Context(), cfg, !opts.noReload)
		},
	}
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "d", "", "directory of the cache documents (overrides pipeline.output_dir)")
	cmd.Flags().BoolVar(&opts.noReload, "no-reload", false, "do not reload the documents when they change")
	return cmd
}

// runServe blocks until ctx is done or the server fails.
func runServe(ctx context.Context, cfg *config.Config, reload bool) error {
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		if s, ok := logger.(logging.Syncer); ok {
			_ = s.Sync()
		}
	}()

	metrics, metricsHandler, err := newMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}

	compoundsPath, reactionsPath := cfg.Pipeline.CompoundsPath(), cfg.Pipeline.ReactionsPath()
	holder := cache.NewHolder(nil)
	load := func() {
		s, err := holder.Reload(compoundsPath, reactionsPath)
		var stats cache.Stats
		if s != nil {
			stats = s.Stats()
		}
		if metrics != nil {
			metrics.RecordSnapshotReload(stats, err)
		}
		if err != nil {
			logger.Error("cache reload failed; keeping the served snapshot", logging.Err(err))
			return
		}
		logger.Info("cache loaded",
			logging.Int("reactions", stats.ReactionsCount),
			logging.Int("compounds", stats.CompoundsCount),
			logging.Bool("available", stats.Available))
	}
	load()

	routerCfg := apihttp.RouterConfig{
		CacheHandler:  handlers.NewCacheHandler(holder),
		HealthHandler: handlers.NewHealthHandler(Version, holder),
		Logger:        logger,
		LoggingConfig: middleware.DefaultLoggingConfig(),
		Mode:          cfg.Server.Mode,
	}
	if metrics != nil {
		routerCfg.Recorder = metrics
		routerCfg.MetricsHandler = metricsHandler
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	srv := apihttp.NewServer(cfg.Server, apihttp.NewRouter(routerCfg), logger)

	var w *fileWatcher
	if reload {
		if err := os.MkdirAll(cfg.Pipeline.OutputDir, 0o755); err != nil {
			return errors.Wrap(err, errors.ErrCodeCacheReadFailed, "create output directory").WithDetail(cfg.Pipeline.OutputDir)
		}
		if w, err = newFileWatcher([]string{compoundsPath, reactionsPath}, cfg.Watch.Debounce, logger); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	if w != nil {
		g.Go(func() error {
			return w.Run(ctx, func(context.Context, []string) { load() })
		})
	}
	return g.Wait()
}

// newMetrics builds the Prometheus metrics, or nils when disabled.
func newMetrics(cfg config.MetricsConfig, logger logging.Logger) (*prometheus.AppMetrics, http.Handler, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return prometheus.NewAppMetrics(collector), collector.Handler(), nil
}

//Personal.AI order the ending
