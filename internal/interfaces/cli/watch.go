package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	apihttp "github.com/turtacn/gem-thermo/internal/interfaces/http"
)

type watchOptions struct {
	pipelineFlags
	metricsPort int
}

// NewWatchCmd rebuilds the caches whenever an input file changes.
func NewWatchCmd() *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the caches whenever the model or a parameter file changes",
		Long: "Build both caches, then watch the model, compartment parameters and redox\n" +
			"couples files and rebuild after every change.  A failed rebuild is logged and\n" +
			"leaves the previous documents in place.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			if err := opts.apply(cfg, true); err != nil {
				return err
			}
			return runWatch(cmd, cfg, cliCtx.Logger, opts.metricsPort)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&opts.metricsPort, "metrics-port", 0, "serve pipeline metrics on this port (requires metrics.enabled)")
	return cmd
}

// watchedInputs lists the files whose change triggers a rebuild.
func watchedInputs(p config.PipelineConfig) []string {
	files := []string{p.ModelPath}
	if p.CompartmentParamsPath != "" {
		files = append(files, p.CompartmentParamsPath)
	}
	if path := p.RedoxCouplesPathFor(p.CompoundsPath()); path != "" {
		files = append(files, path)
	}
	return files
}

func runWatch(cmd *cobra.Command, cfg *config.Config, logger logging.Logger, metricsPort int) error {
	var pm pipeline.Metrics = pipeline.NopMetrics()
	var metricsHandler http.Handler
	if metricsPort > 0 {
		m, h, err := newMetrics(cfg.Metrics, logger)
		if err != nil {
			return err
		}
		if m == nil {
			logger.Warn("--metrics-port ignored because metrics.enabled is false")
		} else {
			pm, metricsHandler = m, h
		}
	}

	w, err := newFileWatcher(watchedInputs(cfg.Pipeline), cfg.Watch.Debounce, logger)
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context) {
		a, err := buildOnce(ctx, cfg, logger, pm, pipeline.StageAll)
		if err != nil {
			logger.Error("rebuild failed; previous caches left in place", logging.Err(err))
			return
		}
		if err := PrintResult(cmd, newRunResult(a, cfg.Pipeline)); err != nil {
			logger.Warn("failed to print run result", logging.Err(err))
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	if metricsHandler != nil {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metricsHandler)
		srv := apihttp.NewServer(config.ServerConfig{Port: metricsPort, ShutdownTimeout: cfg.Server.ShutdownTimeout}, mux, logger)
		g.Go(func() error { return srv.ListenAndServe(ctx) })
	}
	g.Go(func() error {
		rebuild(ctx)
		return w.Run(ctx, func(ctx context.Context, changed []string) {
			logger.Info("inputs changed; rebuilding", logging.Strings("files", changed))
			rebuild(ctx)
		})
	})
	return g.Wait()
}

//Personal.AI order the ending
