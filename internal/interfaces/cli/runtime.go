package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/model"
	"github.com/turtacn/gem-thermo/internal/infrastructure/database/postgres"
	"github.com/turtacn/gem-thermo/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/gem-thermo/internal/infrastructure/database/redis"
	"github.com/turtacn/gem-thermo/internal/infrastructure/equilibrator"
	"github.com/turtacn/gem-thermo/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/internal/infrastructure/storage/minio"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// pipelineFlags override the pipeline section for one invocation.
type pipelineFlags struct {
	modelPath         string
	modelName         string
	outputDir         string
	compartmentParams string
	redoxCouples      string
	equilibratorURL   string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.modelPath, "model", "m", "", "cobra JSON model (overrides pipeline.model_path)")
	fl.StringVar(&f.modelName, "model-name", "", "entry of the compartment parameters file (default: model id)")
	fl.StringVarP(&f.outputDir, "output-dir", "d", "", "directory of the cache documents (overrides pipeline.output_dir)")
	fl.StringVar(&f.compartmentParams, "compartment-params", "", "compartment parameters JSON")
	fl.StringVar(&f.redoxCouples, "redox-couples", "", "redox couples JSON (default: redox_couples.json next to the compound cache)")
	fl.StringVar(&f.equilibratorURL, "equilibrator-url", "", "estimation service base URL")
}

// apply copies the set flags onto cfg.  requireModel rejects a config
// without a model path.
func (f *pipelineFlags) apply(cfg *config.Config, requireModel bool) error {
	p := &cfg.Pipeline
	setIf(&p.ModelPath, f.modelPath)
	setIf(&p.ModelName, f.modelName)
	setIf(&p.OutputDir, f.outputDir)
	setIf(&p.CompartmentParamsPath, f.compartmentParams)
	setIf(&p.RedoxCouplesPath, f.redoxCouples)
	setIf(&cfg.Equilibrator.BaseURL, f.equilibratorURL)

	if requireModel && p.ModelPath == "" {
		return errors.InvalidConfig("no model configured; pass --model or set pipeline.model_path")
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Pipeline runtime
// ─────────────────────────────────────────────────────────────────────────────

// pipelineRuntime owns the clients of a cache build: the estimation service,
// the optional lookup memo and every configured sink.
type pipelineRuntime struct {
	Builder pipeline.CacheBuilder
	Sinks   []string

	logger  logging.Logger
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// newPipelineRuntime wires a builder for m.  A configured sink that cannot be
// reached fails here, before any work is done; once running, sink failures
// are only recorded.
func newPipelineRuntime(ctx context.Context, cfg *config.Config, m *model.Model, logger logging.Logger, metrics pipeline.Metrics) (*pipelineRuntime, error) {
	conds, err := config.LoadConditions(cfg.Pipeline, m.ID, logger)
	if err != nil {
		return nil, err
	}

	eq, err := equilibrator.NewClient(cfg.Equilibrator, logger)
	if err != nil {
		return nil, err
	}

	rt := &pipelineRuntime{logger: logger}
	var lookup compound.Lookup = eq
	if cfg.Equilibrator.CacheLookups {
		lookup = rt.memoize(cfg, eq)
	}

	sinks, err := rt.openSinks(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Builder = pipeline.NewCacheBuilder(lookup, eq, conds, logger,
		pipeline.WithPrimaryPublisher(pipeline.NewFileWriter(cfg.Pipeline.CompoundsPath(), cfg.Pipeline.ReactionsPath())),
		pipeline.WithPublishers(sinks...),
		pipeline.WithMetrics(metrics),
		pipeline.WithHighUncertaintyThreshold(cfg.Pipeline.HighUncertaintyThreshold),
	)
	return rt, nil
}

// memoize wraps lookup in the Redis memo.  An unreachable Redis only costs
// speed, so the build continues unmemoized.
func (rt *pipelineRuntime) memoize(cfg *config.Config, lookup compound.Lookup) compound.Lookup {
	rc, err := redis.NewClient(cfg.Redis, rt.logger)
	if err != nil {
		rt.logger.Warn("lookup memo unavailable; resolving without it", logging.Err(err))
		return lookup
	}
	rt.onClose("redis", rc.Close)

	memo := redis.NewRedisCache(rc, rt.logger,
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithDefaultTTL(cfg.Equilibrator.LookupTTL),
		redis.WithNullCacheTTL(cfg.Equilibrator.LookupTTL))
	return equilibrator.NewCachedLookup(lookup, memo, cfg.Equilibrator.LookupTTL, rt.logger)
}

func (rt *pipelineRuntime) openSinks(ctx context.Context, cfg *config.Config) ([]pipeline.Publisher, error) {
	var sinks []pipeline.Publisher

	if cfg.Database.Enabled {
		conn, err := postgres.NewConnection(cfg.Database, rt.logger)
		if err != nil {
			return nil, err
		}
		rt.onClose("postgres", conn.Close)
		sinks = append(sinks, repositories.NewCacheRunRepository(conn, rt.logger))
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewClient(cfg.MinIO, rt.logger)
		if err != nil {
			return nil, err
		}
		rt.onClose("minio", mc.Close)
		sinks = append(sinks, minio.NewArtifactStore(mc, rt.logger))
	}

	if cfg.Kafka.Enabled {
		if err := kafka.ValidateProducerConfig(cfg.Kafka); err != nil {
			return nil, err
		}
		p, err := kafka.NewProducer(cfg.Kafka, rt.logger)
		if err != nil {
			return nil, err
		}
		rt.onClose("kafka", p.Close)
		sinks = append(sinks, p)
	}

	for _, s := range sinks {
		rt.Sinks = append(rt.Sinks, s.Name())
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return sinks, nil
}

func (rt *pipelineRuntime) onClose(name string, fn func() error) {
	rt.closers = append(rt.closers, namedCloser{name: name, close: fn})
}

// Close releases every client in reverse order of opening.
func (rt *pipelineRuntime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		c := rt.closers[i]
		if err := c.close(); err != nil {
			rt.logger.Warn("failed to close client", logging.String("client", c.name), logging.Err(err))
		}
	}
	rt.closers = nil
}

//Personal.AI order the ending
