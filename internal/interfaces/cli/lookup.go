package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/interfaces/http/handlers"
	"github.com/turtacn/gem-thermo/pkg/client"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// cacheSource answers lookups from a local snapshot or a remote server.
type cacheSource interface {
	Stats(ctx context.Context) (interface{}, error)
	Reaction(ctx context.Context, id string) (interface{}, error)
	Compound(ctx context.Context, key string) (interface{}, error)
	MetaboliteCompound(ctx context.Context, id string) (interface{}, error)
	FindMetabolites(ctx context.Context, query string) (interface{}, error)
}

type lookupOptions struct {
	server    string
	outputDir string
	timeout   time.Duration
}

// NewLookupCmd queries the caches.
func NewLookupCmd() *cobra.Command {
	opts := &lookupOptions{}
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Query the caches on disk or on a running server",
		Long: "Query the compound and reaction caches.  Without --server the documents in\n" +
			"the output directory are read directly.",
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", "", "base URL of a running `gemthermo serve`")
	cmd.PersistentFlags().StringVarP(&opts.outputDir, "output-dir", "d", "", "directory of the cache documents (overrides pipeline.output_dir)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout when --server is set")

	sub := func(use, short string, nargs int, call func(ctx context.Context, src cacheSource, args []string) (interface{}, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(nargs),
			RunE: func(cmd *cobra.Command, args []string) error {
				src, err := opts.source(cmd)
				if err != nil {
					return err
				}
				out, err := call(cmd.Context(), src, args)
				if err != nil {
					return err
				}
				return PrintResult(cmd, out)
			},
		}
	}

	cmd.AddCommand(
		sub("stats", "Show cache sizes and load state", 0,
			func(ctx context.Context, src cacheSource, _ []string) (interface{}, error) { return src.Stats(ctx) }),
		sub("reaction <id>", "Show the thermodynamic entry of a reaction", 1,
			func(ctx context.Context, src cacheSource, a []string) (interface{}, error) { return src.Reaction(ctx, a[0]) }),
		sub("compound <key>", "Show a compound by cache key", 1,
			func(ctx context.Context, src cacheSource, a []string) (interface{}, error) { return src.Compound(ctx, a[0]) }),
		sub("metabolite <id>", "Show the compound a model metabolite belongs to", 1,
			func(ctx context.Context, src cacheSource, a []string) (interface{}, error) {
				return src.MetaboliteCompound(ctx, a[0])
			}),
		sub("search <query>", "Find metabolites by KEGG, ChEBI, MetaNetX or BiGG id, or by name", 1,
			func(ctx context.Context, src cacheSource, a []string) (interface{}, error) {
				return src.FindMetabolites(ctx, a[0])
			}),
	)
	return cmd
}

func (o *lookupOptions) source(cmd *cobra.Command) (cacheSource, error) {
	if o.server != "" {
		c, err := client.NewClient(o.server, client.WithTimeout(o.timeout), client.WithRetryMax(1))
		if err != nil {
			return nil, err
		}
		return remoteSource{c: c}, nil
	}

	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	p := cliCtx.Config.Pipeline
	setIf(&p.OutputDir, o.outputDir)
	return newLocalSource(p)
}

// ─────────────────────────────────────────────────────────────────────────────
// Local snapshot
// ─────────────────────────────────────────────────────────────────────────────

type localSource struct {
	s *cache.Snapshot
}

func newLocalSource(p config.PipelineConfig) (localSource, error) {
	s, err := cache.LoadSnapshot(p.CompoundsPath(), p.ReactionsPath())
	if err != nil {
		return localSource{}, err
	}
	return localSource{s: s}, nil
}

func (l localSource) Stats(context.Context) (interface{}, error) {
	return l.s.Stats(), nil
}

func (l localSource) Reaction(_ context.Context, id string) (interface{}, error) {
	if !l.s.Stats().Available {
		return nil, errors.New(errors.ErrCodeCacheNotLoaded, "no reaction cache found; run `gemthermo reactions` first")
	}
	return l.s.Require(id)
}

func (l localSource) Compound(_ context.Context, key string) (interface{}, error) {
	e, ok := l.s.GetCompound(key)
	if !ok {
		return nil, errors.New(errors.ErrCodeCacheEntryNotFound, "no cached compound").WithDetail(key)
	}
	return e, nil
}

func (l localSource) MetaboliteCompound(_ context.Context, id string) (interface{}, error) {
	key, e, ok := l.s.GetCompoundByMetaboliteID(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeCacheEntryNotFound, "metabolite not in compound cache").WithDetail(id)
	}
	return handlers.MetaboliteCompoundResponse{MetaboliteID: id, Key: key, Compound: e}, nil
}

func (l localSource) FindMetabolites(_ context.Context, query string) (interface{}, error) {
	ids := l.s.FindMetabolites(query)
	if ids == nil {
		ids = []string{}
	}
	return metaboliteList{Query: query, Metabolites: ids}, nil
}

// metaboliteList renders search results one id per row.
type metaboliteList struct {
	Query       string   `json:"query"`
	Metabolites []string `json:"metabolites"`
}

func (m metaboliteList) TableHeaders() []string { return []string{"METABOLITE"} }

func (m metaboliteList) TableRows() [][]string {
	rows := make([][]string, 0, len(m.Metabolites))
	for _, id := range m.Metabolites {
		rows = append(rows, []string{id})
	}
	return rows
}

// ─────────────────────────────────────────────────────────────────────────────
// Remote server
// ─────────────────────────────────────────────────────────────────────────────

type remoteSource struct {
	c *client.Client
}

func (r remoteSource) Stats(ctx context.Context) (interface{}, error) {
	return r.c.Stats(ctx)
}

func (r remoteSource) Reaction(ctx context.Context, id string) (interface{}, error) {
	return r.c.Reaction(ctx, id)
}

func (r remoteSource) Compound(ctx context.Context, key string) (interface{}, error) {
	return r.c.Compound(ctx, key)
}

func (r remoteSource) MetaboliteCompound(ctx context.Context, id string) (interface{}, error) {
	return r.c.MetaboliteCompound(ctx, id)
}

func (r remoteSource) FindMetabolites(ctx context.Context, query string) (interface{}, error) {
	ids, err := r.c.FindMetabolites(ctx, query)
	if err != nil {
		return nil, err
	}
	return metaboliteList{Query: query, Metabolites: ids}, nil
}

//Personal.AI order the ending
