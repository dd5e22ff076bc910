package compound

import (
	"context"
	"time"

	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// Match is what the knowledge base returns for a successful lookup.
type Match struct {
	ID       string `json:"id,omitempty"`
	InChIKey string `json:"inchi_key,omitempty"`
}

// Lookup is the slice of the external service the resolver needs.  A miss is
// reported as an error for which errors.IsNotFound holds; any other error is
// a failed call.  Both are recorded the same way.
type Lookup interface {
	FindByIdentifier(ctx context.Context, query string) (*Match, error)
	SearchByName(ctx context.Context, name string) (*Match, error)
}

// Strategy is one step of the resolution cascade.
type Strategy interface {
	Source() string
	Query() string
	Attempt(ctx context.Context) (*Match, error)
}

type identifierStrategy struct {
	lookup    Lookup
	candidate Candidate
}

func (s identifierStrategy) Source() string { return s.candidate.Source }
func (s identifierStrategy) Query() string  { return s.candidate.Query }

func (s identifierStrategy) Attempt(ctx context.Context) (*Match, error) {
	m, err := s.lookup.FindByIdentifier(ctx, s.candidate.Query)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New(errors.ErrCodeCompoundNotFound, "compound not found: "+s.candidate.Query)
		}
		return nil, err
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeCompoundNotFound, "compound not found: "+s.candidate.Query)
	}
	return m, nil
}

type nameStrategy struct {
	lookup Lookup
	name   string
}

func (s nameStrategy) Source() string { return SourceNameSearch }
func (s nameStrategy) Query() string  { return s.name }

func (s nameStrategy) Attempt(ctx context.Context) (*Match, error) {
	if s.name == "" {
		return nil, errors.New(errors.ErrCodeCompoundNotFound, "metabolite has no name to search")
	}
	m, err := s.lookup.SearchByName(ctx, s.name)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New(errors.ErrCodeCompoundNotFound, "no match for name: "+s.name)
		}
		return nil, err
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeCompoundNotFound, "no match for name: "+s.name)
	}
	return m, nil
}

// Strategies builds the cascade for g: one strategy per distinct candidate in
// priority order, then the name search.
func Strategies(lookup Lookup, g *Group) []Strategy {
	out := make([]Strategy, 0, len(g.Candidates)+1)
	for _, c := range g.Candidates {
		out = append(out, identifierStrategy{lookup: lookup, candidate: c})
	}
	return append(out, nameStrategy{lookup: lookup, name: g.Name()})
}

// AttemptObserver is notified after every strategy attempt.
type AttemptObserver func(source string, found bool, elapsed time.Duration)

// Resolver walks the cascade for each group.
type Resolver struct {
	lookup   Lookup
	logger   logging.Logger
	observer AttemptObserver
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithAttemptObserver installs fn as the attempt observer.
func WithAttemptObserver(fn AttemptObserver) ResolverOption {
	return func(r *Resolver) { r.observer = fn }
}

// NewResolver builds a Resolver over lookup.
func NewResolver(lookup Lookup, logger logging.Logger, opts ...ResolverOption) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	r := &Resolver{lookup: lookup, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the cascade for g and returns its cache entry.  It never
// fails: every unsuccessful attempt is recorded in Entry.Errors and the
// cascade moves on.  The cascade stops at the first success, so the number of
// service calls is at most len(g.Candidates)+1.
func (r *Resolver) Resolve(ctx context.Context, g *Group) *Entry {
	entry := &Entry{
		Name:        g.Name(),
		Errors:      []AttemptError{},
		Identifiers: NewIdentifierSet(g),
	}

	for _, s := range Strategies(r.lookup, g) {
		start := time.Now()
		m, err := s.Attempt(ctx)
		r.observe(s.Source(), err == nil, time.Since(start))

		if err != nil {
			entry.Errors = append(entry.Errors, AttemptError{
				Source: s.Source(),
				Query:  s.Query(),
				Error:  errors.Describe(err),
				Found:  false,
			})
			r.logger.Debug("compound attempt failed",
				logging.String("group", g.Key),
				logging.String("source", s.Source()),
				logging.String("query", s.Query()),
				logging.Err(err))
			continue
		}

		query, source := s.Query(), s.Source()
		entry.QueriedAs = &query
		entry.QuerySource = &source
		if m.InChIKey != "" {
			key := m.InChIKey
			entry.MatchedInChIKey = &key
		}
		return entry
	}
	return entry
}

func (r *Resolver) observe(source string, found bool, d time.Duration) {
	if r.observer != nil {
		r.observer(source, found, d)
	}
}

//Personal.AI order the ending
