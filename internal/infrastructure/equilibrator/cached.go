package equilibrator

import (
	"context"
	"time"

	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/infrastructure/database/redis"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// Key namespaces of memoized lookups.
const (
	keyByIdentifier = "lookup:id:"
	keyByName       = "lookup:name:"
)

// CachedLookup memoizes a compound.Lookup in Redis.  Hits and misses are both
// remembered; failed calls are not, so a flaky service is retried on the
// next run.
type CachedLookup struct {
	next   compound.Lookup
	cache  redis.Cache
	ttl    time.Duration
	logger logging.Logger
}

var _ compound.Lookup = (*CachedLookup)(nil)

// NewCachedLookup wraps next.
func NewCachedLookup(next compound.Lookup, cache redis.Cache, ttl time.Duration, logger logging.Logger) *CachedLookup {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedLookup{next: next, cache: cache, ttl: ttl, logger: logger.Named("lookup-cache")}
}

// FindByIdentifier implements compound.Lookup.
func (l *CachedLookup) FindByIdentifier(ctx context.Context, query string) (*compound.Match, error) {
	return l.memo(ctx, keyByIdentifier+query, func(ctx context.Context) (*compound.Match, error) {
		return l.next.FindByIdentifier(ctx, query)
	})
}

// SearchByName implements compound.Lookup.
func (l *CachedLookup) SearchByName(ctx context.Context, name string) (*compound.Match, error) {
	return l.memo(ctx, keyByName+name, func(ctx context.Context) (*compound.Match, error) {
		return l.next.SearchByName(ctx, name)
	})
}

func (l *CachedLookup) memo(ctx context.Context, key string, call func(context.Context) (*compound.Match, error)) (*compound.Match, error) {
	var m compound.Match
	err := l.cache.GetOrSet(ctx, key, &m, l.ttl, func(ctx context.Context) (interface{}, error) {
		found, err := call(ctx)
		if errors.IsNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, nil
		}
		return found, nil
	})
	switch {
	case err == nil:
		return &m, nil
	case err == redis.ErrCacheMiss:
		return nil, errors.New(errors.ErrCodeCompoundNotFound, "compound not found").WithDetail(key)
	default:
		return nil, err
	}
}

//Personal.AI order the ending
