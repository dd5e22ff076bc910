// Package repositories holds the PostgreSQL sinks of the cache pipeline.
package repositories

import (
	"context"
	"database/sql"

	json "github.com/goccy/go-json"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/internal/infrastructure/database/postgres"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

const (
	insertRunSQL = `INSERT INTO cache_runs (
			run_id, model_id, stage, started_at, finished_at,
			compound_summary, reaction_summary
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`

	insertCompoundSQL = `INSERT INTO compound_entries (
			run_id, cache_key, position, name, queried_as, query_source, entry
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`

	insertReactionSQL = `INSERT INTO reaction_entries (
			run_id, reaction_id, position, method, dg_prime, uncertainty, entry
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`
)

// CacheRunRepository stores each pipeline run with its entries.  It is an
// optional pipeline sink.
type CacheRunRepository struct {
	conn *postgres.Connection
	log  logging.Logger
}

var _ pipeline.Publisher = (*CacheRunRepository)(nil)

// NewCacheRunRepository builds the repository over conn.
func NewCacheRunRepository(conn *postgres.Connection, log logging.Logger) *CacheRunRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &CacheRunRepository{conn: conn, log: log}
}

// Name implements pipeline.Publisher.
func (r *CacheRunRepository) Name() string { return "postgres" }

// Publish inserts the run row and every entry in a single transaction.
func (r *CacheRunRepository) Publish(ctx context.Context, a *pipeline.Artifact) error {
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := r.insertRun(ctx, tx, a); err != nil {
		return err
	}
	if a.HasCompounds() {
		if err := r.insertCompounds(ctx, tx, a); err != nil {
			return err
		}
	}
	if a.HasReactions() {
		if err := r.insertReactions(ctx, tx, a); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit cache run")
	}

	r.log.Info("cache run stored",
		logging.String("run_id", a.RunID.String()),
		logging.String("stage", a.Stage),
		logging.Int("compounds", a.Compounds.Len()),
		logging.Int("reactions", a.Reactions.Len()))
	return nil
}

func (r *CacheRunRepository) insertRun(ctx context.Context, q queryExecutor, a *pipeline.Artifact) error {
	compoundSummary, err := marshalNullable(a.CompoundSummary != nil, a.CompoundSummary)
	if err != nil {
		return err
	}
	reactionSummary, err := marshalNullable(a.ReactionSummary != nil, a.ReactionSummary)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, insertRunSQL,
		a.RunID.String(), a.ModelID, a.Stage,
		a.StartedAt.Time(), a.FinishedAt.Time(),
		compoundSummary, reactionSummary,
	)
	if err != nil {
		r.log.Error("failed to insert cache run", logging.String("run_id", a.RunID.String()), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert cache run")
	}
	return nil
}

func (r *CacheRunRepository) insertCompounds(ctx context.Context, q queryExecutor, a *pipeline.Artifact) error {
	stmt, err := q.PrepareContext(ctx, insertCompoundSQL)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to prepare compound insert")
	}
	defer stmt.Close()

	pos := 0
	a.Compounds.Range(func(key string, e *compound.Entry) bool {
		var doc []byte
		if doc, err = json.Marshal(e); err != nil {
			err = errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to encode compound entry").WithDetail(key)
			return false
		}
		if _, err = stmt.ExecContext(ctx, a.RunID.String(), key, pos,
			e.Name, nullableString(e.QueriedAs), nullableString(e.QuerySource), doc); err != nil {
			err = errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert compound entry").WithDetail(key)
			return false
		}
		pos++
		return true
	})
	return err
}

func (r *CacheRunRepository) insertReactions(ctx context.Context, q queryExecutor, a *pipeline.Artifact) error {
	stmt, err := q.PrepareContext(ctx, insertReactionSQL)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to prepare reaction insert")
	}
	defer stmt.Close()

	pos := 0
	a.Reactions.Range(func(id string, e *thermo.Entry) bool {
		var doc []byte
		if doc, err = json.Marshal(e); err != nil {
			err = errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to encode reaction entry").WithDetail(id)
			return false
		}
		t := e.Thermodynamics
		if _, err = stmt.ExecContext(ctx, a.RunID.String(), id, pos,
			string(t.Method()), nullableFloat(t.DGPrime), nullableFloat(t.Uncertainty), doc); err != nil {
			err = errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert reaction entry").WithDetail(id)
			return false
		}
		pos++
		return true
	})
	return err
}

// marshalNullable encodes v, or returns SQL NULL when present is false.
func marshalNullable(present bool, v interface{}) (interface{}, error) {
	if !present {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to encode summary")
	}
	return b, nil
}

//Personal.AI order the ending
