package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/segmap/internal/census"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// for unit tests.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS blocks (
	geoid  TEXT PRIMARY KEY,
	fields TEXT[] NOT NULL
);

CREATE TABLE IF NOT EXISTS loads (
	id        TEXT PRIMARY KEY,
	source    TEXT NOT NULL,
	blocks    INTEGER NOT NULL,
	loaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_loads_loaded_at ON loads(loaded_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveIndex(ctx context.Context, source string, idx census.Index) (*LoadRun, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM blocks`); err != nil {
		return nil, eris.Wrap(err, "postgres: clear blocks")
	}

	for geoid, rec := range idx {
		if _, err := tx.Exec(ctx,
			`INSERT INTO blocks (geoid, fields) VALUES ($1, $2)
			 ON CONFLICT (geoid) DO UPDATE SET fields = EXCLUDED.fields`,
			geoid, []string(rec),
		); err != nil {
			return nil, eris.Wrapf(err, "postgres: insert block %s", geoid)
		}
	}

	run := &LoadRun{
		ID:       uuid.New().String(),
		Source:   source,
		Blocks:   len(idx),
		LoadedAt: time.Now().UTC(),
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO loads (id, source, blocks, loaded_at) VALUES ($1, $2, $3, $4)`,
		run.ID, run.Source, run.Blocks, run.LoadedAt,
	); err != nil {
		return nil, eris.Wrap(err, "postgres: insert load")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit")
	}
	return run, nil
}

func (s *PostgresStore) LoadIndex(ctx context.Context) (census.Index, error) {
	rows, err := s.pool.Query(ctx, `SELECT geoid, fields FROM blocks`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query blocks")
	}
	defer rows.Close()

	idx := make(census.Index)
	for rows.Next() {
		var geoid string
		var fields []string
		if err := rows.Scan(&geoid, &fields); err != nil {
			return nil, eris.Wrap(err, "postgres: scan block")
		}
		idx[geoid] = census.Record(fields)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate blocks")
	}
	return idx, nil
}

func (s *PostgresStore) ListLoads(ctx context.Context) ([]LoadRun, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, source, blocks, loaded_at FROM loads ORDER BY loaded_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query loads")
	}
	defer rows.Close()

	var runs []LoadRun
	for rows.Next() {
		var r LoadRun
		if err := rows.Scan(&r.ID, &r.Source, &r.Blocks, &r.LoadedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan load")
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate loads")
	}
	return runs, nil
}
