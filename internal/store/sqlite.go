package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/segmap/internal/census"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS blocks (
	geoid  TEXT PRIMARY KEY,
	fields TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS loads (
	id        TEXT PRIMARY KEY,
	source    TEXT NOT NULL,
	blocks    INTEGER NOT NULL,
	loaded_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_loads_loaded_at ON loads(loaded_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveIndex(ctx context.Context, source string, idx census.Index) (*LoadRun, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks`); err != nil {
		return nil, eris.Wrap(err, "sqlite: clear blocks")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO blocks (geoid, fields) VALUES (?, ?)`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for geoid, rec := range idx {
		fields, err := json.Marshal([]string(rec))
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: marshal record %s", geoid)
		}
		if _, err := stmt.ExecContext(ctx, geoid, string(fields)); err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert block %s", geoid)
		}
	}

	run := &LoadRun{
		ID:       uuid.New().String(),
		Source:   source,
		Blocks:   len(idx),
		LoadedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO loads (id, source, blocks, loaded_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Source, run.Blocks, run.LoadedAt,
	); err != nil {
		return nil, eris.Wrap(err, "sqlite: insert load")
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}
	return run, nil
}

func (s *SQLiteStore) LoadIndex(ctx context.Context) (census.Index, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT geoid, fields FROM blocks`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query blocks")
	}
	defer rows.Close() //nolint:errcheck

	idx := make(census.Index)
	for rows.Next() {
		var geoid, fields string
		if err := rows.Scan(&geoid, &fields); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan block")
		}
		var rec []string
		if err := json.Unmarshal([]byte(fields), &rec); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal record %s", geoid)
		}
		idx[geoid] = census.Record(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate blocks")
	}
	return idx, nil
}

func (s *SQLiteStore) ListLoads(ctx context.Context) ([]LoadRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, blocks, loaded_at FROM loads ORDER BY loaded_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query loads")
	}
	defer rows.Close() //nolint:errcheck

	var runs []LoadRun
	for rows.Next() {
		var r LoadRun
		if err := rows.Scan(&r.ID, &r.Source, &r.Blocks, &r.LoadedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan load")
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate loads")
	}
	return runs, nil
}
