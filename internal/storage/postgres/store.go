// Package postgres implements the document store on Postgres: one table per
// collection, documents as JSONB, identity as the primary key.
//
// Unordered semantics come from a pgx.Batch of single-row
// INSERT ... ON CONFLICT DO NOTHING statements: every document is attempted,
// and RowsAffected()==0 marks an identity collision.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"moviesetl/internal/storage"
)

func init() {
	storage.Register("postgres", New)
}

type store struct {
	pool *pgxpool.Pool
}

// New opens a connection pool over cfg.DSN. The database is selected by the
// DSN itself; cfg.Database is ignored.
func New(ctx context.Context, cfg storage.Config) (storage.Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &store{pool: pool}, nil
}

func (s *store) ensureTable(ctx context.Context, collection string) error {
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, doc JSONB NOT NULL)",
		sqlIdent(collection))
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table %s: %w", collection, err)
	}
	return nil
}

func (s *store) InsertMany(ctx context.Context, collection string, docs []storage.Document) (storage.BulkResult, error) {
	if len(docs) == 0 {
		return storage.BulkResult{}, nil
	}
	if err := s.ensureTable(ctx, collection); err != nil {
		return storage.BulkResult{}, err
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING",
		sqlIdent(collection))

	var res storage.BulkResult
	batch := newInsertBatch(sql)
	for _, d := range docs {
		body, err := json.Marshal(d)
		if err != nil {
			// A document that cannot serialize is a per-document failure,
			// not a batch failure.
			res.Errors++
			continue
		}
		batch.queue(d.DocID(), body)
	}

	br := s.pool.SendBatch(ctx, batch.b)
	for i := 0; i < batch.n; i++ {
		tag, err := br.Exec()
		if err != nil {
			res.Errors++
			continue
		}
		if tag.RowsAffected() == 0 {
			res.Duplicates++
		} else {
			res.Inserted++
		}
	}
	if err := br.Close(); err != nil {
		return res, fmt.Errorf("postgres: insert %s: %w", collection, err)
	}
	return res, nil
}

func (s *store) EnsureIndexes(ctx context.Context, specs []storage.IndexSpec) error {
	for _, spec := range specs {
		if spec.Text {
			// No comparable primitive over a JSONB column set; skip.
			continue
		}
		if err := s.ensureTable(ctx, spec.Collection); err != nil {
			return err
		}

		exprs := make([]string, len(spec.Fields))
		for i, f := range spec.Fields {
			exprs[i] = jsonbExpr(f)
		}

		unique := ""
		if spec.Unique {
			unique = "UNIQUE "
		}
		ddl := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
			unique,
			sqlIdent(spec.Collection+"_"+spec.Name+"_idx"),
			sqlIdent(spec.Collection),
			strings.Join(exprs, ", "))
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("postgres: ensure index %s.%s: %w", spec.Collection, spec.Name, err)
		}
	}
	return nil
}

func (s *store) Drop(ctx context.Context, collection string) error {
	ddl := fmt.Sprintf("DROP TABLE IF EXISTS %s", sqlIdent(collection))
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: drop %s: %w", collection, err)
	}
	return nil
}

func (s *store) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}
