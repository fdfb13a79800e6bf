// Package sqlite implements the document store on SQLite: one table per
// collection, documents as JSON text, identity as the primary key.
//
// INSERT OR IGNORE gives the duplicate-tolerant contract: it relies on the
// PRIMARY KEY constraint, and a RowsAffected of zero marks the collision. The
// backend doubles as the loader's integration-test store, since a DSN of
// ":memory:" or a file under t.TempDir() needs no server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"moviesetl/internal/storage"
)

func init() {
	storage.Register("sqlite", New)
}

type store struct {
	db *sql.DB
}

// New opens the database file (or ":memory:") named by cfg.DSN.
// cfg.Database is ignored; SQLite has no database selection beyond the file.
func New(ctx context.Context, cfg storage.Config) (storage.Store, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &store{db: db}, nil
}

func sqlIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *store) ensureTable(ctx context.Context, collection string) error {
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, doc TEXT NOT NULL)",
		sqlIdent(collection))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create table %s: %w", collection, err)
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

	stmt, err := s.db.PrepareContext(ctx, fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (id, doc) VALUES (?, ?)", sqlIdent(collection)))
	if err != nil {
		return storage.BulkResult{}, fmt.Errorf("sqlite: prepare insert %s: %w", collection, err)
	}
	defer stmt.Close()

	var res storage.BulkResult
	for _, d := range docs {
		body, err := json.Marshal(d)
		if err != nil {
			res.Errors++
			continue
		}
		r, err := stmt.ExecContext(ctx, d.DocID(), string(body))
		if err != nil {
			res.Errors++
			continue
		}
		n, err := r.RowsAffected()
		if err != nil {
			return res, fmt.Errorf("sqlite: insert %s: %w", collection, err)
		}
		if n == 0 {
			res.Duplicates++
		} else {
			res.Inserted++
		}
	}
	return res, nil
}

func (s *store) EnsureIndexes(ctx context.Context, specs []storage.IndexSpec) error {
	for _, spec := range specs {
		if spec.Text {
			// No comparable primitive over a JSON column set; skip.
			continue
		}
		if err := s.ensureTable(ctx, spec.Collection); err != nil {
			return err
		}

		exprs := make([]string, len(spec.Fields))
		for i, f := range spec.Fields {
			exprs[i] = fmt.Sprintf("json_extract(doc, '$.%s')", f)
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
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("sqlite: ensure index %s.%s: %w", spec.Collection, spec.Name, err)
		}
	}
	return nil
}

func (s *store) Drop(ctx context.Context, collection string) error {
	ddl := fmt.Sprintf("DROP TABLE IF EXISTS %s", sqlIdent(collection))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: drop %s: %w", collection, err)
	}
	return nil
}

func (s *store) Close(ctx context.Context) error {
	return s.db.Close()
}
