// Package load runs the load phase: normalized files in, documents batched
// into the configured store, partial failure tolerated and accounted for.
package load

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"moviesetl/internal/config"
	"moviesetl/internal/metrics"
	"moviesetl/internal/model"
	csvp "moviesetl/internal/parser/csv"
	"moviesetl/internal/storage"
	"moviesetl/internal/transform"
)

// Logger is the minimal logging interface used by the loader.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Default batch sizes per entity: small for wide documents, large for narrow
// high-volume ones.
const (
	BatchMoviesDefault   = 2000
	BatchCreditsDefault  = 2000
	BatchLinksDefault    = 5000
	BatchRatingsDefault  = 50000
	BatchKeywordsDefault = 2000
)

// Stats aggregates one entity's load. Every row read lands in exactly one
// bucket: DecodeErrors, Skipped, or one of the three Bulk counters.
type Stats struct {
	Entity string

	// Rows counts rows read from the normalized file.
	Rows int64
	// DecodeErrors counts rows that failed to decode into a document.
	DecodeErrors int64
	// Skipped counts documents rejected by defensive load-time checks.
	Skipped int64
	// Batches counts bulk submissions, trailing partial batch included.
	Batches int64

	Bulk storage.BulkResult
}

func (s *Stats) log(logf func(format string, v ...any), dur time.Duration) {
	logf("stage=load entity=%s rows=%d inserted=%d duplicates=%d errors=%d decode_errors=%d skipped=%d batches=%d duration=%s",
		s.Entity, s.Rows, s.Bulk.Inserted, s.Bulk.Duplicates, s.Bulk.Errors,
		s.DecodeErrors, s.Skipped, s.Batches, dur.Truncate(time.Millisecond))
}

// Loader executes the load phase against an open store.
type Loader struct {
	Cfg    config.Load
	Store  storage.Store
	Logger Logger
}

func (l *Loader) logger() func(format string, v ...any) {
	if l.Logger == nil {
		lg := log.New(discardWriter{}, "", 0)
		return lg.Printf
	}
	return l.Logger.Printf
}

type discardWriter struct{}

func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }

// Result is the phase summary: one Stats per entity actually loaded.
type Result struct {
	Stats []*Stats
}

func batchSize(configured, def int) int {
	if configured > 0 {
		return configured
	}
	return def
}

// Run loads every normalized dataset present in the data directory, then
// declares the index set. The keyword files are optional; every other dataset
// is mandatory. With Reset set, target collections are dropped first.
func (l *Loader) Run(ctx context.Context) (*Result, error) {
	logf := l.logger()
	res := &Result{}

	if l.Cfg.Reset {
		for _, coll := range []string{
			model.MoviesCollection, model.CreditsCollection, model.LinksCollection,
			model.RatingsCollection, model.KeywordsCollection, model.KeywordsExplodedCollection,
		} {
			if err := l.Store.Drop(ctx, coll); err != nil {
				return res, fmt.Errorf("reset %s: %w", coll, err)
			}
		}
		logf("stage=load reset=done")
	}

	maxRuntime := l.Cfg.MaxRuntime
	if maxRuntime <= 0 {
		maxRuntime = config.MaxRuntimeDefault
	}

	steps := []struct {
		entity     string
		collection string
		file       string
		columns    []string
		batch      int
		optional   bool
		decode     func(v []string) (storage.Document, error)
	}{
		{
			entity:     "movies",
			collection: model.MoviesCollection,
			file:       model.MoviesCleanFile,
			columns:    transform.MovieColumns,
			batch:      batchSize(l.Cfg.BatchMovies, BatchMoviesDefault),
			decode: func(v []string) (storage.Document, error) {
				doc, err := decodeMovie(v)
				if err != nil {
					return nil, err
				}
				// Revalidated here to protect the store even when the
				// cleaning phase was skipped or ran with other settings.
				if doc.Runtime != nil && *doc.Runtime > float64(maxRuntime) {
					return nil, nil
				}
				return doc, nil
			},
		},
		{
			entity:     "credits",
			collection: model.CreditsCollection,
			file:       model.CreditsCleanFile,
			columns:    transform.CreditColumns,
			batch:      batchSize(l.Cfg.BatchCredits, BatchCreditsDefault),
			decode: func(v []string) (storage.Document, error) {
				return normalize(decodeCredit(v))
			},
		},
		{
			entity:     "links",
			collection: model.LinksCollection,
			file:       model.LinksCleanFile,
			columns:    transform.LinkColumns,
			batch:      batchSize(l.Cfg.BatchLinks, BatchLinksDefault),
			decode: func(v []string) (storage.Document, error) {
				return normalize(decodeLink(v))
			},
		},
		{
			entity:     "ratings",
			collection: model.RatingsCollection,
			file:       model.RatingsCleanFile,
			columns:    transform.RatingColumns,
			batch:      batchSize(l.Cfg.BatchRatings, BatchRatingsDefault),
			decode: func(v []string) (storage.Document, error) {
				return normalize(decodeRating(v))
			},
		},
		{
			entity:     "keywords",
			collection: model.KeywordsCollection,
			file:       model.KeywordsCleanFile,
			columns:    transform.KeywordColumns,
			batch:      batchSize(l.Cfg.BatchKeywords, BatchKeywordsDefault),
			optional:   true,
			decode: func(v []string) (storage.Document, error) {
				return normalize(decodeKeyword(v))
			},
		},
		{
			entity:     "keywords_exploded",
			collection: model.KeywordsExplodedCollection,
			file:       model.KeywordsExplodedFile,
			columns:    transform.ExplodedKeywordColumns,
			batch:      batchSize(l.Cfg.BatchKeywords, BatchKeywordsDefault),
			optional:   true,
			decode: func(v []string) (storage.Document, error) {
				return normalize(decodeExplodedKeyword(v))
			},
		},
	}

	for _, step := range steps {
		path := filepath.Join(l.Cfg.DataDir, step.file)
		if step.optional && !fileExists(path) {
			logf("stage=load entity=%s status=skipped reason=file_missing", step.entity)
			continue
		}

		start := time.Now()
		st, err := l.loadEntity(ctx, step.entity, step.collection, path, step.columns, step.batch, step.decode)
		if err != nil {
			return res, fmt.Errorf("load %s: %w", step.entity, err)
		}
		st.log(logf, time.Since(start))
		res.Stats = append(res.Stats, st)
	}

	if err := l.Store.EnsureIndexes(ctx, storage.Indexes()); err != nil {
		return res, fmt.Errorf("ensure indexes: %w", err)
	}
	logf("stage=load indexes=ensured")

	return res, nil
}

// normalize collapses a typed decode result onto the Document interface
// without the typed-nil trap.
func normalize[T storage.Document](doc T, err error) (storage.Document, error) {
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (l *Loader) loadEntity(
	ctx context.Context,
	entity, collection, path string,
	columns []string,
	batch int,
	decode func(v []string) (storage.Document, error),
) (*Stats, error) {
	st := &Stats{Entity: entity}
	logf := l.logger()

	opt := csvp.Options{RequireColumns: columns}

	// Chunk size doubles as batch size: every full chunk is one bulk
	// submission, and the reader's trailing partial chunk is the flush.
	err := csvp.StreamChunks(ctx, path, columns, opt, batch,
		func(chunk []*transform.Row) error {
			docs := make([]storage.Document, 0, len(chunk))
			for _, r := range chunk {
				st.Rows++
				doc, err := decode(r.V)
				if err != nil {
					st.DecodeErrors++
					metrics.IncCounter("etl_documents_total", 1,
						metrics.Labels{"entity": entity, "outcome": "decode_error"})
					if st.DecodeErrors <= 5 {
						logf("stage=load entity=%s line=%d decode_error=%v", entity, r.Line, err)
					}
					continue
				}
				if doc == nil {
					st.Skipped++
					metrics.IncCounter("etl_documents_total", 1,
						metrics.Labels{"entity": entity, "outcome": "skipped"})
					continue
				}
				docs = append(docs, doc)
			}
			return l.submit(ctx, st, collection, docs)
		},
		func(line int, err error) {
			st.DecodeErrors++
			if st.DecodeErrors <= 5 {
				logf("stage=load entity=%s line=%d parse_error=%v", entity, line, err)
			}
		},
	)
	return st, err
}

func (l *Loader) submit(ctx context.Context, st *Stats, collection string, docs []storage.Document) error {
	if len(docs) == 0 {
		return nil
	}

	start := time.Now()
	res, err := l.Store.InsertMany(ctx, collection, docs)
	if err != nil {
		return err
	}
	st.Batches++
	st.Bulk.Add(res)

	labels := metrics.Labels{"entity": st.Entity}
	metrics.IncCounter("etl_batches_total", 1, labels)
	metrics.ObserveHistogram("etl_batch_duration_seconds", time.Since(start).Seconds(), labels)
	metrics.IncCounter("etl_documents_total", float64(res.Inserted), metrics.Labels{"entity": st.Entity, "outcome": "inserted"})
	metrics.IncCounter("etl_documents_total", float64(res.Duplicates), metrics.Labels{"entity": st.Entity, "outcome": "duplicate"})
	metrics.IncCounter("etl_documents_total", float64(res.Errors), metrics.Labels{"entity": st.Entity, "outcome": "error"})
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
