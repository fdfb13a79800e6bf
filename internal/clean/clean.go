// Package clean runs the normalization-and-dedup phase: raw delimited files
// in, canonical deduplicated files out, one bounded chunk at a time.
package clean

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"moviesetl/internal/config"
	"moviesetl/internal/metrics"
	"moviesetl/internal/model"
)

// Logger is the minimal logging interface used by the cleaning pipeline.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Stats aggregates row-level outcomes for one entity run. Row-level problems
// are never errors; they end up here and in the metrics backend.
type Stats struct {
	Entity      string
	RowsIn      int64
	RowsKept    int64
	ParseErrors int64

	// Drops tallies dropped rows by reason.
	Drops map[string]int64
}

func newStats(entity string) *Stats {
	return &Stats{Entity: entity, Drops: make(map[string]int64)}
}

func (s *Stats) drop(reason string) {
	s.Drops[reason]++
	metrics.IncCounter("etl_rows_total", 1, metrics.Labels{"entity": s.Entity, "outcome": "dropped"})
}

func (s *Stats) keep() {
	s.RowsKept++
	metrics.IncCounter("etl_rows_total", 1, metrics.Labels{"entity": s.Entity, "outcome": "kept"})
}

// Dropped returns the total number of dropped rows across all reasons.
func (s *Stats) Dropped() int64 {
	var n int64
	for _, v := range s.Drops {
		n += v
	}
	return n
}

func (s *Stats) log(logf func(format string, v ...any), dur time.Duration) {
	keptPct := 0.0
	if s.RowsIn > 0 {
		keptPct = 100 * float64(s.RowsKept) / float64(s.RowsIn)
	}
	logf("stage=clean entity=%s rows_in=%d rows_out=%d kept_pct=%.2f parse_errors=%d duration=%s",
		s.Entity, s.RowsIn, s.RowsKept, keptPct, s.ParseErrors, dur.Truncate(time.Millisecond))

	reasons := make([]string, 0, len(s.Drops))
	for r := range s.Drops {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		logf("stage=clean entity=%s drop.%s=%d", s.Entity, r, s.Drops[r])
	}
}

// Pipeline executes the cleaning phase. All dedup state is scoped to one Run
// invocation; concurrent or repeated runs do not interfere.
type Pipeline struct {
	Cfg    config.Clean
	Logger Logger
}

func (p *Pipeline) logger() func(format string, v ...any) {
	if p.Logger == nil {
		l := log.New(discardWriter{}, "", 0)
		return l.Printf
	}
	return p.Logger.Printf
}

type discardWriter struct{}

func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }

// Result is the phase summary: one Stats per entity actually processed.
type Result struct {
	Stats []*Stats
}

// Run cleans every dataset present in the input directory. The keywords file
// is optional; every other dataset is mandatory and a missing one is fatal.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	logf := p.logger()
	res := &Result{}

	steps := []struct {
		name string
		fn   func(context.Context) (*Stats, error)
	}{
		{"movies", p.CleanMovies},
		{"credits", p.CleanCredits},
		{"links", p.CleanLinks},
		{"ratings", p.CleanRatings},
	}

	for _, step := range steps {
		start := time.Now()
		st, err := step.fn(ctx)
		if err != nil {
			return res, fmt.Errorf("clean %s: %w", step.name, err)
		}
		st.log(logf, time.Since(start))
		res.Stats = append(res.Stats, st)
	}

	if fileExists(p.in(model.KeywordsRawFile)) {
		start := time.Now()
		st, err := p.CleanKeywords(ctx)
		if err != nil {
			return res, fmt.Errorf("clean keywords: %w", err)
		}
		st.log(logf, time.Since(start))
		res.Stats = append(res.Stats, st)
	} else {
		logf("stage=clean entity=keywords status=skipped reason=file_missing")
	}

	return res, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (p *Pipeline) in(name string) string  { return filepath.Join(p.Cfg.InDir, name) }
func (p *Pipeline) out(name string) string { return filepath.Join(p.Cfg.OutDir, name) }

func (p *Pipeline) onParseErr(st *Stats) func(line int, err error) {
	logf := p.logger()
	return func(line int, err error) {
		st.ParseErrors++
		if st.ParseErrors <= 5 {
			logf("stage=clean entity=%s line=%d parse_error=%v", st.Entity, line, err)
		}
	}
}
