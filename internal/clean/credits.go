package clean

import (
	"context"

	"moviesetl/internal/dedup"
	"moviesetl/internal/model"
	csvp "moviesetl/internal/parser/csv"
	"moviesetl/internal/sink"
	"moviesetl/internal/transform"
)

// CleanCredits normalizes credits.csv with coverage-based dedup: among rows
// sharing a movie id, the one with the largest combined cast+crew list wins,
// earliest-seen on ties. Coverage dedup needs a winner before any row can be
// emitted, so the file is streamed twice: pass one records (coverage, line)
// per key, pass two emits only the winning lines. The index holds two scalars
// per distinct key, never a row.
func (p *Pipeline) CleanCredits(ctx context.Context) (*Stats, error) {
	st := newStats("credits")

	path := p.in(model.CreditsRawFile)
	opt := csvp.Options{
		LazyQuotes:     true,
		HeaderMap:      transform.CreditHeaderMap,
		RequireColumns: []string{"id", "cast", "crew"},
	}

	idx := dedup.NewCoverageIndex()

	err := csvp.StreamChunks(ctx, path, transform.CreditColumns, opt, p.Cfg.ChunkSize,
		func(chunk []*transform.Row) error {
			for _, r := range chunk {
				o := transform.NormalizeCredit(r)
				if o.Disp == transform.Drop {
					continue
				}
				idx.Observe(o.Key, o.Coverage, r.Line)
			}
			return nil
		},
		func(line int, err error) {},
	)
	if err != nil {
		return st, err
	}

	out := sink.NewCSV(p.out(model.CreditsCleanFile), transform.CreditColumns)
	defer out.Close()

	var headerErr error
	opt.OnHeader = func() {
		headerErr = out.EnsureHeader()
	}

	// Counting happens here: pass one exists only to pick winners.
	err = csvp.StreamChunks(ctx, path, transform.CreditColumns, opt, p.Cfg.ChunkSize,
		func(chunk []*transform.Row) error {
			if headerErr != nil {
				return headerErr
			}
			for _, r := range chunk {
				st.RowsIn++

				o := transform.NormalizeCredit(r)
				if o.Disp == transform.Drop {
					st.drop(o.Reason)
					continue
				}
				if !idx.IsWinner(o.Key, r.Line) {
					st.drop("credits_duplicate_id")
					continue
				}
				if err := out.WriteRow(r); err != nil {
					return err
				}
				st.keep()
			}
			return nil
		},
		p.onParseErr(st),
	)
	if err != nil {
		return st, err
	}
	if headerErr != nil {
		return st, headerErr
	}
	return st, out.Close()
}
