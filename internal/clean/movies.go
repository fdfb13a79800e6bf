package clean

import (
	"context"

	"moviesetl/internal/dedup"
	"moviesetl/internal/model"
	csvp "moviesetl/internal/parser/csv"
	"moviesetl/internal/sink"
	"moviesetl/internal/transform"
)

// CleanMovies normalizes movies_metadata.csv in chunks with a running key set
// for cross-chunk dedup. First row per id wins; everything else follows the
// per-field policy table in transform.NormalizeMovie.
func (p *Pipeline) CleanMovies(ctx context.Context) (*Stats, error) {
	st := newStats("movies")

	pol := transform.MoviePolicy{
		YearMin:    p.Cfg.YearMin,
		YearMax:    p.Cfg.YearMax,
		MinVotes:   p.Cfg.MinVotes,
		MaxRuntime: p.Cfg.MaxRuntime,
	}

	out := sink.NewCSV(p.out(model.MoviesCleanFile), transform.MovieColumns)
	defer out.Close()

	seen := dedup.NewKeySet()

	var headerErr error
	opt := csvp.Options{
		LazyQuotes:     true,
		RequireColumns: []string{"id", "title", "release_date"},
		OnHeader: func() {
			headerErr = out.EnsureHeader()
		},
	}

	err := csvp.StreamChunks(ctx, p.in(model.MoviesRawFile), transform.MovieColumns, opt, p.Cfg.ChunkSize,
		func(chunk []*transform.Row) error {
			if headerErr != nil {
				return headerErr
			}
			for _, r := range chunk {
				st.RowsIn++

				o := transform.NormalizeMovie(r, pol)
				if o.Disp == transform.Drop {
					st.drop(o.Reason)
					continue
				}
				if !seen.Admit(o.Key) {
					st.drop("movies_duplicate_id")
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
