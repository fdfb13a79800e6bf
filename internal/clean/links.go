package clean

import (
	"context"

	"moviesetl/internal/dedup"
	"moviesetl/internal/model"
	csvp "moviesetl/internal/parser/csv"
	"moviesetl/internal/sink"
	"moviesetl/internal/transform"
)

// CleanLinks normalizes links.csv. Identity dedup on movieId, first wins;
// tmdbId handling follows the KeepNullTMDB policy.
func (p *Pipeline) CleanLinks(ctx context.Context) (*Stats, error) {
	st := newStats("links")

	out := sink.NewCSV(p.out(model.LinksCleanFile), transform.LinkColumns)
	defer out.Close()

	seen := dedup.NewKeySet()

	var headerErr error
	opt := csvp.Options{
		RequireColumns: []string{"movieId", "imdbId", "tmdbId"},
		OnHeader: func() {
			headerErr = out.EnsureHeader()
		},
	}

	err := csvp.StreamChunks(ctx, p.in(model.LinksRawFile), transform.LinkColumns, opt, p.Cfg.ChunkSize,
		func(chunk []*transform.Row) error {
			if headerErr != nil {
				return headerErr
			}
			for _, r := range chunk {
				st.RowsIn++

				o := transform.NormalizeLink(r, p.Cfg.KeepNullTMDB)
				if o.Disp == transform.Drop {
					st.drop(o.Reason)
					continue
				}
				if !seen.Admit(o.Key) {
					st.drop("links_duplicate_movieId")
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
