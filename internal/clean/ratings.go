package clean

import (
	"context"

	"moviesetl/internal/config"
	"moviesetl/internal/dedup"
	"moviesetl/internal/model"
	csvp "moviesetl/internal/parser/csv"
	"moviesetl/internal/sink"
	"moviesetl/internal/transform"
)

// CleanRatings normalizes ratings.csv. Under the "all" policy every valid
// event survives and a single pass suffices. Under "first" or "last" the
// surviving event per (user, movie) pair is only known once the whole file
// has been seen, so the pipeline streams the file twice: pass one picks the
// winning line per pair, pass two emits it.
func (p *Pipeline) CleanRatings(ctx context.Context) (*Stats, error) {
	st := newStats("ratings")

	path := p.in(model.RatingsRawFile)
	opt := csvp.Options{
		RequireColumns: []string{"userId", "movieId", "rating", "timestamp"},
	}

	var idx *dedup.RetentionIndex
	switch p.Cfg.RatingsKeep {
	case config.RetentionFirst:
		idx = dedup.NewRetentionIndex(dedup.RetainFirst)
	case config.RetentionLast:
		idx = dedup.NewRetentionIndex(dedup.RetainLast)
	}

	if idx != nil {
		err := csvp.StreamChunks(ctx, path, transform.RatingColumns, opt, p.Cfg.ChunkSize,
			func(chunk []*transform.Row) error {
				for _, r := range chunk {
					o := transform.NormalizeRating(r)
					if o.Disp == transform.Drop {
						continue
					}
					k := dedup.PairKey{UserID: o.UserID, MovieID: o.MovieID}
					idx.Observe(k, o.EventTime.UnixNano(), r.Line)
				}
				return nil
			},
			func(line int, err error) {},
		)
		if err != nil {
			return st, err
		}
	}

	out := sink.NewCSV(p.out(model.RatingsCleanFile), transform.RatingColumns)
	defer out.Close()

	var headerErr error
	opt.OnHeader = func() {
		headerErr = out.EnsureHeader()
	}

	err := csvp.StreamChunks(ctx, path, transform.RatingColumns, opt, p.Cfg.ChunkSize,
		func(chunk []*transform.Row) error {
			if headerErr != nil {
				return headerErr
			}
			for _, r := range chunk {
				st.RowsIn++

				o := transform.NormalizeRating(r)
				if o.Disp == transform.Drop {
					st.drop(o.Reason)
					continue
				}
				if idx != nil {
					k := dedup.PairKey{UserID: o.UserID, MovieID: o.MovieID}
					if !idx.IsWinner(k, r.Line) {
						st.drop("ratings_duplicate_pair")
						continue
					}
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
