package clean

import (
	"context"
	"strconv"

	"moviesetl/internal/dedup"
	"moviesetl/internal/model"
	csvp "moviesetl/internal/parser/csv"
	"moviesetl/internal/sink"
	"moviesetl/internal/transform"
)

// CleanKeywords normalizes keywords.csv. Identity dedup on movie id, first
// wins. With ExplodeKeywords enabled a second output is produced alongside:
// one (movie_id, keyword) row per distinct pair, flat enough to index the
// keyword column directly.
func (p *Pipeline) CleanKeywords(ctx context.Context) (*Stats, error) {
	st := newStats("keywords")

	out := sink.NewCSV(p.out(model.KeywordsCleanFile), transform.KeywordColumns)
	defer out.Close()

	var (
		exploded *sink.CSV
		pairs    *dedup.PairSet
	)
	if p.Cfg.ExplodeKeywords {
		exploded = sink.NewCSV(p.out(model.KeywordsExplodedFile), transform.ExplodedKeywordColumns)
		defer exploded.Close()
		pairs = dedup.NewPairSet()
	}

	seen := dedup.NewKeySet()

	var headerErr error
	opt := csvp.Options{
		LazyQuotes:     true,
		RequireColumns: []string{"id", "keywords"},
		OnHeader: func() {
			headerErr = out.EnsureHeader()
			if headerErr == nil && exploded != nil {
				headerErr = exploded.EnsureHeader()
			}
		},
	}

	err := csvp.StreamChunks(ctx, p.in(model.KeywordsRawFile), transform.KeywordColumns, opt, p.Cfg.ChunkSize,
		func(chunk []*transform.Row) error {
			if headerErr != nil {
				return headerErr
			}
			for _, r := range chunk {
				st.RowsIn++

				o := transform.NormalizeKeyword(r)
				if o.Disp == transform.Drop {
					st.drop(o.Reason)
					continue
				}
				if !seen.Admit(o.Key) {
					st.drop("keywords_duplicate_id")
					continue
				}
				if err := out.WriteRow(r); err != nil {
					return err
				}
				st.keep()

				if exploded == nil {
					continue
				}
				id := strconv.FormatInt(o.Key, 10)
				for _, name := range o.Names {
					if !pairs.Admit(o.Key, name) {
						continue
					}
					if err := exploded.WriteRecord([]string{id, name}); err != nil {
						return err
					}
				}
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
	if exploded != nil {
		if err := exploded.Close(); err != nil {
			return st, err
		}
	}
	return st, out.Close()
}
