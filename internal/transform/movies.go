package transform

import (
	"strings"

	"moviesetl/internal/parser/jsonish"
)

// Movie column order for both the raw and normalized streams.
var MovieColumns = []string{
	"id",
	"title",
	"original_title",
	"overview",
	"tagline",
	"original_language",
	"release_date",
	"runtime",
	"budget",
	"revenue",
	"popularity",
	"vote_average",
	"vote_count",
	"genres",
	"production_companies",
	"production_countries",
	"spoken_languages",
	"belongs_to_collection",
}

const (
	MovieID = iota
	MovieTitle
	MovieOriginalTitle
	MovieOverview
	MovieTagline
	MovieOriginalLanguage
	MovieReleaseDate
	MovieRuntime
	MovieBudget
	MovieRevenue
	MoviePopularity
	MovieVoteAverage
	MovieVoteCount
	MovieGenres
	MovieProductionCompanies
	MovieProductionCountries
	MovieSpokenLanguages
	MovieBelongsToCollection
)

// movieListColumns are the JSON-ish list columns, re-encoded canonically.
var movieListColumns = []int{
	MovieGenres,
	MovieProductionCompanies,
	MovieProductionCountries,
	MovieSpokenLanguages,
}

// MoviePolicy carries the configurable movie filters.
type MoviePolicy struct {
	YearMin    int
	YearMax    int
	MinVotes   int
	MaxRuntime int
}

// Outcome is the verdict for a single-key entity row.
type Outcome struct {
	Disp   Disposition
	Reason string // drop-counter key, set only when Disp==Drop
	Key    int64  // natural key, valid only when the row survives
}

func dropped(reason string) Outcome {
	return Outcome{Disp: Drop, Reason: reason}
}

// NormalizeMovie applies the movie policy table to a raw row, rewriting fields
// to canonical text in place.
//
// Field policy:
//   - id: required non-negative integer, else drop
//   - title: required non-empty, else drop
//   - budget/revenue/popularity: optional numeric, nulled when unparsable
//   - runtime: optional numeric; negative nulled; above the ceiling drops the row
//   - vote_average: in [0,10] or null; out-of-range numeric drops the row
//   - vote_count: optional integer; with a min-votes threshold, low-signal
//     rows (count below threshold or average zero) drop
//   - release_date: mandatory, multi-format, bounded by [YearMin, YearMax]
//   - list columns and belongs_to_collection: ordered-fallback JSON parse,
//     canonical re-encode
func NormalizeMovie(r *Row, p MoviePolicy) Outcome {
	id, ok := ParseID(r.V[MovieID])
	if !ok {
		return dropped("movies_id_non_numeric")
	}
	r.V[MovieID] = FormatID(id)

	title := strings.TrimSpace(r.V[MovieTitle])
	if title == "" {
		return dropped("movies_title_null")
	}
	r.V[MovieTitle] = title

	disp := Keep
	null := func(ix int) {
		r.V[ix] = ""
		disp = KeepWithNulls
	}

	for _, ix := range []int{MovieBudget, MovieRevenue, MoviePopularity} {
		if r.V[ix] == "" {
			continue
		}
		if f, ok := ParseFloat(r.V[ix]); ok {
			r.V[ix] = FormatFloat(f)
		} else {
			null(ix)
		}
	}

	if r.V[MovieRuntime] != "" {
		switch f, ok := ParseFloat(r.V[MovieRuntime]); {
		case !ok, f < 0:
			null(MovieRuntime)
		case f > float64(p.MaxRuntime):
			return dropped("movies_runtime_too_long")
		default:
			r.V[MovieRuntime] = FormatFloat(f)
		}
	}

	voteAverage, haveVoteAverage := 0.0, false
	if r.V[MovieVoteAverage] != "" {
		if f, ok := ParseFloat(r.V[MovieVoteAverage]); ok {
			if f < 0 || f > 10 {
				return dropped("movies_vote_average_out_of_range")
			}
			voteAverage, haveVoteAverage = f, true
			r.V[MovieVoteAverage] = FormatFloat(f)
		} else {
			null(MovieVoteAverage)
		}
	}

	voteCount := int64(0)
	if r.V[MovieVoteCount] != "" {
		if n, ok := ParseInt(r.V[MovieVoteCount]); ok {
			voteCount = n
			r.V[MovieVoteCount] = FormatID(n)
		} else {
			null(MovieVoteCount)
		}
	}
	if p.MinVotes > 0 {
		if voteCount < int64(p.MinVotes) || !haveVoteAverage || voteAverage == 0 {
			return dropped("movies_low_votes")
		}
	}

	releaseDate, ok := ParseDate(r.V[MovieReleaseDate])
	if !ok {
		return dropped("movies_release_date_invalid")
	}
	if y := releaseDate.Year(); y < p.YearMin || y > p.YearMax {
		return dropped("movies_year_out_of_bounds")
	}
	r.V[MovieReleaseDate] = releaseDate.Format(DateLayout)

	for _, ix := range movieListColumns {
		r.V[ix] = jsonish.EncodeList(jsonish.ParseList(r.V[ix]))
	}
	r.V[MovieBelongsToCollection] = jsonish.EncodeObject(jsonish.ParseObject(r.V[MovieBelongsToCollection]))

	r.V[MovieOriginalLanguage] = strings.TrimSpace(r.V[MovieOriginalLanguage])

	return Outcome{Disp: disp, Key: id}
}
