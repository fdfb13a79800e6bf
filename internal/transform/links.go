package transform

// Link column order (MovieLens identifier cross-links).
var LinkColumns = []string{"movieId", "imdbId", "tmdbId"}

const (
	LinkMovieID = iota
	LinkImdbID
	LinkTmdbID
)

// NormalizeLink coerces the three identifiers. movieId and imdbId are always
// required; tmdbId is required unless keepNullTMDB, in which case an absent or
// unparsable value is nulled and the row kept.
func NormalizeLink(r *Row, keepNullTMDB bool) Outcome {
	movieID, ok := ParseID(r.V[LinkMovieID])
	if !ok {
		return dropped("links_movieId_non_numeric")
	}
	r.V[LinkMovieID] = FormatID(movieID)

	imdbID, ok := ParseID(r.V[LinkImdbID])
	if !ok {
		return dropped("links_imdbId_non_numeric")
	}
	r.V[LinkImdbID] = FormatID(imdbID)

	disp := Keep
	if tmdbID, ok := ParseID(r.V[LinkTmdbID]); ok {
		r.V[LinkTmdbID] = FormatID(tmdbID)
	} else if keepNullTMDB {
		r.V[LinkTmdbID] = ""
		disp = KeepWithNulls
	} else {
		return dropped("links_tmdbId_null")
	}

	return Outcome{Disp: disp, Key: movieID}
}
