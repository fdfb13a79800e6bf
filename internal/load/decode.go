package load

import (
	"fmt"
	"time"

	"moviesetl/internal/model"
	"moviesetl/internal/parser/jsonish"
	"moviesetl/internal/transform"
)

// Decoders turn normalized rows back into typed documents. Normalized files
// are this pipeline's own output, so a row that fails to decode points at
// schema drift upstream; the loader counts it and moves on.

func optFloat(s string) *float64 {
	if f, ok := transform.ParseFloat(s); ok {
		return &f
	}
	return nil
}

func optInt(s string) *int64 {
	if n, ok := transform.ParseInt(s); ok {
		return &n
	}
	return nil
}

func decodeMovie(v []string) (*model.Movie, error) {
	id, ok := transform.ParseID(v[transform.MovieID])
	if !ok {
		return nil, fmt.Errorf("bad id %q", v[transform.MovieID])
	}
	return &model.Movie{
		ID:               id,
		Title:            v[transform.MovieTitle],
		OriginalTitle:    v[transform.MovieOriginalTitle],
		Overview:         v[transform.MovieOverview],
		Tagline:          v[transform.MovieTagline],
		OriginalLanguage: v[transform.MovieOriginalLanguage],
		ReleaseDate:      v[transform.MovieReleaseDate],

		Runtime:     optFloat(v[transform.MovieRuntime]),
		Budget:      optFloat(v[transform.MovieBudget]),
		Revenue:     optFloat(v[transform.MovieRevenue]),
		Popularity:  optFloat(v[transform.MoviePopularity]),
		VoteAverage: optFloat(v[transform.MovieVoteAverage]),
		VoteCount:   optInt(v[transform.MovieVoteCount]),

		Genres:              jsonish.ParseList(v[transform.MovieGenres]),
		ProductionCompanies: jsonish.ParseList(v[transform.MovieProductionCompanies]),
		ProductionCountries: jsonish.ParseList(v[transform.MovieProductionCountries]),
		SpokenLanguages:     jsonish.ParseList(v[transform.MovieSpokenLanguages]),
		BelongsToCollection: jsonish.ParseObject(v[transform.MovieBelongsToCollection]),
	}, nil
}

func decodeCredit(v []string) (*model.Credit, error) {
	id, ok := transform.ParseID(v[transform.CreditID])
	if !ok {
		return nil, fmt.Errorf("bad id %q", v[transform.CreditID])
	}
	return &model.Credit{
		MovieID: id,
		Cast:    jsonish.ParseList(v[transform.CreditCast]),
		Crew:    jsonish.ParseList(v[transform.CreditCrew]),
	}, nil
}

func decodeLink(v []string) (*model.Link, error) {
	movieID, ok := transform.ParseID(v[transform.LinkMovieID])
	if !ok {
		return nil, fmt.Errorf("bad movieId %q", v[transform.LinkMovieID])
	}
	imdbID, ok := transform.ParseID(v[transform.LinkImdbID])
	if !ok {
		return nil, fmt.Errorf("bad imdbId %q", v[transform.LinkImdbID])
	}
	doc := &model.Link{MovieID: movieID, ImdbID: imdbID}
	if tmdbID, ok := transform.ParseID(v[transform.LinkTmdbID]); ok {
		doc.TmdbID = &tmdbID
	}
	return doc, nil
}

func decodeRating(v []string) (*model.Rating, error) {
	userID, ok := transform.ParseID(v[transform.RatingUserID])
	if !ok {
		return nil, fmt.Errorf("bad userId %q", v[transform.RatingUserID])
	}
	movieID, ok := transform.ParseID(v[transform.RatingMovieID])
	if !ok {
		return nil, fmt.Errorf("bad movieId %q", v[transform.RatingMovieID])
	}
	rating, ok := transform.ParseFloat(v[transform.RatingValue])
	if !ok {
		return nil, fmt.Errorf("bad rating %q", v[transform.RatingValue])
	}
	ts, err := time.Parse(transform.TimestampLayout, v[transform.RatingTimestamp])
	if err != nil {
		return nil, fmt.Errorf("bad timestamp %q", v[transform.RatingTimestamp])
	}
	return &model.Rating{
		ID:        model.RatingID(userID, movieID, ts),
		UserID:    userID,
		MovieID:   movieID,
		Rating:    rating,
		Timestamp: ts,
	}, nil
}

func decodeKeyword(v []string) (*model.Keyword, error) {
	id, ok := transform.ParseID(v[transform.KeywordID])
	if !ok {
		return nil, fmt.Errorf("bad id %q", v[transform.KeywordID])
	}
	return &model.Keyword{
		MovieID:  id,
		Keywords: jsonish.ParseList(v[transform.KeywordList]),
	}, nil
}

func decodeExplodedKeyword(v []string) (*model.ExplodedKeyword, error) {
	id, ok := transform.ParseID(v[0])
	if !ok {
		return nil, fmt.Errorf("bad movie_id %q", v[0])
	}
	kw := v[1]
	if kw == "" {
		return nil, fmt.Errorf("empty keyword")
	}
	return &model.ExplodedKeyword{
		ID:      model.ExplodedKeywordID(id, kw),
		MovieID: id,
		Keyword: kw,
	}, nil
}
