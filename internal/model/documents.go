package model

import (
	"fmt"
	"strconv"
	"time"
)

// Collection names, one per entity.
const (
	MoviesCollection           = "movies"
	CreditsCollection          = "credits"
	LinksCollection            = "links"
	RatingsCollection          = "ratings"
	KeywordsCollection         = "keywords"
	KeywordsExplodedCollection = "keywords_exploded"
)

// Movie is one catalogue entry. Nested columns (genres, companies, countries,
// languages, collection) stay schemaless, since the upstream data has no
// stable shape, and decode into plain maps and lists.
type Movie struct {
	ID               int64  `bson:"_id" json:"_id"`
	Title            string `bson:"title" json:"title"`
	OriginalTitle    string `bson:"original_title,omitempty" json:"original_title,omitempty"`
	Overview         string `bson:"overview,omitempty" json:"overview,omitempty"`
	Tagline          string `bson:"tagline,omitempty" json:"tagline,omitempty"`
	OriginalLanguage string `bson:"original_language,omitempty" json:"original_language,omitempty"`
	ReleaseDate      string `bson:"release_date" json:"release_date"`

	Runtime     *float64 `bson:"runtime,omitempty" json:"runtime,omitempty"`
	Budget      *float64 `bson:"budget,omitempty" json:"budget,omitempty"`
	Revenue     *float64 `bson:"revenue,omitempty" json:"revenue,omitempty"`
	Popularity  *float64 `bson:"popularity,omitempty" json:"popularity,omitempty"`
	VoteAverage *float64 `bson:"vote_average,omitempty" json:"vote_average,omitempty"`
	VoteCount   *int64   `bson:"vote_count,omitempty" json:"vote_count,omitempty"`

	Genres              []any          `bson:"genres" json:"genres"`
	ProductionCompanies []any          `bson:"production_companies" json:"production_companies"`
	ProductionCountries []any          `bson:"production_countries" json:"production_countries"`
	SpokenLanguages     []any          `bson:"spoken_languages" json:"spoken_languages"`
	BelongsToCollection map[string]any `bson:"belongs_to_collection,omitempty" json:"belongs_to_collection,omitempty"`
}

func (m *Movie) DocID() string { return strconv.FormatInt(m.ID, 10) }

// Credit is the cast/crew document for one movie.
type Credit struct {
	MovieID int64 `bson:"_id" json:"_id"`
	Cast    []any `bson:"cast" json:"cast"`
	Crew    []any `bson:"crew" json:"crew"`
}

func (c *Credit) DocID() string { return strconv.FormatInt(c.MovieID, 10) }

// Link cross-references the catalogue id with external identifiers. TmdbID is
// nil when the cleaning phase kept a null secondary identifier.
type Link struct {
	MovieID int64  `bson:"_id" json:"_id"`
	ImdbID  int64  `bson:"imdbId" json:"imdbId"`
	TmdbID  *int64 `bson:"tmdbId,omitempty" json:"tmdbId,omitempty"`
}

func (l *Link) DocID() string { return strconv.FormatInt(l.MovieID, 10) }

// Rating is one rating event. Identity is the composite "user:movie:unixts"
// string: deterministic, so re-loading the same file is idempotent, and
// distinct per event when every event is retained.
type Rating struct {
	ID        string    `bson:"_id" json:"_id"`
	UserID    int64     `bson:"userId" json:"userId"`
	MovieID   int64     `bson:"movieId" json:"movieId"`
	Rating    float64   `bson:"rating" json:"rating"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

func (r *Rating) DocID() string { return r.ID }

// RatingID builds the composite rating identity.
func RatingID(userID, movieID int64, ts time.Time) string {
	return fmt.Sprintf("%d:%d:%d", userID, movieID, ts.Unix())
}

// Keyword holds the keyword list for one movie.
type Keyword struct {
	MovieID  int64 `bson:"_id" json:"_id"`
	Keywords []any `bson:"keywords" json:"keywords"`
}

func (k *Keyword) DocID() string { return strconv.FormatInt(k.MovieID, 10) }

// ExplodedKeyword is one (movie, keyword) pair from the flattened output.
type ExplodedKeyword struct {
	ID      string `bson:"_id" json:"_id"`
	MovieID int64  `bson:"movie_id" json:"movie_id"`
	Keyword string `bson:"keyword" json:"keyword"`
}

func (e *ExplodedKeyword) DocID() string { return e.ID }

// ExplodedKeywordID builds the composite pair identity.
func ExplodedKeywordID(movieID int64, keyword string) string {
	return fmt.Sprintf("%d:%s", movieID, keyword)
}
