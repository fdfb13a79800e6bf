package storage

import "moviesetl/internal/model"

// IndexSpec declares one secondary index. The document identity itself needs
// no spec; every backend keys the collection by "_id" already.
//
// Backends interpret specs in their own terms: Mongo creates real text indexes
// for Text specs, the SQL backends skip them (no comparable primitive over a
// JSON column).
type IndexSpec struct {
	Collection string
	Name       string
	Fields     []string
	Unique     bool
	Text       bool
}

// Indexes returns the full index set for the catalogue collections.
// Declaration is idempotent, so every load run declares them all.
func Indexes() []IndexSpec {
	return []IndexSpec{
		{Collection: model.MoviesCollection, Name: "title", Fields: []string{"title"}},
		{Collection: model.MoviesCollection, Name: "release_date", Fields: []string{"release_date"}},
		{Collection: model.MoviesCollection, Name: "search_text", Fields: []string{"title", "overview", "tagline"}, Text: true},

		// Lookup only. Uniqueness holds for movieId (the identity), not for
		// imdbId: two distinct movies may carry the same external id.
		{Collection: model.LinksCollection, Name: "imdbId", Fields: []string{"imdbId"}},
		{Collection: model.LinksCollection, Name: "tmdbId", Fields: []string{"tmdbId"}},

		{Collection: model.RatingsCollection, Name: "movie_user", Fields: []string{"movieId", "userId"}},
		{Collection: model.RatingsCollection, Name: "timestamp", Fields: []string{"timestamp"}},

		{Collection: model.KeywordsCollection, Name: "name", Fields: []string{"keywords.name"}},

		{Collection: model.KeywordsExplodedCollection, Name: "keyword", Fields: []string{"keyword"}},
		{Collection: model.KeywordsExplodedCollection, Name: "movie_id", Fields: []string{"movie_id"}},
	}
}
