// Package model defines the per-entity record types shared by the cleaning
// and load phases, plus the dataset file names both phases agree on.
package model

// Raw dataset file names (inside the input directory).
const (
	MoviesRawFile   = "movies_metadata.csv"
	CreditsRawFile  = "credits.csv"
	LinksRawFile    = "links.csv"
	RatingsRawFile  = "ratings.csv"
	KeywordsRawFile = "keywords.csv"
)

// Normalized file names (inside the output/data directory).
const (
	MoviesCleanFile      = "movies_metadata_clean.csv"
	CreditsCleanFile     = "credits_clean.csv"
	LinksCleanFile       = "links_clean.csv"
	RatingsCleanFile     = "ratings_clean.csv"
	KeywordsCleanFile    = "keywords_clean.csv"
	KeywordsExplodedFile = "keywords_exploded.csv"
)
