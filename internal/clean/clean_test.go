package clean

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"moviesetl/internal/config"
	"moviesetl/internal/model"
	csvp "moviesetl/internal/parser/csv"
)

func testPipeline(t *testing.T, chunkSize int) (*Pipeline, string, string) {
	t.Helper()
	in := t.TempDir()
	out := t.TempDir()
	p := &Pipeline{Cfg: config.Clean{
		InDir:       in,
		OutDir:      out,
		ChunkSize:   chunkSize,
		YearMin:     1888,
		YearMax:     2100,
		MaxRuntime:  config.MaxRuntimeDefault,
		RatingsKeep: config.RetentionLast,
	}}
	return p, in, out
}

func writeRaw(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func readOut(t *testing.T, dir, name string) [][]string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	recs, err := csv.NewReader(strings.NewReader(string(b))).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return recs
}

const moviesHeader = "id,title,original_title,overview,tagline,original_language,release_date,runtime,budget,revenue,popularity,vote_average,vote_count,genres,production_companies,production_countries,spoken_languages,belongs_to_collection"

func movieLine(id, title, date string) string {
	return id + "," + title + ",,,,en," + date + ",81,,,,7.7,100,[],[],[],[],"
}

func TestCleanMovies_DedupAcrossChunks(t *testing.T) {
	p, in, out := testPipeline(t, 1) // chunk size 1 forces cross-chunk dedup
	writeRaw(t, in, model.MoviesRawFile,
		moviesHeader,
		movieLine("862", "Toy Story", "1995-10-30"),
		movieLine("8844", "Jumanji", "1995-12-15"),
		movieLine("862", "Toy Story Duplicate", "1995-10-30"),
	)

	st, err := p.CleanMovies(context.Background())
	if err != nil {
		t.Fatalf("CleanMovies: %v", err)
	}
	if st.RowsIn != 3 || st.RowsKept != 2 {
		t.Fatalf("stats = in %d kept %d, want 3/2", st.RowsIn, st.RowsKept)
	}
	if st.Drops["movies_duplicate_id"] != 1 {
		t.Fatalf("drops = %v", st.Drops)
	}

	recs := readOut(t, out, model.MoviesCleanFile)
	if len(recs) != 3 {
		t.Fatalf("output rows = %d, want header + 2", len(recs))
	}
	// First-seen row wins.
	if recs[1][1] != "Toy Story" {
		t.Fatalf("retained title = %q", recs[1][1])
	}
	seen := map[string]bool{}
	for _, rec := range recs[1:] {
		if seen[rec[0]] {
			t.Fatalf("duplicate id %s in output", rec[0])
		}
		seen[rec[0]] = true
	}
}

func TestCleanMovies_MissingInput(t *testing.T) {
	p, _, _ := testPipeline(t, 10)
	_, err := p.CleanMovies(context.Background())
	if !errors.Is(err, csvp.ErrFileNotReadable) {
		t.Fatalf("err = %v, want ErrFileNotReadable", err)
	}
}

func TestCleanMovies_HeaderOnlyInput(t *testing.T) {
	p, in, out := testPipeline(t, 10)
	writeRaw(t, in, model.MoviesRawFile, moviesHeader)

	st, err := p.CleanMovies(context.Background())
	if err != nil {
		t.Fatalf("CleanMovies: %v", err)
	}
	if st.RowsIn != 0 || st.RowsKept != 0 {
		t.Fatalf("stats = %+v, want zero rows", st)
	}

	recs := readOut(t, out, model.MoviesCleanFile)
	if len(recs) != 1 {
		t.Fatalf("output records = %d, want header only", len(recs))
	}
}

func TestCleanCredits_CoverageWinsAcrossChunks(t *testing.T) {
	p, in, out := testPipeline(t, 1)
	writeRaw(t, in, model.CreditsRawFile,
		"cast,crew,id",
		`"[{'name': 'A'}, {'name': 'B'}, {'name': 'C'}]",[],862`,
		`"[{'name': 'A'}, {'name': 'B'}, {'name': 'C'}, {'name': 'D'}]","[{'name': 'E'}, {'name': 'F'}, {'name': 'G'}]",862`,
	)

	st, err := p.CleanCredits(context.Background())
	if err != nil {
		t.Fatalf("CleanCredits: %v", err)
	}
	if st.RowsKept != 1 {
		t.Fatalf("kept = %d, want 1", st.RowsKept)
	}
	if st.Drops["credits_duplicate_id"] != 1 {
		t.Fatalf("drops = %v", st.Drops)
	}

	recs := readOut(t, out, model.CreditsCleanFile)
	if len(recs) != 2 {
		t.Fatalf("output rows = %d, want header + 1", len(recs))
	}
	// The coverage-7 row wins over the earlier coverage-3 row.
	if !strings.Contains(recs[1][1], `"D"`) {
		t.Fatalf("retained cast = %q, want the richer row", recs[1][1])
	}
}

func TestCleanCredits_MovieIDHeaderAccepted(t *testing.T) {
	p, in, out := testPipeline(t, 10)
	writeRaw(t, in, model.CreditsRawFile,
		"movie_id,cast,crew",
		"862,[],[]",
	)
	st, err := p.CleanCredits(context.Background())
	if err != nil {
		t.Fatalf("CleanCredits: %v", err)
	}
	if st.RowsKept != 1 {
		t.Fatalf("kept = %d, want 1", st.RowsKept)
	}
	recs := readOut(t, out, model.CreditsCleanFile)
	if recs[1][0] != "862" {
		t.Fatalf("id column = %q", recs[1][0])
	}
}

func TestCleanRatings_PolicyLastAcrossChunks(t *testing.T) {
	p, in, out := testPipeline(t, 1)
	writeRaw(t, in, model.RatingsRawFile,
		"userId,movieId,rating,timestamp",
		"1,10,2.0,100",
		"1,10,4.0,200",
		"2,10,3.0,150",
	)

	st, err := p.CleanRatings(context.Background())
	if err != nil {
		t.Fatalf("CleanRatings: %v", err)
	}
	if st.RowsKept != 2 {
		t.Fatalf("kept = %d, want 2", st.RowsKept)
	}

	recs := readOut(t, out, model.RatingsCleanFile)
	var pairRow []string
	for _, rec := range recs[1:] {
		if rec[0] == "1" && rec[1] == "10" {
			if pairRow != nil {
				t.Fatalf("pair (1,10) appears twice")
			}
			pairRow = append([]string(nil), rec...)
		}
	}
	if pairRow == nil {
		t.Fatalf("pair (1,10) missing from output")
	}
	if pairRow[2] != "4" {
		t.Fatalf("retained rating = %q, want the t=200 event", pairRow[2])
	}
}

func TestCleanRatings_PolicyFirstKeepsEarliest(t *testing.T) {
	p, in, out := testPipeline(t, 1)
	p.Cfg.RatingsKeep = config.RetentionFirst
	writeRaw(t, in, model.RatingsRawFile,
		"userId,movieId,rating,timestamp",
		"1,10,4.0,200",
		"1,10,2.0,100",
	)

	st, err := p.CleanRatings(context.Background())
	if err != nil {
		t.Fatalf("CleanRatings: %v", err)
	}
	if st.RowsKept != 1 {
		t.Fatalf("kept = %d, want 1", st.RowsKept)
	}

	recs := readOut(t, out, model.RatingsCleanFile)
	if recs[1][2] != "2" {
		t.Fatalf("retained rating = %q, want the chronologically earliest event", recs[1][2])
	}
}

func TestCleanRatings_PolicyAllKeepsEverything(t *testing.T) {
	p, in, out := testPipeline(t, 10)
	p.Cfg.RatingsKeep = config.RetentionAll
	writeRaw(t, in, model.RatingsRawFile,
		"userId,movieId,rating,timestamp",
		"1,10,2.0,100",
		"1,10,4.0,200",
	)

	st, err := p.CleanRatings(context.Background())
	if err != nil {
		t.Fatalf("CleanRatings: %v", err)
	}
	if st.RowsKept != 2 {
		t.Fatalf("kept = %d, want 2", st.RowsKept)
	}
	recs := readOut(t, out, model.RatingsCleanFile)
	if len(recs) != 3 {
		t.Fatalf("output rows = %d, want header + 2", len(recs))
	}
}

func TestCleanLinks_Policies(t *testing.T) {
	p, in, out := testPipeline(t, 10)
	p.Cfg.KeepNullTMDB = true
	writeRaw(t, in, model.LinksRawFile,
		"movieId,imdbId,tmdbId",
		"1,114709,862",
		"2,113497,",
		"1,114709,862",
		"x,1,2",
	)

	st, err := p.CleanLinks(context.Background())
	if err != nil {
		t.Fatalf("CleanLinks: %v", err)
	}
	if st.RowsKept != 2 {
		t.Fatalf("kept = %d, want 2", st.RowsKept)
	}
	if st.Drops["links_duplicate_movieId"] != 1 || st.Drops["links_movieId_non_numeric"] != 1 {
		t.Fatalf("drops = %v", st.Drops)
	}

	recs := readOut(t, out, model.LinksCleanFile)
	if recs[2][2] != "" {
		t.Fatalf("null tmdbId not preserved: %q", recs[2][2])
	}
}

func TestCleanKeywords_ExplodedOutput(t *testing.T) {
	p, in, out := testPipeline(t, 10)
	p.Cfg.ExplodeKeywords = true
	writeRaw(t, in, model.KeywordsRawFile,
		"id,keywords",
		`862,"[{'id': 931, 'name': 'Jealousy'}, {'id': 4290, 'name': 'toy'}, {'id': 999, 'name': 'Toy'}]"`,
		`8844,"[{'id': 4290, 'name': 'toy'}]"`,
	)

	st, err := p.CleanKeywords(context.Background())
	if err != nil {
		t.Fatalf("CleanKeywords: %v", err)
	}
	if st.RowsKept != 2 {
		t.Fatalf("kept = %d, want 2", st.RowsKept)
	}

	recs := readOut(t, out, model.KeywordsExplodedFile)
	// 'toy' and 'Toy' fold to one pair for movie 862.
	if len(recs) != 4 {
		t.Fatalf("exploded rows = %d, want header + 3", len(recs))
	}
	if recs[1][0] != "862" || recs[1][1] != "jealousy" {
		t.Fatalf("first pair = %v", recs[1])
	}
}

func TestPipeline_Run_SkipsAbsentKeywords(t *testing.T) {
	p, in, _ := testPipeline(t, 10)
	writeRaw(t, in, model.MoviesRawFile, moviesHeader)
	writeRaw(t, in, model.CreditsRawFile, "id,cast,crew")
	writeRaw(t, in, model.LinksRawFile, "movieId,imdbId,tmdbId")
	writeRaw(t, in, model.RatingsRawFile, "userId,movieId,rating,timestamp")

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Stats) != 4 {
		t.Fatalf("stats for %d entities, want 4 (keywords skipped)", len(res.Stats))
	}
	for _, st := range res.Stats {
		if st.RowsIn != 0 || st.RowsKept != 0 {
			t.Fatalf("%s: unexpected rows: %+v", st.Entity, st)
		}
	}
}

func TestStats_DroppedTotals(t *testing.T) {
	st := newStats("movies")
	st.drop("a")
	st.drop("a")
	st.drop("b")
	if st.Dropped() != 3 {
		t.Fatalf("Dropped() = %d, want 3", st.Dropped())
	}
}
