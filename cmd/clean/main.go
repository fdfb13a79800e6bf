// Command clean runs the normalization-and-dedup phase: raw catalogue CSVs in,
// canonical deduplicated CSVs out.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"moviesetl/internal/clean"
	"moviesetl/internal/config"
)

func main() {
	var cfg config.Clean
	var ratingsKeep string

	flag.StringVar(&cfg.InDir, "in", "data/raw", "input directory with raw CSV files")
	flag.StringVar(&cfg.OutDir, "out", "data/clean", "output directory for normalized CSV files")
	flag.IntVar(&cfg.ChunkSize, "chunk-size", config.ChunkSizeDefault, "rows held in memory per chunk")
	flag.IntVar(&cfg.MinVotes, "min-votes", 0, "drop movies with fewer votes (0 disables)")
	flag.IntVar(&cfg.YearMin, "year-min", 1888, "earliest valid release year")
	flag.IntVar(&cfg.YearMax, "year-max", 2100, "latest valid release year")
	flag.IntVar(&cfg.MaxRuntime, "max-runtime", config.MaxRuntimeDefault, "drop movies longer than this many minutes")
	flag.BoolVar(&cfg.KeepNullTMDB, "keep-null-tmdb", false, "keep link rows with an absent tmdbId")
	flag.StringVar(&ratingsKeep, "ratings-keep", "last", "rating retention policy (first|last|all)")
	flag.BoolVar(&cfg.ExplodeKeywords, "explode-keywords", false, "also write the flattened (movie_id, keyword) file")
	metricsBackend := flag.String("metrics-backend", "", "metrics backend to use (datadog, none)")
	validate := flag.Bool("validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if ratingsKeep == "" {
		ratingsKeep = os.Getenv("RATINGS_KEEP")
	}
	cfg.RatingsKeep = config.RetentionPolicy(ratingsKeep)

	issues := config.ValidateClean(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		log.Printf("configuration is invalid")
		os.Exit(1)
	}
	if *validate {
		log.Printf("configuration is valid")
		os.Exit(0)
	}

	shutdownMetrics := setupMetrics(*metricsBackend, "moviesetl_clean", *verbose)
	defer shutdownMetrics()

	ctx := context.Background()
	start := time.Now()

	p := &clean.Pipeline{Cfg: cfg, Logger: log.Default()}
	res, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var in, out int64
	for _, st := range res.Stats {
		in += st.RowsIn
		out += st.RowsKept
	}
	log.Printf("stage=clean rows_in=%d rows_out=%d duration=%s",
		in, out, time.Since(start).Truncate(time.Millisecond))
}
