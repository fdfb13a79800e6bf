// Command load runs the load phase: normalized catalogue CSVs in, documents
// batched into the configured store, indexes declared on the way out.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"moviesetl/internal/config"
	"moviesetl/internal/load"
	"moviesetl/internal/storage"

	// register all store backends with the storage factory; config selects
	// which one to use at runtime.
	_ "moviesetl/internal/storage/mongo"
	_ "moviesetl/internal/storage/mssql"
	_ "moviesetl/internal/storage/postgres"
	_ "moviesetl/internal/storage/sqlite"
)

func main() {
	var cfg config.Load

	flag.StringVar(&cfg.DataDir, "data", "data/clean", "directory with normalized CSV files")
	flag.StringVar(&cfg.StoreKind, "store", "mongo", "storage backend kind (mongo, postgres, sqlite, mssql)")
	flag.StringVar(&cfg.StoreDSN, "dsn", "", "storage DSN/URI (env STORE_DSN)")
	flag.StringVar(&cfg.Database, "database", "movies", "database name (mongo only)")
	flag.BoolVar(&cfg.Reset, "reset", false, "drop target collections before loading")
	flag.IntVar(&cfg.BatchMovies, "batch-movies", load.BatchMoviesDefault, "movies batch size")
	flag.IntVar(&cfg.BatchCredits, "batch-credits", load.BatchCreditsDefault, "credits batch size")
	flag.IntVar(&cfg.BatchLinks, "batch-links", load.BatchLinksDefault, "links batch size")
	flag.IntVar(&cfg.BatchRatings, "batch-ratings", load.BatchRatingsDefault, "ratings batch size")
	flag.IntVar(&cfg.BatchKeywords, "batch-keywords", load.BatchKeywordsDefault, "keywords batch size")
	flag.IntVar(&cfg.MaxRuntime, "max-runtime", config.MaxRuntimeDefault, "reject movies longer than this many minutes")
	metricsBackend := flag.String("metrics-backend", "", "metrics backend to use (datadog, none)")
	validate := flag.Bool("validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if cfg.StoreDSN == "" {
		cfg.StoreDSN = os.Getenv("STORE_DSN")
	}

	issues := config.ValidateLoad(cfg)
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

	shutdownMetrics := setupMetrics(*metricsBackend, "moviesetl_load", *verbose)
	defer shutdownMetrics()

	ctx := context.Background()
	start := time.Now()

	store, err := storage.New(ctx, storage.Config{
		Kind:     cfg.StoreKind,
		DSN:      cfg.StoreDSN,
		Database: cfg.Database,
	})
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close(context.Background())

	l := &load.Loader{Cfg: cfg, Store: store, Logger: log.Default()}
	res, err := l.Run(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var total storage.BulkResult
	for _, st := range res.Stats {
		total.Add(st.Bulk)
	}
	log.Printf("stage=load inserted=%d duplicates=%d errors=%d duration=%s",
		total.Inserted, total.Duplicates, total.Errors, time.Since(start).Truncate(time.Millisecond))
}
