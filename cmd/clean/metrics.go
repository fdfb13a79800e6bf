package main

import (
	"context"
	"log"
	"os"
	"time"

	"moviesetl/internal/metrics"
	"moviesetl/internal/metrics/datadog"
)

// setupMetrics selects the metrics backend, flag value first, then the
// METRICS_BACKEND environment variable. Init failure falls back to the nop
// backend rather than failing the run. The returned function is the shutdown
// path and must run after the phase finishes.
func setupMetrics(backendName, jobName string, verbose bool) func() {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	switch backendName {
	case "datadog":
		// The backend buffers series and submits periodically, so long runs
		// produce an actual time series rather than one spike at the end.
		extraTags := datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS"))

		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName:    jobName,
			Tags:       extraTags,
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return func() {}
		}

		log.Printf("metrics: backend=%v job_name=%v tags=%v", backendName, jobName, extraTags)
		metrics.SetBackend(b)

		// Close stops the periodic flush loop and performs a final Flush.
		return func() {
			if err := b.Close(); err != nil {
				log.Printf("metrics: datadog close/flush error: %v", err)
			}
		}

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
	return func() {}
}
