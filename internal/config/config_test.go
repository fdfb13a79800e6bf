package config

import "testing"

func validClean() Clean {
	return Clean{
		InDir:       "in",
		OutDir:      "out",
		ChunkSize:   ChunkSizeDefault,
		YearMin:     1888,
		YearMax:     2100,
		MaxRuntime:  MaxRuntimeDefault,
		RatingsKeep: RetentionLast,
	}
}

func validLoad() Load {
	return Load{
		DataDir:    "data",
		StoreKind:  "mongo",
		StoreDSN:   "mongodb://localhost:27017",
		Database:   "movies",
		MaxRuntime: MaxRuntimeDefault,
	}
}

func errorPaths(issues []Issue) map[string]bool {
	out := make(map[string]bool)
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			out[iss.Path] = true
		}
	}
	return out
}

func TestValidateClean_Valid(t *testing.T) {
	if issues := ValidateClean(validClean()); HasError(issues) {
		t.Fatalf("valid config rejected: %v", issues)
	}
}

func TestValidateClean_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Clean)
		path   string
	}{
		{"missing in dir", func(c *Clean) { c.InDir = "" }, "in_dir"},
		{"missing out dir", func(c *Clean) { c.OutDir = "" }, "out_dir"},
		{"zero chunk size", func(c *Clean) { c.ChunkSize = 0 }, "chunk_size"},
		{"inverted year bounds", func(c *Clean) { c.YearMin = 2200 }, "year_min"},
		{"non-positive runtime ceiling", func(c *Clean) { c.MaxRuntime = 0 }, "max_runtime"},
		{"negative min votes", func(c *Clean) { c.MinVotes = -1 }, "min_votes"},
		{"empty retention policy", func(c *Clean) { c.RatingsKeep = "" }, "ratings_keep"},
		{"unknown retention policy", func(c *Clean) { c.RatingsKeep = "newest" }, "ratings_keep"},
	}
	for _, tc := range cases {
		cfg := validClean()
		tc.mutate(&cfg)
		issues := ValidateClean(cfg)
		if !errorPaths(issues)[tc.path] {
			t.Errorf("%s: no error at path %q, got %v", tc.name, tc.path, issues)
		}
	}
}

func TestValidateClean_EarlyYearWarns(t *testing.T) {
	cfg := validClean()
	cfg.YearMin = 1500
	issues := ValidateClean(cfg)
	if HasError(issues) {
		t.Fatalf("warning escalated to error: %v", issues)
	}
	found := false
	for _, iss := range issues {
		if iss.Severity == SeverityWarning && iss.Path == "year_min" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected year_min warning, got %v", issues)
	}
}

func TestValidateLoad_Valid(t *testing.T) {
	if issues := ValidateLoad(validLoad()); HasError(issues) {
		t.Fatalf("valid config rejected: %v", issues)
	}
}

func TestValidateLoad_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Load)
		path   string
	}{
		{"missing data dir", func(c *Load) { c.DataDir = "" }, "data_dir"},
		{"missing kind", func(c *Load) { c.StoreKind = "" }, "store"},
		{"missing dsn", func(c *Load) { c.StoreDSN = "" }, "dsn"},
		{"mongo without database", func(c *Load) { c.Database = "" }, "database"},
		{"negative batch", func(c *Load) { c.BatchRatings = -1 }, "batch.ratings"},
		{"non-positive runtime ceiling", func(c *Load) { c.MaxRuntime = 0 }, "max_runtime"},
	}
	for _, tc := range cases {
		cfg := validLoad()
		tc.mutate(&cfg)
		issues := ValidateLoad(cfg)
		if !errorPaths(issues)[tc.path] {
			t.Errorf("%s: no error at path %q, got %v", tc.name, tc.path, issues)
		}
	}
}

func TestValidateLoad_DatabaseOptionalForEmbeddedStores(t *testing.T) {
	cfg := validLoad()
	cfg.StoreKind = "sqlite"
	cfg.Database = ""
	if issues := ValidateLoad(cfg); HasError(issues) {
		t.Fatalf("sqlite without database rejected: %v", issues)
	}
}
