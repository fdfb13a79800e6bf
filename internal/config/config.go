// Package config holds the typed configuration for both pipeline phases and
// the validation pass that runs before any file is touched.
package config

import "fmt"

// RetentionPolicy selects which of several same-key rating events survives
// deduplication.
type RetentionPolicy string

const (
	RetentionFirst RetentionPolicy = "first"
	RetentionLast  RetentionPolicy = "last"
	RetentionAll   RetentionPolicy = "all"
)

// MaxRuntimeDefault is the longest plausible film in minutes
// (Resan / The Journey, 873 min).
const MaxRuntimeDefault = 873

// ChunkSizeDefault bounds how many raw rows are held in memory at a time.
const ChunkSizeDefault = 100_000

// Clean configures the cleaning phase (raw CSVs -> normalized CSVs).
type Clean struct {
	InDir  string
	OutDir string

	ChunkSize int

	// Movies policy knobs.
	MinVotes   int
	YearMin    int
	YearMax    int
	MaxRuntime int

	// Links policy.
	KeepNullTMDB bool

	// Ratings policy.
	RatingsKeep RetentionPolicy

	// Keywords policy.
	ExplodeKeywords bool
}

// Load configures the load phase (normalized CSVs -> document store).
type Load struct {
	DataDir string

	// Storage backend selection (registry kind + DSN/URI + database name).
	StoreKind string
	StoreDSN  string
	Database  string

	// Reset drops the target collections before loading.
	Reset bool

	// Per-entity batch sizes; zero means the entity default.
	BatchMovies   int
	BatchCredits  int
	BatchLinks    int
	BatchRatings  int
	BatchKeywords int

	// Defensive revalidation ceiling applied at load time.
	MaxRuntime int
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding from a Validate pass.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

func errf(path, format string, a ...any) Issue {
	return Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, a...)}
}

func warnf(path, format string, a ...any) Issue {
	return Issue{Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, a...)}
}

// ValidateClean checks a cleaning config before the phase starts.
// It never touches the filesystem; path existence is a setup concern of the
// pipeline itself.
func ValidateClean(c Clean) []Issue {
	var issues []Issue

	if c.InDir == "" {
		issues = append(issues, errf("in_dir", "input directory is required"))
	}
	if c.OutDir == "" {
		issues = append(issues, errf("out_dir", "output directory is required"))
	}
	if c.ChunkSize <= 0 {
		issues = append(issues, errf("chunk_size", "must be positive, got %d", c.ChunkSize))
	}
	if c.YearMin > c.YearMax {
		issues = append(issues, errf("year_min", "year_min %d exceeds year_max %d", c.YearMin, c.YearMax))
	}
	if c.MaxRuntime <= 0 {
		issues = append(issues, errf("max_runtime", "must be positive, got %d", c.MaxRuntime))
	}
	if c.MinVotes < 0 {
		issues = append(issues, errf("min_votes", "must be non-negative, got %d", c.MinVotes))
	}

	switch c.RatingsKeep {
	case RetentionFirst, RetentionLast, RetentionAll:
	case "":
		issues = append(issues, errf("ratings_keep", "retention policy is required (first|last|all)"))
	default:
		issues = append(issues, errf("ratings_keep", "unknown retention policy %q", c.RatingsKeep))
	}

	if c.YearMin < 1800 {
		issues = append(issues, warnf("year_min", "%d predates film itself", c.YearMin))
	}

	return issues
}

// ValidateLoad checks a load config before any store connection is made.
func ValidateLoad(c Load) []Issue {
	var issues []Issue

	if c.DataDir == "" {
		issues = append(issues, errf("data_dir", "data directory is required"))
	}
	if c.StoreKind == "" {
		issues = append(issues, errf("store", "storage kind is required"))
	}
	if c.StoreDSN == "" {
		issues = append(issues, errf("dsn", "storage DSN/URI is required"))
	}
	// Only mongo has a database selection separate from the DSN.
	if c.Database == "" && c.StoreKind == "mongo" {
		issues = append(issues, errf("database", "database name is required for kind=mongo"))
	}
	if c.MaxRuntime <= 0 {
		issues = append(issues, errf("max_runtime", "must be positive, got %d", c.MaxRuntime))
	}

	for _, b := range []struct {
		path string
		v    int
	}{
		{"batch.movies", c.BatchMovies},
		{"batch.credits", c.BatchCredits},
		{"batch.links", c.BatchLinks},
		{"batch.ratings", c.BatchRatings},
		{"batch.keywords", c.BatchKeywords},
	} {
		if b.v < 0 {
			issues = append(issues, errf(b.path, "must not be negative, got %d", b.v))
		}
	}

	return issues
}

// HasError reports whether any issue is severity error.
func HasError(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
