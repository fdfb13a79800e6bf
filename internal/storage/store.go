package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config is the minimal configuration needed to open a document store.
//
// When to use:
//   - Use Config when constructing a Store via New.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is backend-specific.
//   - Database names the target database/schema; backends without that notion
//     may ignore it.
//
// Errors:
//   - New returns an error if Kind is empty or unsupported.
type Config struct {
	Kind     string
	DSN      string
	Database string
}

// Document is anything the loader can hand to a store. Implementations must
// also marshal (bson and json) with their identity under "_id"; DocID returns
// that identity as a string for backends and accounting that need it outside
// the serialized form.
type Document interface {
	DocID() string
}

// BulkResult reconciles one batch submission. Inserted + Duplicates + Errors
// equals the number of documents submitted.
type BulkResult struct {
	// Inserted counts documents the store accepted.
	Inserted int64
	// Duplicates counts documents rejected for an identity collision.
	// An expected, non-fatal outcome (idempotent re-runs).
	Duplicates int64
	// Errors counts documents rejected for any other reason.
	Errors int64
}

// Add accumulates another result into r.
func (r *BulkResult) Add(o BulkResult) {
	r.Inserted += o.Inserted
	r.Duplicates += o.Duplicates
	r.Errors += o.Errors
}

// Total returns the number of documents the result accounts for.
func (r BulkResult) Total() int64 { return r.Inserted + r.Duplicates + r.Errors }

// Store is a backend-agnostic interface over a document store.
//
// IMPORTANT: This interface is intentionally minimal and focused on the
// operations the batch loader needs. Each backend implements these semantics
// in its own idiomatic way (Mongo unordered InsertMany, Postgres ON CONFLICT,
// SQLite OR IGNORE).
type Store interface {
	// InsertMany submits one batch with unordered semantics: every document is
	// attempted even when some fail, and an identity collision on one document
	// never blocks the others.
	//
	// Edge cases:
	//   - An empty batch returns a zero BulkResult and no error.
	//   - Per-document failures are not errors; they land in BulkResult.
	//     The returned error is reserved for batch-level failures (connection
	//     lost, collection missing), after which the result is not meaningful.
	InsertMany(ctx context.Context, collection string, docs []Document) (BulkResult, error)

	// EnsureIndexes declares the given indexes, creating any that do not exist.
	// Idempotent; safe to call on every run.
	EnsureIndexes(ctx context.Context, specs []IndexSpec) error

	// Drop removes the collection and its data. Dropping a collection that does
	// not exist is not an error.
	Drop(ctx context.Context, collection string) error

	// Close releases any backend resources (connections, prepared statements, etc).
	//
	// Edge cases:
	//   - Callers should treat Close as "call once".
	Close(ctx context.Context) error
}

type factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "mongo", "postgres").
//
// When to use:
//   - Call Register from an init() function in a backend package.
//   - The `kind` string becomes the lookup key used by New.
//
// Panics:
//   - If kind is empty.
//   - If f is nil.
//   - If kind is already registered. This is intentional to fail fast and
//     avoid ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Store using the registered backend factory.
//
// Concurrency:
//   - Safe for concurrent use with Register. New takes a read lock while
//     selecting the factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported.
//   - Returns whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds, for diagnostics.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}
