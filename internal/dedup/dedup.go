// Package dedup holds the cross-chunk identity-resolution state used by the
// cleaning pipeline. Every structure here keeps memory proportional to the
// number of distinct keys, never the number of rows, and all state is
// explicit: created per run, passed in, never package-level.
package dedup

// KeySet implements simple identity dedup: the first row to present a key
// wins, everything after it is dropped.
type KeySet struct {
	seen map[int64]struct{}
}

// NewKeySet returns an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[int64]struct{})}
}

// Admit reports whether key is new and records it. The first caller for a
// given key gets true; duplicates, intra- or inter-chunk, get false.
func (s *KeySet) Admit(key int64) bool {
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct keys admitted.
func (s *KeySet) Len() int { return len(s.seen) }

// PairKey identifies a rating event stream: one (user, movie) pair.
type PairKey struct {
	UserID  int64
	MovieID int64
}

// CoverageIndex resolves credit duplicates by coverage (combined cast+crew
// length). It is built in a first streaming pass via Observe and consulted in
// a second pass via IsWinner, holding only a score and an ordinal per key
// and never a row payload.
//
// Ordinals are the rows' input line numbers, which are stable across the two
// passes of the same file.
type CoverageIndex struct {
	best map[int64]coverageMark
}

type coverageMark struct {
	coverage int
	ordinal  int
}

// NewCoverageIndex returns an empty coverage index.
func NewCoverageIndex() *CoverageIndex {
	return &CoverageIndex{best: make(map[int64]coverageMark)}
}

// Observe records a candidate row for key. Strictly greater coverage
// supersedes; ties keep the earliest-seen row.
func (c *CoverageIndex) Observe(key int64, coverage, ordinal int) {
	cur, ok := c.best[key]
	if !ok || coverage > cur.coverage {
		c.best[key] = coverageMark{coverage: coverage, ordinal: ordinal}
	}
}

// IsWinner reports whether the row at ordinal is the retained one for key.
func (c *CoverageIndex) IsWinner(key int64, ordinal int) bool {
	cur, ok := c.best[key]
	return ok && cur.ordinal == ordinal
}

// Len returns the number of distinct keys observed.
func (c *CoverageIndex) Len() int { return len(c.best) }

// RetentionPolicy selects which same-pair rating event survives.
type RetentionPolicy int

const (
	// RetainFirst keeps the chronologically earliest event, earliest-seen on
	// timestamp ties.
	RetainFirst RetentionPolicy = iota
	// RetainLast keeps the chronologically latest event, latest-seen on ties.
	RetainLast
)

// RetentionIndex resolves rating duplicates per (user, movie) pair under a
// temporal retention policy. Like CoverageIndex it is two-pass: Observe in
// pass one, IsWinner in pass two. Timestamps are compared at nanosecond
// resolution; the map holds scalars only.
type RetentionIndex struct {
	policy RetentionPolicy
	best   map[PairKey]retentionMark
}

type retentionMark struct {
	tsNano  int64
	ordinal int
}

// NewRetentionIndex returns an empty index for the given policy.
func NewRetentionIndex(policy RetentionPolicy) *RetentionIndex {
	return &RetentionIndex{policy: policy, best: make(map[PairKey]retentionMark)}
}

// Observe records one rating event for the pair.
//
// RetainLast updates on ts >= best so that, among equal timestamps, the
// later-seen row wins. RetainFirst updates on ts < best only, so the
// earliest-seen row wins ties.
func (ri *RetentionIndex) Observe(k PairKey, tsNano int64, ordinal int) {
	cur, ok := ri.best[k]
	if !ok {
		ri.best[k] = retentionMark{tsNano: tsNano, ordinal: ordinal}
		return
	}

	switch ri.policy {
	case RetainLast:
		if tsNano >= cur.tsNano {
			ri.best[k] = retentionMark{tsNano: tsNano, ordinal: ordinal}
		}
	case RetainFirst:
		if tsNano < cur.tsNano {
			ri.best[k] = retentionMark{tsNano: tsNano, ordinal: ordinal}
		}
	}
}

// IsWinner reports whether the event at ordinal is the retained one.
func (ri *RetentionIndex) IsWinner(k PairKey, ordinal int) bool {
	cur, ok := ri.best[k]
	return ok && cur.ordinal == ordinal
}

// Len returns the number of distinct pairs observed.
func (ri *RetentionIndex) Len() int { return len(ri.best) }

// PairSet dedups the exploded (movie, keyword) rows.
type PairSet struct {
	seen map[pairTextKey]struct{}
}

type pairTextKey struct {
	id   int64
	text string
}

// NewPairSet returns an empty pair set.
func NewPairSet() *PairSet {
	return &PairSet{seen: make(map[pairTextKey]struct{})}
}

// Admit reports whether the (id, text) pair is new and records it.
func (s *PairSet) Admit(id int64, text string) bool {
	k := pairTextKey{id: id, text: text}
	if _, dup := s.seen[k]; dup {
		return false
	}
	s.seen[k] = struct{}{}
	return true
}

// Len returns the number of distinct pairs admitted.
func (s *PairSet) Len() int { return len(s.seen) }
