package transform

import (
	"strconv"
	"strings"
	"time"
)

// Disposition is the per-row verdict of a normalizer.
type Disposition int

const (
	// Keep: the row survives with all fields intact.
	Keep Disposition = iota
	// KeepWithNulls: the row survives but at least one optional field was
	// cleared because its raw text could not be coerced.
	KeepWithNulls
	// Drop: the row is excluded from the output.
	Drop
)

// Canonical output layouts. Dates carry no time component; event timestamps
// keep full second precision in UTC.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = time.RFC3339
)

// HasEdgeSpace reports whether s starts or ends with ASCII whitespace.
// It exists so hot paths can skip strings.TrimSpace when nothing would change.
func HasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	return isSpace(s[0]) || isSpace(s[len(s)-1])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// isNullish reports text forms that mean "no value" in the raw datasets.
func isNullish(s string) bool {
	switch strings.ToLower(s) {
	case "", "null", "nan", "none":
		return true
	}
	return false
}

// ParseID coerces a required identifier: a non-negative integer, tolerating a
// trailing ".0" float form (pandas re-export artifact). ok is false for
// anything else, including negatives.
func ParseID(s string) (int64, bool) {
	if HasEdgeSpace(s) {
		s = strings.TrimSpace(s)
	}
	if isNullish(s) {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	// "862.0" style: accept only when the value is integral.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// ParseFloat coerces an optional numeric field. ok is false when the text is
// absent or non-numeric; callers decide whether that nulls the field or drops
// the row.
func ParseFloat(s string) (float64, bool) {
	if HasEdgeSpace(s) {
		s = strings.TrimSpace(s)
	}
	if isNullish(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseInt coerces an optional integer field, accepting an integral float form.
func ParseInt(s string) (int64, bool) {
	f, ok := ParseFloat(s)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// dateLayouts are the known textual date forms in the raw datasets, tried in
// order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate coerces a calendar-date or timestamp field. It accepts the known
// text layouts and a numeric epoch-seconds form. Results are UTC.
func ParseDate(s string) (time.Time, bool) {
	if HasEdgeSpace(s) {
		s = strings.TrimSpace(s)
	}
	if isNullish(s) {
		return time.Time{}, false
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatFloat renders a coerced numeric in canonical text ('g', shortest
// round-trip form).
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatID renders an identifier in canonical decimal text.
func FormatID(n int64) string {
	return strconv.FormatInt(n, 10)
}
