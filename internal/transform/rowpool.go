// Package transform owns the pooled Row type plus the per-entity
// normalization policies that turn raw CSV text into canonical typed values.
package transform

import "sync"

// Row is a pooled container holding one positional CSV row.
//
// Ownership contract:
//   - The chunk reader owns every Row it hands to a chunk callback; callbacks
//     must not retain rows past their return.
//   - Normalizers mutate V in place (coerced canonical text), so a kept Row can
//     be written to the sink without copying.
type Row struct {
	V    []string
	Line int // 1-based physical record number, header included
}

var rowPool sync.Pool

// GetRow returns a pooled Row with length colCount. All elements are zeroed.
func GetRow(colCount int) *Row {
	if v := rowPool.Get(); v != nil {
		r := v.(*Row)
		if cap(r.V) < colCount {
			r.V = make([]string, colCount)
		}
		r.V = r.V[:colCount]
		for i := range r.V {
			r.V[i] = ""
		}
		r.Line = 0
		return r
	}
	return &Row{V: make([]string, colCount)}
}

// Free returns the Row to the pool. Call only when nothing else references
// r or r.V.
func (r *Row) Free() {
	rowPool.Put(r)
}
