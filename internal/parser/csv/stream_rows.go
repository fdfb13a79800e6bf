// Package csv streams delimited files into pooled rows, one bounded chunk at
// a time.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"moviesetl/internal/transform"
)

// ErrFileNotReadable marks a setup failure: the source path is absent or
// cannot be opened. It aborts the phase before any row is processed.
var ErrFileNotReadable = errors.New("file not readable")

// Options tunes the reader. The zero value is correct for the movie datasets.
type Options struct {
	// Comma is the field delimiter; 0 means ','.
	Comma rune

	// HeaderMap folds alternate source headers onto canonical column names
	// (e.g. "movie_id" -> "id") before column alignment.
	HeaderMap map[string]string

	// LazyQuotes is passed through to encoding/csv for slightly malformed
	// quoting in the wild datasets.
	LazyQuotes bool

	// RequireColumns lists columns that must be present in the header; a
	// missing one is a setup error. Columns outside this list align when
	// present and read as empty otherwise.
	RequireColumns []string

	// OnHeader, when set, runs once after the header has been read and
	// validated, before any data row. Sinks use it to commit their own header
	// only when setup validation has passed.
	OnHeader func()
}

// StreamChunks reads the file at path and invokes fn once per chunk of up to
// chunkSize rows, aligned to the given column order. Rows are pooled and owned
// by the reader: fn must not retain them past its return.
//
// The sequence is restartable from the start by calling StreamChunks again;
// that is how the two-pass dedup policies re-read their input.
//
// Behavior:
//   - absent/unopenable path: ErrFileNotReadable (wrapped)
//   - empty file or header-only file: zero fn calls, nil error
//   - required column missing from the header: setup error naming the column
//   - malformed CSV record: row skipped, tallied via onErr
func StreamChunks(
	ctx context.Context,
	path string,
	columns []string,
	opt Options,
	chunkSize int,
	fn func(chunk []*transform.Row) error,
	onErr func(line int, err error),
) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileNotReadable, path, err)
	}
	defer f.Close()

	if chunkSize <= 0 {
		chunkSize = 1
	}

	comma := opt.Comma
	if comma == 0 {
		comma = ','
	}

	cr := csv.NewReader(f)
	cr.Comma = comma
	cr.ReuseRecord = true
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1

	var line int
	readRec := func() ([]string, error) {
		line++
		return cr.Read()
	}

	hdr, err := readRec()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	colIx, err := alignColumns(hdr, columns, opt)
	if err != nil {
		return err
	}
	if opt.OnHeader != nil {
		opt.OnHeader()
	}

	chunk := make([]*transform.Row, 0, chunkSize)
	freeChunk := func() {
		for _, r := range chunk {
			r.Free()
		}
		chunk = chunk[:0]
	}
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		err := fn(chunk)
		freeChunk()
		return err
	}

	for {
		select {
		case <-ctx.Done():
			freeChunk()
			return ctx.Err()
		default:
		}

		rec, err := readRec()
		if err == io.EOF {
			return flush()
		}
		if err != nil {
			if onErr != nil {
				onErr(line, fmt.Errorf("csv read: %w", err))
			}
			continue
		}

		row := transform.GetRow(len(columns))
		row.Line = line

		for t := range columns {
			si := colIx[t]
			if si < 0 || si >= len(rec) {
				row.V[t] = ""
				continue
			}
			v := rec[si]
			if transform.HasEdgeSpace(v) {
				v = strings.TrimSpace(v)
			}
			row.V[t] = v
		}
		chunk = append(chunk, row)

		if len(chunk) >= chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
}

// alignColumns maps target columns to source header indices, applying BOM
// strip, trimming, and the header map.
func alignColumns(hdr []string, columns []string, opt Options) ([]int, error) {
	srcToIdx := make(map[string]int, len(hdr))
	for i, h := range hdr {
		if transform.HasEdgeSpace(h) {
			h = strings.TrimSpace(h)
		}
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if mapped, ok := opt.HeaderMap[h]; ok {
			h = mapped
		}
		srcToIdx[h] = i
	}

	colIx := make([]int, len(columns))
	for t, target := range columns {
		si, ok := srcToIdx[target]
		if !ok {
			si = -1
		}
		colIx[t] = si
	}

	for _, req := range opt.RequireColumns {
		if _, ok := srcToIdx[req]; !ok {
			return nil, fmt.Errorf("required column %q missing from header", req)
		}
	}
	return colIx, nil
}
