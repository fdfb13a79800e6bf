// Package sink appends normalized batches to an output delimited stream.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"moviesetl/internal/transform"
)

// CSV writes surviving rows to one output file, header exactly once.
//
// The file is created lazily on the first write (or EnsureHeader call), so a
// phase that fails setup validation never starts its output file.
type CSV struct {
	path   string
	header []string

	f *os.File
	w *csv.Writer

	rows int64
}

// NewCSV prepares a writer for path with the given header. Nothing touches
// the filesystem until the first write.
func NewCSV(path string, header []string) *CSV {
	return &CSV{path: path, header: append([]string(nil), header...)}
}

func (s *CSV) open() error {
	if s.w != nil {
		return nil
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", s.path, err)
	}
	s.f = f
	s.w = csv.NewWriter(f)
	if err := s.w.Write(s.header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// EnsureHeader commits the header even if no row ever survives, so a
// header-only input still yields a syntactically valid header-only output.
func (s *CSV) EnsureHeader() error {
	return s.open()
}

// WriteRow appends one surviving row.
func (s *CSV) WriteRow(r *transform.Row) error {
	if err := s.open(); err != nil {
		return err
	}
	if err := s.w.Write(r.V); err != nil {
		return fmt.Errorf("write row (line %d): %w", r.Line, err)
	}
	s.rows++
	return nil
}

// WriteRecord appends one surviving row given as a plain record.
func (s *CSV) WriteRecord(rec []string) error {
	if err := s.open(); err != nil {
		return err
	}
	if err := s.w.Write(rec); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	s.rows++
	return nil
}

// Rows returns the number of data rows written, header excluded.
func (s *CSV) Rows() int64 { return s.rows }

// Close flushes and closes the output. It is idempotent; a writer that never
// received a header closes as a no-op and leaves no file behind.
func (s *CSV) Close() error {
	if s.w == nil {
		return nil
	}
	w, f := s.w, s.f
	s.w, s.f = nil, nil

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush output %s: %w", s.path, err)
	}
	return f.Close()
}
