package csv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"moviesetl/internal/transform"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func collect(t *testing.T, path string, columns []string, opt Options, chunkSize int) ([][]string, []int) {
	t.Helper()
	var rows [][]string
	var sizes []int
	err := StreamChunks(context.Background(), path, columns, opt, chunkSize,
		func(chunk []*transform.Row) error {
			sizes = append(sizes, len(chunk))
			for _, r := range chunk {
				cp := make([]string, len(r.V))
				copy(cp, r.V)
				rows = append(rows, cp)
			}
			return nil
		}, nil)
	if err != nil {
		t.Fatalf("StreamChunks: %v", err)
	}
	return rows, sizes
}

func TestStreamChunks_ChunkingAndOrder(t *testing.T) {
	path := writeFile(t, "in.csv", "a,b\n1,x\n2,y\n3,z\n4,w\n5,v\n")
	rows, sizes := collect(t, path, []string{"a", "b"}, Options{}, 2)

	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if len(sizes) != 3 || sizes[0] != 2 || sizes[1] != 2 || sizes[2] != 1 {
		t.Fatalf("chunk sizes = %v, want [2 2 1]", sizes)
	}
	if rows[0][0] != "1" || rows[4][1] != "v" {
		t.Fatalf("row order broken: %v", rows)
	}
}

func TestStreamChunks_HeaderMapAndReorder(t *testing.T) {
	path := writeFile(t, "in.csv", "cast,movie_id\nCAST1,862\n")
	rows, _ := collect(t, path, []string{"id", "cast"},
		Options{HeaderMap: map[string]string{"movie_id": "id"}}, 10)

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0][0] != "862" || rows[0][1] != "CAST1" {
		t.Fatalf("columns not aligned: %v", rows[0])
	}
}

func TestStreamChunks_BOMAndWhitespaceHeader(t *testing.T) {
	path := writeFile(t, "in.csv", "\ufeffa, b \n1,2\n")
	rows, _ := collect(t, path, []string{"a", "b"}, Options{RequireColumns: []string{"a", "b"}}, 10)
	if len(rows) != 1 || rows[0][0] != "1" || rows[0][1] != "2" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestStreamChunks_MissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "in.csv", "a,b\n1,2\n")
	err := StreamChunks(context.Background(), path, []string{"a", "b", "c"},
		Options{RequireColumns: []string{"c"}}, 10,
		func(chunk []*transform.Row) error {
			t.Fatalf("fn called despite setup error")
			return nil
		}, nil)
	if err == nil {
		t.Fatalf("expected setup error")
	}
}

func TestStreamChunks_OptionalColumnReadsEmpty(t *testing.T) {
	path := writeFile(t, "in.csv", "a\n1\n")
	rows, _ := collect(t, path, []string{"a", "b"}, Options{}, 10)
	if rows[0][1] != "" {
		t.Fatalf("absent column = %q, want empty", rows[0][1])
	}
}

func TestStreamChunks_EmptyFile(t *testing.T) {
	for name, content := range map[string]string{"empty": "", "header_only": "a,b\n"} {
		path := writeFile(t, name+".csv", content)
		calls := 0
		headerSeen := false
		err := StreamChunks(context.Background(), path, []string{"a", "b"},
			Options{OnHeader: func() { headerSeen = true }}, 10,
			func(chunk []*transform.Row) error { calls++; return nil }, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if calls != 0 {
			t.Fatalf("%s: fn called %d times", name, calls)
		}
		if name == "empty" && headerSeen {
			t.Fatalf("OnHeader fired for a file with no header")
		}
		if name == "header_only" && !headerSeen {
			t.Fatalf("OnHeader not fired for a header-only file")
		}
	}
}

func TestStreamChunks_MissingFile(t *testing.T) {
	err := StreamChunks(context.Background(), filepath.Join(t.TempDir(), "absent.csv"),
		[]string{"a"}, Options{}, 10,
		func(chunk []*transform.Row) error { return nil }, nil)
	if !errors.Is(err, ErrFileNotReadable) {
		t.Fatalf("err = %v, want ErrFileNotReadable", err)
	}
}

func TestStreamChunks_MalformedRowSkipped(t *testing.T) {
	path := writeFile(t, "in.csv", "a,b\n1,ok\nbr\"oken,oops\n2,ok\n")
	var badLines []int
	var got [][]string
	err := StreamChunks(context.Background(), path, []string{"a", "b"}, Options{}, 10,
		func(chunk []*transform.Row) error {
			for _, r := range chunk {
				got = append(got, []string{r.V[0], r.V[1]})
			}
			return nil
		},
		func(line int, err error) { badLines = append(badLines, line) })
	if err != nil {
		t.Fatalf("StreamChunks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %v, want the 2 well-formed ones", got)
	}
	if len(badLines) == 0 {
		t.Fatalf("malformed row not reported")
	}
}

func TestStreamChunks_Restartable(t *testing.T) {
	path := writeFile(t, "in.csv", "a\n1\n2\n")
	for pass := 0; pass < 2; pass++ {
		var lines []int
		err := StreamChunks(context.Background(), path, []string{"a"}, Options{}, 10,
			func(chunk []*transform.Row) error {
				for _, r := range chunk {
					lines = append(lines, r.Line)
				}
				return nil
			}, nil)
		if err != nil {
			t.Fatalf("pass %d: %v", pass, err)
		}
		if len(lines) != 2 || lines[0] != 2 || lines[1] != 3 {
			t.Fatalf("pass %d: line numbers = %v, want [2 3]", pass, lines)
		}
	}
}

func TestStreamChunks_ContextCancel(t *testing.T) {
	path := writeFile(t, "in.csv", "a\n1\n2\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := StreamChunks(ctx, path, []string{"a"}, Options{}, 1,
		func(chunk []*transform.Row) error { return nil }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
