package postgres

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// sqlIdent quotes an identifier. Collection and index names here come from
// compile-time constants, but quoting keeps reserved words safe.
func sqlIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// jsonbExpr builds the expression a secondary index is declared over.
// Dotted fields walk into nested documents with #>>.
func jsonbExpr(field string) string {
	if strings.Contains(field, ".") {
		parts := strings.Split(field, ".")
		return fmt.Sprintf("(doc #>> '{%s}')", strings.Join(parts, ","))
	}
	return fmt.Sprintf("(doc ->> '%s')", field)
}

// insertBatch pairs a pgx.Batch with the number of queued statements, since
// the result reader must Exec exactly once per statement.
type insertBatch struct {
	b   *pgx.Batch
	sql string
	n   int
}

func newInsertBatch(sql string) *insertBatch {
	return &insertBatch{b: &pgx.Batch{}, sql: sql}
}

func (ib *insertBatch) queue(id string, doc []byte) {
	ib.b.Queue(ib.sql, id, doc)
	ib.n++
}
