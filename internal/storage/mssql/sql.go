package mssql

import (
	"fmt"
	"strings"

	"moviesetl/internal/storage"
)

// sqlIdent brackets an identifier. Collection and index names here come from
// compile-time constants, but quoting keeps reserved words safe.
func sqlIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// createTableSQL guards CREATE TABLE behind an OBJECT_ID check, since SQL
// Server has no IF NOT EXISTS form for it. The primary key is declared
// WITH (IGNORE_DUP_KEY = ON): a duplicate-key insert then succeeds as a
// warning with zero rows affected, which is the per-document duplicate
// signal InsertMany counts.
func createTableSQL(collection string) string {
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL BEGIN "+
			"CREATE TABLE %s (id NVARCHAR(450) NOT NULL, doc NVARCHAR(MAX) NOT NULL, "+
			"CONSTRAINT %s PRIMARY KEY (id) WITH (IGNORE_DUP_KEY = ON)); END;",
		collection, sqlIdent(collection), sqlIdent("pk_"+collection))
}

func insertSQL(collection string) string {
	return fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (@p1, @p2)", sqlIdent(collection))
}

// computedColumn names the lookup column derived from one JSON field. Dots
// nest into the JSON path, so they flatten to underscores in the name.
func computedColumn(field string) string {
	return "ix_" + strings.ReplaceAll(field, ".", "_")
}

// addComputedColumnSQL adds the JSON_VALUE projection an index is declared
// over; SQL Server cannot index the expression directly. The CAST keeps the
// key within the index key size limit.
func addComputedColumnSQL(collection, field string) string {
	col := computedColumn(field)
	return fmt.Sprintf(
		"IF COL_LENGTH(N'%s', N'%s') IS NULL BEGIN "+
			"ALTER TABLE %s ADD %s AS CAST(JSON_VALUE(doc, '$.%s') AS NVARCHAR(450)); END;",
		collection, col, sqlIdent(collection), sqlIdent(col), field)
}

func createIndexSQL(spec storage.IndexSpec) string {
	name := spec.Collection + "_" + spec.Name + "_idx"
	cols := make([]string, len(spec.Fields))
	for i, f := range spec.Fields {
		cols[i] = sqlIdent(computedColumn(f))
	}
	unique := ""
	if spec.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf(
		"IF NOT EXISTS (SELECT 1 FROM sys.indexes "+
			"WHERE name = N'%s' AND object_id = OBJECT_ID(N'%s')) BEGIN "+
			"CREATE %sINDEX %s ON %s (%s); END;",
		name, spec.Collection, unique, sqlIdent(name), sqlIdent(spec.Collection),
		strings.Join(cols, ", "))
}

func dropTableSQL(collection string) string {
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NOT NULL BEGIN DROP TABLE %s; END;",
		collection, sqlIdent(collection))
}
