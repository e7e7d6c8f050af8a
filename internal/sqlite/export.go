// Package sqlite exports table snapshots into SQLite database files so they
// can be queried with SQL tools.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/jsonstore/internal/schema"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// RowColumn holds each row's position in the exported table.
const RowColumn = "_row"

// affinity returns the declared SQLite type for a column. Columns mixing
// kinds get no declared type so values keep their own storage class.
func affinity(c schema.Column) string {
	switch {
	case c.Only(schema.KindNumber):
		return "NUMERIC"
	case c.Only(schema.KindBool):
		return "INTEGER"
	case c.Only(schema.KindString):
		return "TEXT"
	default:
		return ""
	}
}

// sqlValue converts a row value to a driver argument. SQLite has no boolean
// class, so booleans become 0 or 1.
func sqlValue(v types.Value) any {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Export writes t into the SQLite database at path as a table called name,
// replacing any table of that name. Each column becomes a SQL column in
// column order after RowColumn, which holds the row position. The write is
// one transaction: on error the database is left as it was.
func Export(ctx context.Context, path, name string, t types.Table) error {
	cols := schema.Infer(t)
	for _, c := range cols {
		if c.Name == RowColumn {
			return fmt.Errorf("column %q is reserved for row positions: %w", RowColumn, types.ErrAlreadyExists)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning export transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("dropping %s: %w", name, err)
	}

	defs := []string{quoteIdent(RowColumn) + " INTEGER PRIMARY KEY"}
	idents := []string{quoteIdent(RowColumn)}
	for _, c := range cols {
		def := quoteIdent(c.Name)
		if a := affinity(c); a != "" {
			def += " " + a
		}
		defs = append(defs, def)
		idents = append(idents, quoteIdent(c.Name))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(idents)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(idents, ", "), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.All() {
		args := make([]any, 0, len(idents))
		args = append(args, int64(i))
		for _, c := range cols {
			args = append(args, sqlValue(r.Value(c.Name)))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}
