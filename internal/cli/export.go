package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jsonstore/internal/sqlite"
	"github.com/mesh-intelligence/jsonstore/internal/store"
)

func (a *app) newExportCmd() *cobra.Command {
	var sqlTable string
	cmd := &cobra.Command{
		Use:   "export <table> <sqlite-file>",
		Short: "Copy a table into a SQLite database",
		Long: `Export writes the table into a SQLite database file, replacing any SQL table
of the same name. Columns get NUMERIC, INTEGER or TEXT affinity when all of
their values are numbers, booleans or strings. The _row column holds each
row's position.

Example:
  jsonstore export people people.db
  jsonstore export people reports.db --sql-table people_2024`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := sqlTable
			if name == "" {
				name = args[0]
			}
			return a.withManager(func(m *store.Manager) error {
				t, err := m.Get(args[0])
				if err != nil {
					return err
				}
				if err := sqlite.Export(cmd.Context(), args[1], name, t); err != nil {
					return err
				}
				a.logger.Debug("exported", "table", args[0], "file", args[1], "sql_table", name)
				return a.reportCount(cmd, "exported", t.Len(),
					fmt.Sprintf("Exported %d %s from '%s' to %s", t.Len(), plural(t.Len()), args[0], args[1]))
			})
		},
	}
	cmd.Flags().StringVar(&sqlTable, "sql-table", "", "name of the SQL table (default: the table name)")
	return cmd
}
