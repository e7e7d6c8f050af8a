package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jsonstore/internal/schema"
	"github.com/mesh-intelligence/jsonstore/internal/store"
)

func (a *app) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Print a JSON Schema describing a table's document",
		Long: `Schema infers each column's JSON types from the current rows and prints a
JSON Schema for the table's document. Columns that are never null or
missing are listed as required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *store.Manager) error {
				t, err := m.Get(args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), schema.Describe(args[0], t))
			})
		},
	}
}
