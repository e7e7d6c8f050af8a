package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jsonstore/internal/render"
	"github.com/mesh-intelligence/jsonstore/internal/store"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

func (a *app) newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <table> <json-object|json-array>",
		Short: "Insert one or more rows",
		Long: `Insert appends rows to a table. Keys the table has not seen become new
columns and existing rows get null for them.

Example:
  jsonstore insert people '{"name": "Alice", "age": 30}'
  jsonstore insert people '[{"name": "Bob"}, {"name": "Eve", "city": "Oslo"}]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseRows(args[1])
			if err != nil {
				return err
			}
			return a.withManager(func(m *store.Manager) error {
				err := m.Modify(args[0], func(t types.Table) error {
					return t.Insert(rows...)
				})
				if err != nil {
					return err
				}
				return a.reportCount(cmd, "inserted", len(rows), fmt.Sprintf("Inserted %d %s into '%s'", len(rows), plural(len(rows)), args[0]))
			})
		},
	}
}

func (a *app) newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <table> [predicate-json]",
		Short: "Print the rows matching a predicate",
		Long: `Query prints every row whose values equal all the key/value pairs of the
predicate. Without a predicate every row is printed. A null value matches
rows where the key is null or missing.

Example:
  jsonstore query people '{"city": "Oslo"}'
  jsonstore query people '{"city": null}' --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var predArg string
			if len(args) == 2 {
				predArg = args[1]
			}
			p, err := parsePredicate(predArg)
			if err != nil {
				return err
			}
			return a.withManager(func(m *store.Manager) error {
				t, err := m.Get(args[0])
				if err != nil {
					return err
				}
				rows, err := t.Query(p)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), rows)
				}
				return render.Rows(cmd.OutOrStdout(), args[0], t.Columns(), rows)
			})
		},
	}
}

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <index>",
		Short: "Print the row at a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return a.withManager(func(m *store.Manager) error {
				t, err := m.Get(args[0])
				if err != nil {
					return err
				}
				r, err := t.At(index)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), r)
				}
				return render.Rows(cmd.OutOrStdout(), args[0], t.Columns(), []types.Row{r})
			})
		},
	}
}

func (a *app) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <table> <predicate-json> <changes-json>",
		Short: "Merge changes into the rows matching a predicate",
		Long: `Update sets the keys of changes on every row matching the predicate.
Columns left holding only nulls afterwards are removed.

Example:
  jsonstore update people '{"name": "Alice"}' '{"age": 31, "city": "Oslo"}'
  jsonstore update people '{}' '{"legacy": null}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePredicate(args[1])
			if err != nil {
				return err
			}
			changes, err := parseRow(args[2])
			if err != nil {
				return err
			}
			return a.withManager(func(m *store.Manager) error {
				var n int
				err := m.Modify(args[0], func(t types.Table) error {
					var err error
					n, err = t.Update(p, changes)
					return err
				})
				if err != nil {
					return err
				}
				return a.reportCount(cmd, "matched", n, fmt.Sprintf("Updated %d %s", n, plural(n)))
			})
		},
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <predicate-json>",
		Short: "Delete the rows matching a predicate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePredicate(args[1])
			if err != nil {
				return err
			}
			return a.withManager(func(m *store.Manager) error {
				var n int
				err := m.Modify(args[0], func(t types.Table) error {
					var err error
					n, err = t.Delete(p)
					return err
				})
				if err != nil {
					return err
				}
				return a.reportCount(cmd, "deleted", n, fmt.Sprintf("Deleted %d %s", n, plural(n)))
			})
		},
	}
}

// reportCount prints msg, or {key: n} in JSON mode.
func (a *app) reportCount(cmd *cobra.Command, key string, n int, msg string) error {
	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]int{key: n})
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}
