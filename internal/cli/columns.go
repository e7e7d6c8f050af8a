package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jsonstore/internal/store"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

func (a *app) newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <table> <old-key> <new-key>",
		Short: "Rename a column on every row",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *store.Manager) error {
				err := m.Modify(args[0], func(t types.Table) error {
					return t.RenameKey(args[1], args[2])
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed column '%s' to '%s'\n", args[1], args[2])
				return nil
			})
		},
	}
}

func (a *app) newSortCmd() *cobra.Command {
	var reverse bool
	cmd := &cobra.Command{
		Use:   "sort <table> <key>",
		Short: "Reorder rows by the values of one column",
		Long: `Sort reorders rows by the value at key. Rows compare as null (or missing),
then false, true, numbers and strings. Rows with equal values keep their
relative order, also with --reverse.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *store.Manager) error {
				err := m.Modify(args[0], func(t types.Table) error {
					t.Sort(args[1], reverse)
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sorted '%s' by '%s'\n", args[0], args[1])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "sort in descending order")
	return cmd
}

func (a *app) newSortColumnsCmd() *cobra.Command {
	var (
		row     int
		reverse bool
		order   []string
	)
	cmd := &cobra.Command{
		Use:   "sort-columns <table> (--row N [--reverse] | --order a,b,2)",
		Short: "Reorder columns",
		Long: `Sort-columns changes the column order and rewrites every row to it.

With --row the columns follow the key order of that row, reversed with
--reverse. With --order the listed columns move to the front; entries that
are integers refer to positions in the current order. Unknown names and
positions are skipped.

Example:
  jsonstore sort-columns people --row 0
  jsonstore sort-columns people --order city,name,2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byRow := cmd.Flags().Changed("row")
			byOrder := cmd.Flags().Changed("order")
			switch {
			case byRow == byOrder:
				return fmt.Errorf("%w: exactly one of --row or --order is required", errUsage)
			case byOrder && reverse:
				return fmt.Errorf("%w: --reverse applies to --row only", errUsage)
			}

			refs := make([]types.ColumnRef, 0, len(order))
			for _, s := range order {
				refs = append(refs, types.ParseColumnRef(strings.TrimSpace(s)))
			}

			return a.withManager(func(m *store.Manager) error {
				var columns []string
				err := m.Modify(args[0], func(t types.Table) error {
					if byRow {
						if err := t.SortColumnsByRow(row, reverse); err != nil {
							return err
						}
					} else {
						t.SortColumnsByList(refs...)
					}
					columns = t.Columns()
					return nil
				})
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), columns)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Columns: %s\n", strings.Join(columns, ", "))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&row, "row", 0, "order columns like the keys of this row")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "reverse the row's key order")
	cmd.Flags().StringSliceVar(&order, "order", nil, "comma-separated column names or positions to move first")
	return cmd
}
