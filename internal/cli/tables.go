package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jsonstore/internal/store"
)

func (a *app) newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <table>",
		Short: "Create an empty table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *store.Manager) error {
				if _, err := m.Create(args[0]); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"created": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created table '%s'\n", args[0])
				return nil
			})
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *store.Manager) error {
				names, err := m.List()
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					if names == nil {
						names = []string{}
					}
					return writeJSON(cmd.OutOrStdout(), names)
				}
				if len(names) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tables found.")
					return nil
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	}
}

func (a *app) newDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <table>",
		Short: "Delete a table and its document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *store.Manager) error {
				if err := m.Drop(args[0]); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"dropped": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dropped table '%s'\n", args[0])
				return nil
			})
		},
	}
}
