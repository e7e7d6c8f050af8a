package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jsonstore/internal/render"
	"github.com/mesh-intelligence/jsonstore/internal/store"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

func (a *app) newShowCmd() *cobra.Command {
	var followFlag bool
	cmd := &cobra.Command{
		Use:   "show <table>",
		Short: "Print a whole table",
		Long: `Show prints every row of a table in column order. With --follow it keeps
running and prints the table again each time its document changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *store.Manager) error {
				if followFlag {
					return a.follow(cmd.Context(), m, args[0], cmd.OutOrStdout(), nil)
				}
				t, err := m.Get(args[0])
				if err != nil {
					return err
				}
				return a.printTable(cmd.OutOrStdout(), args[0], t)
			})
		},
	}
	cmd.Flags().BoolVarP(&followFlag, "follow", "f", false, "print the table again whenever it changes")
	return cmd
}

func (a *app) printTable(w io.Writer, name string, t types.Table) error {
	if a.flags.jsonMode {
		return writeJSON(w, t.Dump())
	}
	return render.Table(w, name, t)
}

// follow prints the table, then watches the directory holding its document
// and prints it again after every change until ctx is done. rendered, if
// set, is called after each print.
func (a *app) follow(ctx context.Context, m *store.Manager, name string, w io.Writer, rendered func()) error {
	t, err := m.Get(name)
	if err != nil {
		return err
	}
	if err := a.printTable(w, name, t); err != nil {
		return err
	}
	if rendered != nil {
		rendered()
	}

	loc, err := filepath.Abs(m.Location(name))
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// Atomic saves replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(loc)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(loc), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != loc || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			t, err := m.Reload(name)
			if err != nil {
				// A half-written or dropped document; wait for the next event.
				a.logger.Warn("reload failed", "table", name, "err", err)
				continue
			}
			fmt.Fprintln(w)
			if err := a.printTable(w, name, t); err != nil {
				return err
			}
			if rendered != nil {
				rendered()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("error watching table", "table", name, "err", err)
		}
	}
}
