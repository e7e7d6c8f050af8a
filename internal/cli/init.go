package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jsonstore/internal/paths"
	"github.com/mesh-intelligence/jsonstore/internal/store"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize jsonstore configuration and storage",
		Long: "Write config.yaml to the configuration directory if it is missing and\n" +
			"create the data directory for the selected backend.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}

	written, err := writeConfigIfMissing(configDir, configFile{
		Backend: cfg.Backend,
		// Only pin the data dir when it was chosen explicitly.
		DataDir: a.flags.dataDir,
	})
	if err != nil {
		return err
	}
	if written {
		a.logger.Info("wrote config", "path", paths.ConfigFile(configDir))
	}

	return a.withManager(func(m *store.Manager) error {
		fmt.Fprintf(cmd.OutOrStdout(), "jsonstore initialized (backend %s, data %s)\n", cfg.Backend, cfg.DataDir)
		return nil
	})
}
