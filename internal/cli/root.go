// Package cli implements the jsonstore command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/jsonstore/internal/paths"
	"github.com/mesh-intelligence/jsonstore/internal/store"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks errors caused by bad arguments or flags.
var errUsage = errors.New("invalid usage")

// userErrors are the sentinels reported with exitUserError.
var userErrors = []error{
	errUsage,
	types.ErrNotFound,
	types.ErrAlreadyExists,
	types.ErrUnsupportedType,
	types.ErrIndexOutOfRange,
	types.ErrInvalidName,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
	jsonMode  bool
}

// app is the state of one CLI invocation.
type app struct {
	flags  rootFlags
	config *viper.Viper
	logger *slog.Logger
	// started is set once argument parsing succeeded and the command began.
	started bool
}

// NewRootCmd creates the top-level "jsonstore" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jsonstore",
		Short: "A schemaless table store kept in JSON documents",
		Long: "jsonstore keeps named tables of flat JSON records. Columns appear when a\n" +
			"record first uses a key and disappear when no record holds a value for them.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.jsonstore-db)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: json or bolt (default: json)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		a.newInitCmd(),
		a.newVersionCmd(),
		a.newCreateCmd(),
		a.newListCmd(),
		a.newDropCmd(),
		a.newInsertCmd(),
		a.newQueryCmd(),
		a.newGetCmd(),
		a.newUpdateCmd(),
		a.newDeleteCmd(),
		a.newRenameCmd(),
		a.newSortCmd(),
		a.newSortColumnsCmd(),
		a.newShowCmd(),
		a.newSchemaCmd(),
		a.newExportCmd(),
	)
	return root
}

// setup loads configuration and the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.started = true

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.config = v

	logger, err := newLogger(cmd.ErrOrStderr(), v.GetString(cfgKeyLogLevel))
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// storeConfig resolves the Manager configuration from flags, config.yaml
// and the environment.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend: a.config.GetString(cfgKeyBackend),
		DataDir: dataDir,
		Indent:  a.config.GetInt(cfgKeyIndent),
	}, nil
}

// open returns a Manager for the resolved configuration. The caller must
// Close it.
func (a *app) open() (*store.Manager, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, err
	}
	m, err := store.Open(cfg, store.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return m, nil
}

// withManager opens a Manager, runs fn and closes the Manager again.
func (a *app) withManager(fn func(m *store.Manager) error) error {
	m, err := a.open()
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

// Run executes the CLI with args and returns the exit code. Errors are
// written once to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	if !a.started {
		err = fmt.Errorf("%w: %w", errUsage, err)
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
