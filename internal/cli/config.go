package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/jsonstore/internal/paths"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "JSONSTORE"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyIndent   = "indent"
	cfgKeyLogLevel = "log_level"

	defaultLogLevel = "warn"
)

// configFile is the structure init writes to config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	Indent   int    `yaml:"indent,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// loadConfig reads config.yaml from configDir using Viper. A missing file is
// not an error. Precedence per key is flag, then JSONSTORE_* environment,
// then config.yaml, then the default. data_dir is read from the file only;
// its flag and environment variable are handled by paths.ResolveDataDir.
func loadConfig(configDir string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendJSON)
	v.SetDefault(cfgKeyIndent, 0)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyBackend, cfgKeyIndent, cfgKeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	if err := v.BindPFlag(cfgKeyBackend, flags.Lookup("backend")); err != nil {
		return nil, fmt.Errorf("bind flag backend: %w", err)
	}
	if err := v.BindPFlag(cfgKeyLogLevel, flags.Lookup("log-level")); err != nil {
		return nil, fmt.Errorf("bind flag log-level: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml in configDir unless it exists.
// It reports whether a file was written.
func writeConfigIfMissing(configDir string, cfg configFile) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# jsonstore configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
