package types

import "errors"

// Config holds backend selection and parameters for opening a Manager.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
	// Indent is the number of spaces used when writing documents. Zero
	// selects DefaultIndent; a negative value writes compact JSON.
	Indent int `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// Supported backend names.
const (
	// BackendJSON stores each table as <name>.json in DataDir.
	BackendJSON = "json"
	// BackendBolt stores every table document in DataDir/jsonstore.db.
	BackendBolt = "bolt"
)

// DefaultIndent is the indentation used when Config.Indent is zero.
const DefaultIndent = 4

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON: true,
	BackendBolt: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// IndentWidth resolves Indent to the number of spaces to write, with zero
// meaning DefaultIndent and a negative value meaning compact output.
func (c Config) IndentWidth() int {
	switch {
	case c.Indent == 0:
		return DefaultIndent
	case c.Indent < 0:
		return 0
	default:
		return c.Indent
	}
}
