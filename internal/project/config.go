package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors bracecheck.toml.
type Config struct {
	Check  CheckConfig  `toml:"check"`
	Output OutputConfig `toml:"output"`
}

// CheckConfig holds the [check] table.
type CheckConfig struct {
	Columns        string   `toml:"columns"`
	Encoding       string   `toml:"encoding"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	Extensions     []string `toml:"extensions"`
	Exclude        []string `toml:"exclude"`
}

// OutputConfig holds the [output] table.
type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// Manifest is a decoded config file together with where it came from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	// Keys lists the dotted keys present in the file, e.g. "check.columns".
	Keys []string
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Check: CheckConfig{
			Columns:  "legacy",
			Encoding: "utf-8",
			Exclude:  []string{".git", ".hg", ".svn", "node_modules", "vendor"},
		},
		Output: OutputConfig{
			Format: "plain",
			Color:  "auto",
		},
	}
}

var (
	validColumns = []string{"legacy", "exact"}
	validFormats = []string{"plain", "pretty", "short", "json", "yaml", "sarif"}
	validColors  = []string{"auto", "on", "off"}
)

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	if c.Check.Columns != "" && !slices.Contains(validColumns, c.Check.Columns) {
		return fmt.Errorf("check.columns: invalid value %q (expected %s)", c.Check.Columns, strings.Join(validColumns, "|"))
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("check.max_diagnostics: must not be negative, got %d", c.Check.MaxDiagnostics)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("check.jobs: must not be negative, got %d", c.Check.Jobs)
	}
	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("check.extensions: %q must start with '.'", ext)
		}
	}
	if c.Output.Format != "" && !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("output.format: invalid value %q (expected %s)", c.Output.Format, strings.Join(validFormats, "|"))
	}
	if c.Output.Color != "" && !slices.Contains(validColors, c.Output.Color) {
		return fmt.Errorf("output.color: invalid value %q (expected %s)", c.Output.Color, strings.Join(validColors, "|"))
	}
	return nil
}

// LoadConfig decodes and validates the TOML file at path.
func LoadConfig(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	keys := make([]string, 0, len(meta.Keys()))
	for _, k := range meta.Keys() {
		// только листья: таблицы сами по себе значений не несут
		if meta.Type(k...) == "Hash" {
			continue
		}
		keys = append(keys, k.String())
	}

	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		Keys:   keys,
	}, nil
}

// Discover finds and loads the config that applies to target.
// ok is false when no bracecheck.toml exists above target.
func Discover(target string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(target)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// IsDefined reports whether the manifest set the dotted key explicitly.
func (m *Manifest) IsDefined(key string) bool {
	if m == nil {
		return false
	}
	return slices.Contains(m.Keys, key)
}

// Values returns the keys the file set explicitly, as nested tables
// ({"check": {"columns": "exact"}}), ready to be merged over defaults.
func (m *Manifest) Values() map[string]any {
	out := make(map[string]any)
	if m == nil {
		return out
	}
	leaves := map[string]any{
		"check.columns":         m.Config.Check.Columns,
		"check.encoding":        m.Config.Check.Encoding,
		"check.max_diagnostics": m.Config.Check.MaxDiagnostics,
		"check.jobs":            m.Config.Check.Jobs,
		"check.extensions":      m.Config.Check.Extensions,
		"check.exclude":         m.Config.Check.Exclude,
		"output.format":         m.Config.Output.Format,
		"output.color":          m.Config.Output.Color,
	}
	for key, val := range leaves {
		if !m.IsDefined(key) {
			continue
		}
		section, name, _ := strings.Cut(key, ".")
		table, _ := out[section].(map[string]any)
		if table == nil {
			table = make(map[string]any)
			out[section] = table
		}
		table[name] = val
	}
	return out
}
