package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bracecheck/internal/braces"
	"bracecheck/internal/diagfmt"
	"bracecheck/internal/driver"
	"bracecheck/internal/project"
)

const envPrefix = "BRACECHECK"

// settings is the effective configuration after layering
// defaults < bracecheck.toml < BRACECHECK_* environment < flags.
type settings struct {
	Columns        braces.ColumnMode
	Encoding       string
	MaxDiagnostics int
	Jobs           int
	Extensions     []string
	Exclude        []string
	Format         diagfmt.Format
	Color          string
	ConfigPath     string // пусто, если bracecheck.toml не найден
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"check.columns":         "columns",
	"check.encoding":        "encoding",
	"check.max_diagnostics": "max-diagnostics",
	"check.jobs":            "jobs",
	"check.extensions":      "ext",
	"check.exclude":         "exclude",
	"output.format":         "format",
	"output.color":          "color",
}

func setDefaults(v *viper.Viper, d project.Config) {
	v.SetDefault("check.columns", d.Check.Columns)
	v.SetDefault("check.encoding", d.Check.Encoding)
	v.SetDefault("check.max_diagnostics", d.Check.MaxDiagnostics)
	v.SetDefault("check.jobs", d.Check.Jobs)
	v.SetDefault("check.extensions", d.Check.Extensions)
	v.SetDefault("check.exclude", d.Check.Exclude)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.color", d.Output.Color)
}

// loadSettings layers every configuration source for a run on target.
func loadSettings(cmd *cobra.Command, target string) (settings, error) {
	v := viper.New()
	setDefaults(v, project.Defaults())

	manifest, err := findManifest(cmd, target)
	if err != nil {
		return settings{}, err
	}
	if manifest != nil {
		if err := v.MergeConfigMap(manifest.Values()); err != nil {
			return settings{}, fmt.Errorf("%s: %w", manifest.Path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, cmd.Flags()); err != nil {
		return settings{}, err
	}

	set, err := decodeSettings(v)
	if err != nil {
		return settings{}, err
	}
	if manifest != nil {
		set.ConfigPath = manifest.Path
	}
	return set, nil
}

// bindFlags makes explicitly set flags the top configuration layer.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func findManifest(cmd *cobra.Command, target string) (*project.Manifest, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		return project.LoadConfig(configPath)
	}
	start := target
	if target == "-" {
		start = "."
	}
	manifest, _, err := project.Discover(start)
	return manifest, err
}

func decodeSettings(v *viper.Viper) (settings, error) {
	cfg := project.Config{
		Check: project.CheckConfig{
			Columns:        strings.ToLower(strings.TrimSpace(v.GetString("check.columns"))),
			Encoding:       strings.TrimSpace(v.GetString("check.encoding")),
			MaxDiagnostics: v.GetInt("check.max_diagnostics"),
			Jobs:           v.GetInt("check.jobs"),
			Extensions:     normalizeExtensions(splitList(v.GetStringSlice("check.extensions"))),
			Exclude:        splitList(v.GetStringSlice("check.exclude")),
		},
		Output: project.OutputConfig{
			Format: strings.ToLower(strings.TrimSpace(v.GetString("output.format"))),
			Color:  strings.ToLower(strings.TrimSpace(v.GetString("output.color"))),
		},
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}

	columns, err := braces.ParseColumnMode(cfg.Check.Columns)
	if err != nil {
		return settings{}, err
	}
	format, err := diagfmt.ParseFormat(cfg.Output.Format)
	if err != nil {
		return settings{}, err
	}
	color := cfg.Output.Color
	if color == "" {
		color = "auto"
	}

	return settings{
		Columns:        columns,
		Encoding:       cfg.Check.Encoding,
		MaxDiagnostics: cfg.Check.MaxDiagnostics,
		Jobs:           cfg.Check.Jobs,
		Extensions:     cfg.Check.Extensions,
		Exclude:        cfg.Check.Exclude,
		Format:         format,
		Color:          color,
	}, nil
}

// splitList accepts both repeated values and comma separated ones ("a,b").
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	for i, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			exts[i] = "." + ext
		}
	}
	return exts
}

func (s settings) driverOptions() driver.Options {
	return driver.Options{
		Columns:        s.Columns,
		Encoding:       s.Encoding,
		MaxDiagnostics: s.MaxDiagnostics,
		Jobs:           s.Jobs,
		Extensions:     s.Extensions,
		Exclude:        s.Exclude,
	}
}
