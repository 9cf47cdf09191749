// Package config loads tada settings from defaults, a TOML file, the
// environment and command line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDataFile = "todos.json"
	DefaultTitle    = "Todos"
	DefaultTheme    = "classic"
	DefaultLogLevel = "warn"

	projectConfigName = "tada.toml"
)

var (
	themes    = []string{"classic", "neon", "mono"}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Config is the merged runtime configuration.
type Config struct {
	DataFile string `toml:"data_file"`
	Title    string `toml:"title"`
	Theme    string `toml:"theme"`
	LogLevel string `toml:"log_level"`
	Group    bool   `toml:"group"`

	// Path of the config file that was applied, empty when none was found.
	Source string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataFile: DefaultDataFile,
		Title:    DefaultTitle,
		Theme:    DefaultTheme,
		LogLevel: DefaultLogLevel,
	}
}

type flagValues struct {
	config   string
	file     string
	theme    string
	logLevel string
	group    bool
}

// Load registers the root flags on fs, parses args and merges every source.
// It returns the config and the positional arguments left after the flags.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	var fv flagValues
	fs.StringVar(&fv.config, "config", "", "path to a TOML config file")
	fs.StringVar(&fv.file, "file", "", "todo data file (overrides config)")
	fs.StringVar(&fv.theme, "theme", "", "output theme: classic, neon or mono")
	fs.StringVar(&fv.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.BoolVar(&fv.group, "group", false, "group output by pending/done")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := Default()

	path := fv.config
	if path == "" {
		path = os.Getenv("TADA_CONFIG")
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.Source = path
	}

	loadFromEnv(cfg)
	applyFlags(cfg, fs, fv)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TADA_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TADA_TITLE"); v != "" {
		cfg.Title = v
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// applyFlags copies only the flags that were set explicitly.
func applyFlags(cfg *Config, fs *flag.FlagSet, fv flagValues) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.DataFile = fv.file
		case "theme":
			cfg.Theme = fv.theme
		case "log-level":
			cfg.LogLevel = fv.logLevel
		case "group":
			cfg.Group = fv.group
		}
	})
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("data_file is empty"))
	}
	if !contains(themes, strings.ToLower(c.Theme)) {
		errs = append(errs, fmt.Errorf("theme %q: want one of %s", c.Theme, strings.Join(themes, ", ")))
	}
	if !contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level %q: want one of %s", c.LogLevel, strings.Join(logLevels, ", ")))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DataPath resolves DataFile against dir when it is relative.
func (c *Config) DataPath(dir string) string {
	p := expandHome(c.DataFile)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

func findConfigFile() string {
	if _, err := os.Stat(projectConfigName); err == nil {
		return projectConfigName
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "tada", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
