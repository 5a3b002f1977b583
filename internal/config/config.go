// Package config loads recipes settings from defaults, an optional YAML file,
// RECIPES_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idilsaglam/recipes/internal/form"
	"github.com/idilsaglam/recipes/internal/ui"
)

// DefaultEndpoint is the create-resource endpoint used when none is configured.
const DefaultEndpoint = "https://reqres.in/api/users"

const envPrefix = "RECIPES"

// Config is the resolved configuration.
type Config struct {
	Endpoint string
	Theme    string

	LogFile  string
	LogLevel string

	TraceEnabled bool
	TraceFile    string

	Ordering form.Ordering

	// File is the config file that was read, if any.
	File string
}

// flag name -> config key
var flagKeys = map[string]string{
	"endpoint": "endpoint",
	"theme":    "theme",
}

// Load resolves the configuration. path may be empty, in which case the
// default location is tried and silently skipped when absent. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("theme", "classic")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.file", "recipes-trace.json")
	v.SetDefault("validation.ordering", "latest")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		file = defaultPath()
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			switch {
			case path == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
				file = ""
			default:
				return Config{}, fmt.Errorf("read config %s: %w", file, err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	ordering, err := form.ParseOrdering(v.GetString("validation.ordering"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Endpoint:     strings.TrimSpace(v.GetString("endpoint")),
		Theme:        strings.ToLower(strings.TrimSpace(v.GetString("theme"))),
		LogFile:      v.GetString("log.file"),
		LogLevel:     v.GetString("log.level"),
		TraceEnabled: v.GetBool("trace.enabled"),
		TraceFile:    v.GetString("trace.file"),
		Ordering:     ordering,
		File:         file,
	}
	if cfg.Endpoint == "" {
		return Config{}, errors.New("endpoint must not be empty")
	}
	if !slices.Contains(ui.Themes(), cfg.Theme) {
		return Config{}, fmt.Errorf("unknown theme %q (want one of %s)", cfg.Theme, strings.Join(ui.Themes(), ", "))
	}
	return cfg, nil
}

// defaultPath is $XDG_CONFIG_HOME/recipes/config.yaml (or the OS equivalent)
// when that file exists.
func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "recipes", "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}
