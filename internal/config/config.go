package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables before they are mapped
// to keys, e.g. KNOLPACK_OUT_DIR -> out_dir.
const EnvPrefix = "KNOLPACK_"

// Config holds the settings for one run of knolpack.
type Config struct {
	Deck     string `koanf:"deck" validate:"required_with=Source"`
	Source   string `koanf:"source" validate:"required_without=Listen"`
	OutDir   string `koanf:"out_dir" validate:"required"`
	Template string `koanf:"template"`
	ReposDir string `koanf:"repos_dir" validate:"required"`
	Listen   string `koanf:"listen" validate:"omitempty,hostname_port"`
	Inspect  string `koanf:"inspect"`
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
}

// Flags declares the command-line flags. Flag names use dashes; they are
// mapped to the underscore keys of Config. Flag defaults are the config
// defaults.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "Path to a YAML config file")
	fs.String("deck", "", "Name of the exported deck")
	fs.String("source", "", "Markdown file, directory or git URL holding Q:/A: cards")
	fs.String("out-dir", ".", "Directory the .apkg file is written to")
	fs.String("template", "Basic", "Card layout name")
	fs.String("repos-dir", "repos", "Directory git sources are cloned into")
	fs.String("listen", "", "Serve the HTTP export API on this address instead of exporting")
	fs.String("inspect", "", "Print a summary of an existing .apkg file and exit")
	fs.String("log-level", "info", "Log level: debug, info, warn or error")
	return fs
}

// Load parses args and layers the optional YAML file, the environment and
// the flags, in that order. Flags left at their default only fill keys no
// earlier layer set.
func Load(args []string) (*Config, error) {
	fs := Flags("knolpack")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	err = k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Inspect != "" {
		// Inspecting needs neither a deck nor a source.
		return &cfg, nil
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
