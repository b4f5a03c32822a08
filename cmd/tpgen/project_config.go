package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"
)

const configFileName = "tpgen.toml"

const (
	defaultHeader          = "tp_interface.h"
	defaultImpl            = "tp_interface.c"
	defaultAllowlistFormat = "list"
)

// projectConfig mirrors tpgen.toml. Environment variables override the file.
type projectConfig struct {
	Schema schemaConfig `toml:"schema"`
	Output outputConfig `toml:"output"`
}

type schemaConfig struct {
	Path string `toml:"path" env:"TPGEN_SCHEMA,overwrite"`
}

type outputConfig struct {
	Header           string `toml:"header" env:"TPGEN_HEADER,overwrite"`
	Impl             string `toml:"impl" env:"TPGEN_IMPL,overwrite"`
	TracepointHeader string `toml:"tracepoint_header" env:"TPGEN_TRACEPOINT_HEADER,overwrite"`
	HeaderInclude    string `toml:"header_include" env:"TPGEN_HEADER_INCLUDE,overwrite"`
	Allowlist        string `toml:"allowlist" env:"TPGEN_ALLOWLIST,overwrite"`
	AllowlistFormat  string `toml:"allowlist_format" env:"TPGEN_ALLOWLIST_FORMAT,overwrite"`
	Stamp            string `toml:"stamp" env:"TPGEN_STAMP,overwrite"`
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectConfig decodes path. Filesystem paths are resolved against the
// file's directory; include paths are kept verbatim.
func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	root := filepath.Dir(path)
	for _, p := range []*string{
		&cfg.Schema.Path,
		&cfg.Output.Header,
		&cfg.Output.Impl,
		&cfg.Output.Allowlist,
		&cfg.Output.Stamp,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(root, filepath.FromSlash(*p))
		}
	}
	return cfg, nil
}

// resolveProjectConfig layers tpgen.toml, TPGEN_* variables and flags, in
// increasing precedence. configPath may be empty to search upwards.
func resolveProjectConfig(ctx context.Context, configPath string, lookuper envconfig.Lookuper, flags *pflag.FlagSet) (projectConfig, error) {
	var cfg projectConfig
	if configPath == "" {
		found, ok, err := findConfig(".")
		if err != nil {
			return cfg, err
		}
		if ok {
			configPath = found
		}
	}
	if configPath != "" {
		loaded, err := loadProjectConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := applyOutputFlags(flags, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Output.Header == "" {
		cfg.Output.Header = defaultHeader
	}
	if cfg.Output.Impl == "" {
		cfg.Output.Impl = defaultImpl
	}
	if cfg.Output.AllowlistFormat == "" {
		cfg.Output.AllowlistFormat = defaultAllowlistFormat
	}
	return cfg, nil
}

// applyOutputFlags copies explicitly set flags over cfg.
func applyOutputFlags(flags *pflag.FlagSet, cfg *projectConfig) error {
	if flags == nil {
		return nil
	}
	bindings := map[string]*string{
		"header":            &cfg.Output.Header,
		"impl":              &cfg.Output.Impl,
		"tracepoint-header": &cfg.Output.TracepointHeader,
		"header-include":    &cfg.Output.HeaderInclude,
		"allowlist":         &cfg.Output.Allowlist,
		"allowlist-format":  &cfg.Output.AllowlistFormat,
		"format":            &cfg.Output.AllowlistFormat,
		"stamp":             &cfg.Output.Stamp,
	}
	for name, dst := range bindings {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	return nil
}

// schemaPath picks the positional argument over the configured path.
func schemaPath(cfg projectConfig, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Schema.Path != "" {
		return cfg.Schema.Path, nil
	}
	return "", fmt.Errorf("no schema given\nplease pass it explicitly or set [schema].path in %s, e.g.:\n  tpgen generate tracepoints.toml", configFileName)
}
