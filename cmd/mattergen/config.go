package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// config is the resolved generation configuration: the YAML file first,
// then flags and arguments on top.
type config struct {
	// Dir is the source directory targets are loaded from.
	Dir string `yaml:"dir"`
	// Patterns are package patterns relative to Dir.
	Patterns []string `yaml:"patterns"`
	// Output is the directory generated files are written to.
	Output string `yaml:"output"`
	// Cache is the fingerprint cache file path. Empty disables caching.
	Cache string `yaml:"cache"`
	// Workers bounds generation parallelism. 0 uses the CPU count.
	Workers int `yaml:"workers"`
}

// resolveConfig merges the optional YAML file with command-line flags.
// Flags win over the file; the positional argument wins over both for
// the source directory.
func resolveConfig() (*config, error) {
	cfg := &config{}
	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", *configPath, err)
		}
	}

	if arg := flag.Arg(0); arg != "" {
		cfg.Dir = arg
	}
	if cfg.Dir == "" {
		return nil, errUsage
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"./..."}
	}
	if *output != "" {
		cfg.Output = *output
	}
	if cfg.Output == "" {
		cfg.Output = cfg.Dir
	}
	if *cachePath != "" {
		cfg.Cache = *cachePath
	}
	if cfg.Cache != "" && !filepath.IsAbs(cfg.Cache) {
		cfg.Cache = filepath.Join(cfg.Dir, cfg.Cache)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	return cfg, nil
}
