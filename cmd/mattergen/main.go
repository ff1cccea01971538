// Command mattergen generates immutable value types and mutable builders
// for interfaces marked with //matter:generate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	goversion "github.com/caarlos0/go-version"
	"github.com/google/uuid"

	"github.com/syssam/matter/compiler/emit"
	"github.com/syssam/matter/compiler/gen"
	"github.com/syssam/matter/compiler/load"
)

var (
	version   = "0.1.0"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""

	debug      = flag.Bool("debug", false, "Enable debug logging")
	logFile    = flag.String("log-file", "", "Path to a file where logs should be written. If empty, logs go to stderr.")
	configPath = flag.String("config", "", "Path to a YAML config file")
	output     = flag.String("output", "", "Output directory. Defaults to the source directory.")
	cachePath  = flag.String("cache", "", "Path to the fingerprint cache file. Empty disables caching.")
	workers    = flag.Int("workers", 0, "Number of parallel workers. 0 uses the CPU count.")
	watchMode  = flag.Bool("watch", false, "Watch the source directory and regenerate on changes")
)

func main() {
	flag.Parse()

	var logWriter *os.File
	if *logFile != "" {
		var err error
		logWriter, err = os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			slog.Error("Failed to open log file", "file", *logFile, "error", err)
			os.Exit(1)
		}
		defer logWriter.Close()
	} else {
		logWriter = os.Stderr
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if len(flag.Args()) == 0 && *configPath == "" {
		fmt.Println(buildVersion().String())
		fmt.Println("Usage: mattergen [options] <source_directory>")
		flag.PrintDefaults()
		return
	}

	cfg, err := resolveConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if *watchMode {
		if err := watch(context.Background(), cfg); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := run(context.Background(), cfg); err != nil {
		os.Exit(1)
	}
}

// run executes one full generation pass: load, validate, plan, emit.
func run(ctx context.Context, cfg *config) error {
	log := slog.With("run", uuid.NewString())
	log.Info("Starting mattergen", "dir", cfg.Dir, "patterns", cfg.Patterns)

	targets, err := load.Load(load.Config{Patterns: cfg.Patterns, Dir: cfg.Dir})
	if err != nil {
		log.Error("Load failed", "error", err)
		return err
	}
	if len(targets) == 0 {
		log.Warn("No targets found", "dir", cfg.Dir)
		return nil
	}
	log.Debug("Targets loaded", "count", len(targets))

	var cache *gen.Cache
	if cfg.Cache != "" {
		cache = gen.LoadCache(cfg.Cache)
	}

	collector := &gen.Collector{}
	generator := gen.NewGenerator().
		WithReporter(collector).
		WithCache(cache).
		WithWorkers(cfg.Workers)

	plans, genErr := generator.Generate(ctx, targets)
	for _, d := range collector.Diagnostics() {
		switch d.Severity {
		case gen.SeverityError:
			log.Error(d.Message, "target", d.Target, "field", d.Field)
		default:
			log.Warn(d.Message, "target", d.Target, "field", d.Field)
		}
	}

	if len(plans) > 0 {
		writer := emit.NewWriter(cfg.Output).WithWorkers(cfg.Workers)
		if err := writer.WriteAll(ctx, plans); err != nil {
			log.Error("Write failed", "error", err)
			return err
		}
		m := writer.Metrics()
		log.Info("Generation complete", "files", m.FilesWritten, "bytes", m.TotalBytes)
	} else {
		log.Info("Nothing to generate")
	}

	if cache != nil {
		if err := cache.Save(); err != nil {
			log.Warn("Failed to save cache", "path", cfg.Cache, "error", err)
		}
	}
	if genErr != nil {
		log.Error("Generation finished with failures", "error", genErr)
		return genErr
	}
	return nil
}

var errUsage = errors.New("mattergen: no source directory")

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("mattergen", "Value type and builder generator for Go", "https://github.com/syssam/matter"),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
