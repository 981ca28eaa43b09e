package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/syssam/dbcmd/compiler/gen"
	"github.com/syssam/dbcmd/compiler/load"
)

// errDiagnostics is returned when a declaration is blocked by an error
// diagnostic. The diagnostics themselves are already printed.
var errDiagnostics = errors.New("declarations have errors")

// app holds the flags and the logger shared by all subcommands.
type app struct {
	stdout, stderr io.Writer
	logger         *zap.Logger

	verbose    bool
	configFile string
	dir        string
	naming     string
	header     string
	workers    int
	cacheDir   string
	tags       []string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return (&app{stdout: stdout, stderr: stderr}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dbcmd",
		Short: "Generate data access code for annotated command structs",
		Long: `dbcmd reads Go structs annotated with //dbcmd: directives and generates,
next to each of them, a Params method returning its named parameters and,
for commands with command text and a result contract, a typed function
executing it against a data source.

Settings are read from dbcmd.yaml when present; flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			a.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.configFile, "config", gen.DefaultConfigFile, "Configuration file")
	flags.StringVarP(&a.dir, "dir", "C", "", "Directory package patterns are resolved in (default: current)")
	flags.StringVar(&a.naming, "naming", "", "Default naming policy: identity or snake_case")
	flags.StringVar(&a.header, "header", "", "Comment placed at the top of every generated file")
	flags.IntVarP(&a.workers, "workers", "j", 0, "Declarations compiled in parallel (default: GOMAXPROCS)")
	flags.StringVar(&a.cacheDir, "cache-dir", "", "Directory caching generated files between runs")
	flags.StringSliceVar(&a.tags, "tags", nil, "Build tags used when loading packages")

	root.AddCommand(
		&cobra.Command{
			Use:   "generate [packages]",
			Short: "Generate code for the declarations of the packages",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.generate(cmd, args, true)
			},
		},
		&cobra.Command{
			Use:   "check [packages]",
			Short: "Report diagnostics without writing files",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.generate(cmd, args, false)
			},
		},
		a.watchCmd(),
	)
	return root
}

// config builds the generator configuration: the configuration file first,
// then the flags set on the command line.
func (a *app) config(cmd *cobra.Command) (*gen.Config, error) {
	var opts []gen.Option
	path := a.configFile
	if a.dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(a.dir, path)
	}
	if _, err := os.Stat(path); err == nil || cmd.Flags().Changed("config") {
		fc, err := gen.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("read configuration", zap.String("path", path))
		opts = append(opts, fc.Options()...)
	}
	if cmd.Flags().Changed("naming") {
		opts = append(opts, gen.WithNamingName(a.naming))
	}
	if cmd.Flags().Changed("header") {
		opts = append(opts, gen.WithHeader(a.header))
	}
	if cmd.Flags().Changed("workers") {
		opts = append(opts, gen.WithWorkers(a.workers))
	}
	if cmd.Flags().Changed("cache-dir") {
		opts = append(opts, gen.WithCacheDir(a.cacheDir))
	}
	if len(a.tags) > 0 {
		opts = append(opts, gen.WithBuildFlags("-tags="+strings.Join(a.tags, ",")))
	}
	return gen.NewConfig(opts...)
}

// patterns returns the package patterns of a run: the arguments, the
// configured packages, or the current package.
func patterns(args []string, cfg *gen.Config) []string {
	switch {
	case len(args) > 0:
		return args
	case len(cfg.Patterns) > 0:
		return cfg.Patterns
	default:
		return []string{"."}
	}
}

func (a *app) generate(cmd *cobra.Command, args []string, write bool) error {
	cfg, err := a.config(cmd)
	if err != nil {
		return err
	}
	_, err = a.run(cmd.Context(), gen.NewGenerator(cfg), patterns(args, cfg), write)
	return err
}

// run loads the packages, runs the generator and prints the diagnostics.
func (a *app) run(ctx context.Context, g *gen.Generator, pats []string, write bool) (*load.Set, error) {
	set, err := load.Load(ctx, &load.Config{Dir: a.dir, BuildFlags: g.Config().BuildFlags}, pats...)
	if err != nil {
		return nil, gen.NewLoadError(pats, err)
	}
	var report *gen.Report
	if write {
		report, err = g.Run(ctx, set)
	} else {
		report, err = g.Check(ctx, set)
	}
	if err != nil {
		return set, err
	}
	for _, d := range report.Diagnostics() {
		fmt.Fprintln(a.stderr, d)
	}
	for _, path := range report.Written {
		a.logger.Debug("wrote file", zap.String("path", path))
	}
	a.logger.Info("generation finished",
		zap.String("run_id", report.RunID),
		zap.Int("declarations", len(report.Results)),
		zap.Int("written", len(report.Written)),
		zap.Int("cache_hits", report.CacheHits),
		zap.Duration("duration", report.Duration),
	)
	if report.HasErrors() {
		return set, errDiagnostics
	}
	return set, nil
}
