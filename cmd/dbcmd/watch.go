package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/dbcmd/compiler/gen"
	"github.com/syssam/dbcmd/compiler/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [packages]",
		Short: "Generate code, then regenerate whenever a source file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config(cmd)
			if err != nil {
				return err
			}
			if cfg.Cache == nil {
				cfg.Cache = gen.NewMemoryCache()
			}
			return a.watch(cmd.Context(), gen.NewGenerator(cfg), patterns(args, cfg), debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period after a change before regenerating")
	return cmd
}

// watch runs the generator once, then after every change until ctx is
// canceled. Diagnostics never end the loop; load failures only end it on
// the first run.
func (a *app) watch(ctx context.Context, g *gen.Generator, pats []string, debounce time.Duration) error {
	w, err := watch.New(watch.WithDebounce(debounce), watch.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer w.Close()

	rebuild := func(ctx context.Context) error {
		set, err := a.run(ctx, g, pats, true)
		if set != nil {
			if err := w.Add(set.Dirs...); err != nil {
				return err
			}
		}
		if errors.Is(err, errDiagnostics) {
			return nil
		}
		return err
	}
	if err := rebuild(ctx); err != nil {
		return err
	}
	a.logger.Info("watching for changes", zap.Int("dirs", w.Dirs()), zap.Strings("packages", pats))
	return w.Run(ctx, rebuild)
}
