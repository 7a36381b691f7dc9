// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/node2spec/node2spec/internal/config"
	"github.com/node2spec/node2spec/internal/watch"
)

var watchDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Watch for file changes and re-extract nodes",
	Long: `Watch for file changes and automatically re-extract the node database.

This command runs an initial extraction, then monitors your node sources and
rewrites both output files whenever TypeScript, JavaScript or JSON files
change. It's useful while developing nodes to keep the database current.

Example:
  node2spec watch                          # Watch the configured paths
  node2spec watch ./nodes ./credentials    # Watch specific paths
  node2spec watch --debounce 1000          # Wait 1s before re-extracting`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default: from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	paths := scanPaths(cfg, args)

	printVerbose("Watch configuration:")
	printVerbose("  Debounce: %dms", cfg.Watch.Debounce)
	printVerbose("  Paths: %s", strings.Join(paths, ", "))

	ctx := cmd.Context()

	r := &rebuilder{cmd: cmd, cfg: cfg, paths: paths}
	if err := r.rebuild(ctx, nil); err != nil {
		printError("%v", err)
	}

	watchers, err := newWatchers(cfg, paths, r.rebuild, newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	printInfo("Watching for changes in: %s", strings.Join(paths, ", "))
	printInfo("Press Ctrl+C to stop")

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range watchers {
		g.Go(func() error {
			return w.Run(gctx)
		})
	}
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	printInfo("Stopped watching")
	return nil
}

// newWatchers creates one watcher per root. On failure the watchers created
// so far are closed.
func newWatchers(cfg *config.Config, paths []string, onChange func(context.Context, []string) error,
	logger *log.Logger,
) ([]*watch.Watcher, error) {
	var watchers []*watch.Watcher
	closeAll := func() {
		for _, w := range watchers {
			_ = w.Close()
		}
	}

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		w, err := watch.New(watch.Config{
			BaseDir:  absPath,
			Ignore:   cfg.Source.Exclude,
			Debounce: time.Duration(cfg.Watch.Debounce) * time.Millisecond,
			OnChange: onChange,
			Logger:   logger,
		})
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
		watchers = append(watchers, w)
	}
	return watchers, nil
}

// rebuilder re-extracts the database and writes both outputs. Watchers of
// different roots share one rebuilder, so runs are serialized.
type rebuilder struct {
	mu    sync.Mutex
	cmd   *cobra.Command
	cfg   *config.Config
	paths []string
}

// rebuild is a watch.Config.OnChange callback. Extraction failures are
// reported and swallowed so the watcher keeps running.
func (r *rebuilder) rebuild(ctx context.Context, changed []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(changed) > 0 {
		printInfo("Changed: %s", strings.Join(changed, ", "))
	}

	start := time.Now()
	db, err := extractFromCode(ctx, r.cfg, r.paths, newLogger(r.cmd.ErrOrStderr()))
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		printError("%v", err)
		return nil
	}
	if err := writeOutputs(r.cfg, db); err != nil {
		printError("%v", err)
		return nil
	}

	printInfo("Extracted %d nodes (%d high, %d medium, %d low) in %s",
		db.NodeCount, db.QualityCounts.High, db.QualityCounts.Medium, db.QualityCounts.Low,
		time.Since(start).Round(time.Millisecond))
	return nil
}
