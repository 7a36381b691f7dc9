// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/node2spec/node2spec/internal/database"
)

var (
	extractMerge          bool
	extractDryRun         bool
	extractNoExpand       bool
	extractDedupe         bool
	extractInclude        []string
	extractExclude        []string
	extractFilteredOutput string
)

var extractCmd = &cobra.Command{
	Use:     "extract [paths...]",
	Aliases: []string{"generate"},
	Short:   "Extract node parameter schemas from source code",
	Long: `Extract parameter schemas by analyzing plug-in node source files.

The extract command scans for node root files, resolves imported parameter
lists, layered modules and versioned wrappers, selects the best implementation
of every node and writes two documents: the full database and a projection
holding only high and medium quality nodes.

Example:
  node2spec extract                               # Extract from current directory
  node2spec extract ./packages/nodes-base/nodes   # Extract from specific paths
  node2spec extract --merge                       # Keep nodes missing from this run
  node2spec extract --no-expand                   # Skip conditional parameters
  node2spec extract --dry-run                     # Preview without writing`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractMerge, "merge", false, "merge with the existing database")
	extractCmd.Flags().BoolVar(&extractDryRun, "dry-run", false, "preview the summary without writing files")
	extractCmd.Flags().BoolVar(&extractNoExpand, "no-expand", false, "do not derive conditional parameters")
	extractCmd.Flags().BoolVar(&extractDedupe, "dedupe", false, "drop repeated parameters")
	extractCmd.Flags().StringSliceVarP(&extractInclude, "include", "i", nil, "glob patterns selecting node files")
	extractCmd.Flags().StringSliceVarP(&extractExclude, "exclude", "e", nil, "glob patterns to exclude")
	extractCmd.Flags().StringVar(&extractFilteredOutput, "filtered-output", "", "quality projection path (default: nodes.quality.json)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if len(extractInclude) > 0 {
		cfg.Source.Include = extractInclude
	}
	if len(extractExclude) > 0 {
		cfg.Source.Exclude = extractExclude
	}
	if extractNoExpand {
		cfg.Extraction.ExpandConditionals = false
	}
	if extractDedupe {
		cfg.Extraction.Dedupe = true
	}
	if extractFilteredOutput != "" {
		cfg.Output.FilteredPath = extractFilteredOutput
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	paths := scanPaths(cfg, args)

	printVerbose("Configuration:")
	printVerbose("  Output: %s", cfg.Output.Path)
	printVerbose("  Filtered output: %s", cfg.Output.FilteredPath)
	printVerbose("  Format: %s", cfg.Output.Format)
	printVerbose("  Expand conditionals: %t", cfg.Extraction.ExpandConditionals)
	printVerbose("  Paths: %s", strings.Join(paths, ", "))

	db, err := extractFromCode(cmd.Context(), cfg, paths, newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	if extractMerge {
		existing, err := database.ReadFile(cfg.Output.Path)
		switch {
		case err == nil:
			before := db.NodeCount
			db = database.MergeDefault(existing, db)
			printVerbose("Merged %d node(s) from %s", db.NodeCount-before, cfg.Output.Path)
		case errors.Is(err, fs.ErrNotExist):
			printVerbose("No existing database at %s, nothing to merge", cfg.Output.Path)
		default:
			return fmt.Errorf("failed to read existing database: %w", err)
		}
	}

	printSummary(db)

	if extractDryRun {
		printInfo("Dry run mode - no files were written")
		return nil
	}

	if err := writeOutputs(cfg, db); err != nil {
		return err
	}

	printInfo("Wrote %s", cfg.Output.Path)
	if cfg.Output.FilteredPath != "" {
		printInfo("Wrote %s", cfg.Output.FilteredPath)
	}
	return nil
}
