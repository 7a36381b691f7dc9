// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/node2spec/node2spec/internal/database"
)

// Exit codes for check command
const (
	ExitCodeMatch      = 0 // Database matches the sources
	ExitCodeDifference = 1 // Database differs from the sources
	ExitCodeCheckError = 2 // Error during analysis
)

var (
	checkStrict      bool
	checkIgnore      []string
	checkCI          bool
	checkRegressions bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check if the stored database matches the current sources",
	Long: `Check validates that the stored node database matches your current sources.

This command extracts nodes from the sources and compares them with the
existing database. It's useful for CI pipelines to ensure the database is
regenerated whenever node definitions change.

Exit codes:
  0  Database matches the sources
  1  Database differs from the sources
  2  Error during analysis

Example:
  node2spec check                        # Basic validation
  node2spec check --regressions-only     # Only fail on removed nodes or lost quality
  node2spec check --ci                   # CI mode with appropriate exit codes
  node2spec check --ignore "Legacy*"     # Ignore nodes matching a pattern`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", true, "fail on any difference")
	checkCmd.Flags().StringSliceVar(&checkIgnore, "ignore", nil, "node name patterns to ignore in comparison")
	checkCmd.Flags().BoolVar(&checkCI, "ci", false, "CI mode: use exit codes for status")
	checkCmd.Flags().BoolVar(&checkRegressions, "regressions-only", false, "only fail on regressions")
}

// checkExit exits with code in CI mode and otherwise returns err.
func checkExit(code int, err error) error {
	if checkCI {
		if err != nil {
			printError("%v", err)
		}
		os.Exit(code)
	}
	return err
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return checkExit(ExitCodeCheckError, err)
	}

	if err := cfg.Validate(); err != nil {
		return checkExit(ExitCodeCheckError, fmt.Errorf("invalid configuration: %w", err))
	}

	paths := scanPaths(cfg, args)

	printVerbose("Check configuration:")
	printVerbose("  Strict mode: %t", checkStrict)
	printVerbose("  CI mode: %t", checkCI)
	if len(checkIgnore) > 0 {
		printVerbose("  Ignored patterns: %s", strings.Join(checkIgnore, ", "))
	}
	printVerbose("  Paths: %s", strings.Join(paths, ", "))
	printVerbose("  Database: %s", cfg.Output.Path)

	if _, err := os.Stat(cfg.Output.Path); os.IsNotExist(err) {
		printError("Database not found: %s", cfg.Output.Path)
		printInfo("Run 'node2spec extract' first to create the database")
		return checkExit(ExitCodeDifference, fmt.Errorf("database not found: %s", cfg.Output.Path))
	}

	existing, err := database.ReadFile(cfg.Output.Path)
	if err != nil {
		return checkExit(ExitCodeCheckError, fmt.Errorf("failed to read existing database: %w", err))
	}

	generated, err := extractFromCode(cmd.Context(), cfg, paths, newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return checkExit(ExitCodeCheckError, err)
	}

	result := applyIgnorePatterns(database.NewDiffer().Diff(existing, generated), checkIgnore)

	if result.IsEmpty() {
		printInfo("Database is in sync with the sources")
		return checkExit(ExitCodeMatch, nil)
	}

	printInfo("Database differs from the sources:\n")
	printInfo("%s", result.Summary)
	printInfo("")

	for _, change := range result.NodeChanges {
		printInfo("  %s %s", getChangeSymbol(change.Type), change.Name)
		for _, detail := range change.Details {
			printVerbose("      %s", detail)
		}
	}
	printInfo("")

	if result.HasRegressions {
		printError("Regressions detected!")
	}

	printInfo("Run 'node2spec extract' to update the database")

	failed := checkStrict
	if checkRegressions {
		failed = result.HasRegressions
	}
	if failed {
		return checkExit(ExitCodeDifference, fmt.Errorf("database differs from the sources"))
	}
	return checkExit(ExitCodeMatch, nil)
}

// applyIgnorePatterns drops changes to nodes matching any pattern.
func applyIgnorePatterns(result *database.DiffResult, patterns []string) *database.DiffResult {
	if len(patterns) == 0 {
		return result
	}
	return result.Filter(func(c database.NodeChange) bool {
		return !matchesAnyPattern(c.Name, patterns)
	})
}

// matchesAnyPattern checks if a node name matches any of the glob patterns.
func matchesAnyPattern(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// getChangeSymbol returns a symbol for the change type.
func getChangeSymbol(diffType database.DiffType) string {
	switch diffType {
	case database.DiffTypeAdded:
		return "+"
	case database.DiffTypeRemoved:
		return "-"
	case database.DiffTypeModified:
		return "~"
	default:
		return "?"
	}
}
