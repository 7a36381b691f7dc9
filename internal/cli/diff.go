// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/node2spec/node2spec/internal/config"
	"github.com/node2spec/node2spec/internal/database"
	"github.com/node2spec/node2spec/pkg/types"
)

var (
	diffIgnore           []string
	diffFailOnRegression bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [file1] [file2]",
	Short: "Compare two node databases",
	Long: `Compare two node databases and show the differences.

If only one file is provided, it will be compared against a database
extracted from the current sources.

If no files are provided, the configured output database will be compared
against what would be extracted from the current sources.

Example:
  node2spec diff                           # Compare current vs extracted
  node2spec diff nodes.json                # Compare file vs extracted
  node2spec diff old.json new.yaml         # Compare two files
  node2spec diff --ignore "Legacy*"        # Ignore nodes matching a pattern
  node2spec diff --fail-on-regression      # Exit with an error on regressions`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringSliceVar(&diffIgnore, "ignore", nil, "node name patterns to ignore in comparison")
	diffCmd.Flags().BoolVar(&diffFailOnRegression, "fail-on-regression", false, "return an error when regressions are found")
}

func runDiff(cmd *cobra.Command, args []string) error {
	printVerbose("Diff configuration:")
	printVerbose("  Fail on regression: %t", diffFailOnRegression)

	var (
		before, after *types.RunDatabase
		err           error
	)

	switch len(args) {
	case 2:
		printVerbose("Comparing %s against %s", args[0], args[1])
		if before, err = database.ReadFile(args[0]); err != nil {
			return err
		}
		if after, err = database.ReadFile(args[1]); err != nil {
			return err
		}
	default:
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		path := cfg.Output.Path
		if len(args) == 1 {
			path = args[0]
		}
		printVerbose("Comparing %s against extracted", path)

		if before, err = database.ReadFile(path); err != nil {
			return err
		}
		if after, err = extractCurrent(cmd, cfg); err != nil {
			return err
		}
	}

	result := applyIgnorePatterns(database.NewDiffer().Diff(before, after), diffIgnore)

	fmt.Fprintln(cmd.OutOrStdout(), database.FormatDiff(result))

	if diffFailOnRegression && result.HasRegressions {
		return fmt.Errorf("regressions detected")
	}
	return nil
}

// extractCurrent extracts a database from the configured source paths.
func extractCurrent(cmd *cobra.Command, cfg *config.Config) (*types.RunDatabase, error) {
	return extractFromCode(cmd.Context(), cfg, cfg.Source.Paths, newLogger(cmd.ErrOrStderr()))
}
