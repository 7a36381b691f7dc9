// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/node2spec/node2spec/internal/database"
	"github.com/node2spec/node2spec/pkg/types"
)

var (
	printQuality     bool
	printSummaryOnly bool
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print a node database to stdout",
	Long: `Print a node database to standard output.

If a file is provided, it will print that file. Otherwise, it will
extract and print the database from the current sources.

This is useful for piping the output to other tools or for quick inspection.

Example:
  node2spec print                      # Extract and print
  node2spec print nodes.json           # Print existing file
  node2spec print -f yaml              # Print in YAML format
  node2spec print --quality            # Only high and medium quality nodes
  node2spec print | jq '.nodes'        # Pipe to jq for processing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func init() {
	printCmd.Flags().BoolVar(&printQuality, "quality", false, "only print high and medium quality nodes")
	printCmd.Flags().BoolVar(&printSummaryOnly, "summary", false, "print run statistics instead of the database")
}

func runPrint(cmd *cobra.Command, args []string) error {
	var (
		db  *types.RunDatabase
		err error
	)

	outputFormat := format

	if len(args) > 0 {
		db, err = database.ReadFile(args[0])
		if err != nil {
			return err
		}
		if outputFormat == "" {
			outputFormat = database.FormatFromPath(args[0])
		}
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if db, err = extractCurrent(cmd, cfg); err != nil {
			return err
		}
		if outputFormat == "" {
			outputFormat = cfg.Output.Format
		}
	}

	printVerbose("Print configuration:")
	printVerbose("  Format: %s", outputFormat)
	printVerbose("  Quality only: %t", printQuality)

	if printQuality {
		db = database.FilterQuality(db)
	}

	out := cmd.OutOrStdout()

	if printSummaryOnly {
		fmt.Fprintf(out, "nodes: %d\n", db.NodeCount)
		fmt.Fprintf(out, "high: %d\nmedium: %d\nlow: %d\n",
			db.QualityCounts.High, db.QualityCounts.Medium, db.QualityCounts.Low)
		fmt.Fprintf(out, "parameters: %d\naverage: %.2f\nissues: %d\n",
			db.TotalParameters, db.AverageParameters, len(db.Issues))
		return nil
	}

	writer := database.NewWriter()
	switch outputFormat {
	case "yaml", "yml":
		return writer.WriteYAML(db, out)
	case "json", "":
		return writer.WriteJSON(db, out)
	default:
		return fmt.Errorf("unsupported format: %s", outputFormat)
	}
}
