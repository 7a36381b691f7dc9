// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/node2spec/node2spec/internal/config"
	"github.com/node2spec/node2spec/internal/database"
	"github.com/node2spec/node2spec/internal/extractor"
	"github.com/node2spec/node2spec/internal/resolve"
	"github.com/node2spec/node2spec/internal/scanner"
	"github.com/node2spec/node2spec/pkg/types"
)

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfgFile != "" {
		printVerbose("Using config file: %s", cfgFile)
	} else if path := config.ConfigFilePath(); path != "" {
		printVerbose("Using config file: %s", path)
	}

	if output != "" {
		cfg.Output.Path = output
		cfg.Output.Format = database.FormatFromPath(output)
	}
	if format != "" {
		cfg.Output.Format = format
	}
	return cfg, nil
}

// scanPaths returns paths from args or, when none are given, from the config.
func scanPaths(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Source.Paths
}

// extractorOptions converts the configuration into extractor options.
func extractorOptions(cfg *config.Config) extractor.Options {
	opts := extractor.Options{
		BaseTypes:          cfg.Dispatch.BaseTypes,
		DefaultVersionKey:  cfg.Dispatch.DefaultVersionKey,
		ExpandConditionals: cfg.Extraction.ExpandConditionals,
		Dedupe:             cfg.Extraction.Dedupe,
	}
	for _, o := range cfg.Dispatch.Overrides {
		opts.Overrides = append(opts.Overrides, resolve.Override{
			Node:       o.Node,
			MinVersion: o.MinVersion,
			UseVersion: o.UseVersion,
		})
	}
	return opts
}

// discoverFiles scans every path for node root files.
func discoverFiles(cfg *config.Config, paths []string) ([]scanner.SourceFile, error) {
	s := scanner.New(scanner.Config{
		IncludePatterns: cfg.Source.Include,
		ExcludePatterns: cfg.Source.Exclude,
	})
	files, err := s.ScanPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}
	return files, nil
}

// extractFromCode discovers node files and runs extraction over them.
func extractFromCode(ctx context.Context, cfg *config.Config, paths []string, logger *log.Logger) (*types.RunDatabase, error) {
	files, err := discoverFiles(cfg, paths)
	if err != nil {
		return nil, err
	}
	printVerbose("Scanned %d node files", len(files))

	db, err := extractor.New(extractorOptions(cfg), logger).Run(ctx, scanner.Paths(files))
	if err != nil {
		return nil, fmt.Errorf("failed to extract nodes: %w", err)
	}
	return db, nil
}

// writeOutputs persists the full database and its quality projection.
func writeOutputs(cfg *config.Config, db *types.RunDatabase) error {
	writer := database.NewWriter()

	if err := writer.WriteFile(db, cfg.Output.Path, cfg.Output.Format); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output.Path, err)
	}
	filtered := database.FilterQuality(db)
	if err := writer.WriteFile(filtered, cfg.Output.FilteredPath, cfg.Output.Format); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output.FilteredPath, err)
	}
	return nil
}

// printSummary prints the run statistics of a database.
func printSummary(db *types.RunDatabase) {
	printInfo("Nodes:      %d", db.NodeCount)
	printInfo("Quality:    %d high, %d medium, %d low",
		db.QualityCounts.High, db.QualityCounts.Medium, db.QualityCounts.Low)
	printInfo("Parameters: %d total, %.1f average", db.TotalParameters, db.AverageParameters)
	if len(db.Issues) > 0 {
		printInfo("Issues:     %d", len(db.Issues))
		for _, issue := range db.Issues {
			printVerbose("  - %s", issue)
		}
	}
}
