// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/node2spec/node2spec/internal/config"
)

var (
	initForce       bool
	initInteractive bool
	initBaseTypes   []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new node2spec configuration file",
	Long: `Initialize a new node2spec configuration file in the current directory.

This command creates a node2spec.yaml file with sensible defaults
that you can customize for your project.

Features:
  - Detects common node source directories
  - Reads the package name from package.json
  - Sets up appropriate exclude patterns

Example:
  node2spec init                                  # Detect node directories and create config
  node2spec init --force                          # Overwrite existing config
  node2spec init --interactive                    # Interactive mode with prompts
  node2spec init --base-type VersionedNodeType    # Set wrapper supertypes`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().StringSliceVar(&initBaseTypes, "base-type", nil, "supertypes marking versioned wrappers")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "node2spec.yaml"

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()

	if output != "" {
		cfg.Output.Path = output
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if len(initBaseTypes) > 0 {
		cfg.Dispatch.BaseTypes = initBaseTypes
	}

	info := detectProjectInfo(projectRoot)
	if info.Name != "" {
		printVerbose("Detected package: %s", info.Name)
	}

	nodeDirs := detectNodeDirectories(projectRoot)
	if len(nodeDirs) > 0 {
		cfg.Source.Paths = nodeDirs
		printVerbose("Detected node directories: %s", strings.Join(nodeDirs, ", "))
	}

	if initInteractive && isTerminal() {
		cfg, err = interactiveInit(cfg, os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := buildConfigYAML(cfg, info)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Output: %s", cfg.Output.Path)
	printVerbose("Paths: %s", strings.Join(cfg.Source.Paths, ", "))

	return nil
}

// projectInfo holds information detected from the project.
type projectInfo struct {
	Name        string
	Description string
}

// detectProjectInfo reads the package name and description from package.json.
func detectProjectInfo(projectRoot string) projectInfo {
	var info projectInfo

	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return info
	}

	var pkg struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return info
	}

	info.Name = pkg.Name
	info.Description = pkg.Description
	return info
}

// nodeDirectoryCandidates are the layouts checked by detectNodeDirectories,
// most specific first.
var nodeDirectoryCandidates = []string{
	"packages/nodes-base/nodes",
	"nodes",
	"src/nodes",
	"src",
}

// detectNodeDirectories returns the first common node source directory that
// exists under the project root, or "." when there is none.
func detectNodeDirectories(projectRoot string) []string {
	for _, dir := range nodeDirectoryCandidates {
		fullPath := filepath.Join(projectRoot, filepath.FromSlash(dir))
		if stat, err := os.Stat(fullPath); err == nil && stat.IsDir() {
			return []string{"./" + dir}
		}
	}
	return []string{"."}
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts for configuration options. An empty answer keeps
// the current value.
func interactiveInit(cfg *config.Config, in io.Reader, out io.Writer) (*config.Config, error) {
	reader := bufio.NewReader(in)

	prompt := func(label, current string) (string, error) {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return current, nil
		}
		return answer, nil
	}

	paths, err := prompt("Source paths (comma separated)", strings.Join(cfg.Source.Paths, ","))
	if err != nil {
		return nil, err
	}
	cfg.Source.Paths = splitList(paths)

	if cfg.Output.Path, err = prompt("Output file", cfg.Output.Path); err != nil {
		return nil, err
	}
	if cfg.Output.FilteredPath, err = prompt("Quality output file", cfg.Output.FilteredPath); err != nil {
		return nil, err
	}
	if cfg.Output.Format, err = prompt("Output format (json/yaml)", cfg.Output.Format); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// buildConfigYAML builds a YAML config with a comment header.
func buildConfigYAML(cfg *config.Config, info projectInfo) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# node2spec configuration file\n")
	if info.Name != "" {
		fmt.Fprintf(&sb, "# project: %s\n", info.Name)
	}
	if info.Description != "" {
		fmt.Fprintf(&sb, "# %s\n", info.Description)
	}
	sb.WriteString("\n")
	sb.Write(data)

	return []byte(sb.String()), nil
}
