// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a command and returns output and error.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default before and after a test,
// since the commands are package-level and keep parsed values.
func resetFlags(t *testing.T) {
	t.Helper()

	reset := func() {
		visit := func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		}
		for _, cmd := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
			cmd.Flags().VisitAll(visit)
			cmd.PersistentFlags().VisitAll(visit)
		}
	}

	reset()
	t.Cleanup(reset)
}

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// writeFiles creates files relative to dir.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for path, content := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

// nodeFile renders a node with n typed and described parameters.
func nodeFile(class, name string, n int) string {
	var props strings.Builder
	for i := range n {
		fmt.Fprintf(&props, `
			{ displayName: 'Field %d', name: 'field%d', type: 'string', default: '', description: 'Field %d' },`,
			i, i, i)
	}
	return fmt.Sprintf(`
export class %s implements INodeType {
	description: INodeTypeDescription = {
		displayName: '%s',
		name: '%s',
		version: 1,
		properties: [%s
		],
	};
}
`, class, class, name, props.String())
}

// setupProject creates a project with one high and one low quality node and
// makes it the working directory.
func setupProject(t *testing.T) string {
	t.Helper()
	resetFlags(t)

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"nodes/Slack/Slack.node.ts": nodeFile("Slack", "slack", 6),
		"nodes/Noop/Noop.node.ts":   nodeFile("Noop", "noop", 1),
	})
	chdir(t, dir)
	return dir
}

func TestRootCommand_Help(t *testing.T) {
	resetFlags(t)

	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "node2spec")
	assert.Contains(t, output, "extracts parameter schemas")
	assert.Contains(t, output, "Available Commands")
	assert.Contains(t, output, "extract")
	assert.Contains(t, output, "init")
	assert.Contains(t, output, "check")
	assert.Contains(t, output, "diff")
	assert.Contains(t, output, "watch")
	assert.Contains(t, output, "print")
	assert.Contains(t, output, "version")
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	resetFlags(t)

	tests := []struct {
		name     string
		flag     string
		expected string
	}{
		{
			name:     "config flag short",
			flag:     "-c",
			expected: "config file",
		},
		{
			name:     "config flag long",
			flag:     "--config",
			expected: "config file",
		},
		{
			name:     "output flag",
			flag:     "--output",
			expected: "output file path",
		},
		{
			name:     "format flag",
			flag:     "--format",
			expected: "output format",
		},
		{
			name:     "verbose flag",
			flag:     "--verbose",
			expected: "verbose output",
		},
		{
			name:     "quiet flag",
			flag:     "--quiet",
			expected: "suppress",
		},
	}

	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, output, tt.flag)
			assert.Contains(t, output, tt.expected)
		})
	}
}

func TestCommandHelp(t *testing.T) {
	tests := []struct {
		command  string
		contains []string
	}{
		{"init", []string{"Initialize a new node2spec configuration file", "--force", "--interactive"}},
		{"extract", []string{"Extract parameter schemas", "--merge", "--dry-run", "--no-expand", "--include"}},
		{"generate", []string{"Extract parameter schemas"}},
		{"check", []string{"matches your current sources", "--strict", "--ignore", "--ci"}},
		{"diff", []string{"Compare two node databases", "--fail-on-regression"}},
		{"watch", []string{"Watch for file changes", "--debounce"}},
		{"print", []string{"Print a node database", "--quality", "--summary"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			resetFlags(t)

			output, err := executeCommand(rootCmd, tt.command, "--help")
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t)

	output, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)

	assert.Contains(t, output, "node2spec")
	assert.Contains(t, output, "Commit")
	assert.Contains(t, output, "Build Date")
	assert.Contains(t, output, "Grammar")
	assert.Contains(t, output, "Go Version")
	assert.Contains(t, output, "OS/Arch")

	output, err = executeCommand(rootCmd, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", output)
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Contains(t, info, "node2spec")
	assert.Contains(t, info, "commit")
	assert.Contains(t, info, "built")
}
