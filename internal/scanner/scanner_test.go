// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir creates a temporary directory with test files.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		dir := filepath.Dir(fullPath)
		err := os.MkdirAll(dir, 0o755)
		require.NoError(t, err)
		err = os.WriteFile(fullPath, []byte(content), 0o644)
		require.NoError(t, err)
	}

	return tmpDir
}

func relPaths(t *testing.T, base string, files []SourceFile) []string {
	t.Helper()

	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(base, f.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestNew_DefaultConfig(t *testing.T) {
	scanner := New(Config{})

	assert.NotNil(t, scanner)
	assert.Equal(t, ".", scanner.config.BasePath)
	assert.Equal(t, DefaultIncludePatterns, scanner.config.IncludePatterns)
	assert.Equal(t, DefaultExcludePatterns, scanner.config.ExcludePatterns)
}

func TestNew_CustomConfig(t *testing.T) {
	scanner := New(Config{
		BasePath:        "/custom/path",
		IncludePatterns: []string{"**/*.ts"},
		ExcludePatterns: []string{"vendor/**"},
	})

	assert.Equal(t, "/custom/path", scanner.config.BasePath)
	assert.Equal(t, []string{"**/*.ts"}, scanner.config.IncludePatterns)
	assert.Equal(t, []string{"vendor/**"}, scanner.config.ExcludePatterns)
}

func TestNew_EmptyExcludeDisablesDefaults(t *testing.T) {
	scanner := New(Config{ExcludePatterns: []string{}})
	assert.Empty(t, scanner.config.ExcludePatterns)
}

func TestScanner_Scan_NodeFiles(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"nodes/Slack/Slack.node.ts":            "export class Slack {}",
		"nodes/Slack/SlackDescription.ts":      "export const x = 1;",
		"nodes/Legacy/Legacy.node.js":          "module.exports = {};",
		"nodes/Postgres/v2/PostgresV2.node.ts": "export class PostgresV2 {}",
		"nodes/Postgres/Postgres.node.ts":      "export class Postgres {}",
		"nodes/Postgres/test/Postgres.node.ts": "export class Fixture {}",
		"nodes/Slack/Slack.node.test.ts":       "test()",
		"node_modules/pkg/Vendored.node.ts":    "export class Vendored {}",
		"dist/nodes/Slack/Slack.node.ts":       "export class Built {}",
		"nodes/Slack/__tests__/Helper.node.ts": "export class Helper {}",
		"nodes/Slack/Slack.node.d.ts":          "export declare class Slack {}",
	})

	files, err := New(Config{BasePath: tmpDir}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"nodes/Legacy/Legacy.node.js",
		"nodes/Postgres/Postgres.node.ts",
		"nodes/Postgres/v2/PostgresV2.node.ts",
		"nodes/Slack/Slack.node.ts",
	}, relPaths(t, tmpDir, files))

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path))
		assert.NotZero(t, f.Size)
		assert.False(t, f.ModTime.IsZero())
	}
	assert.Equal(t, "javascript", files[0].Language)
	assert.Equal(t, "typescript", files[1].Language)
}

func TestScanner_Scan_ExcludePatterns(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"a/A.node.ts":         "",
		"b/B.node.ts":         "",
		"generated/G.node.ts": "",
	})

	files, err := New(Config{
		BasePath:        tmpDir,
		ExcludePatterns: []string{"generated/**", "b/*"},
	}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"a/A.node.ts"}, relPaths(t, tmpDir, files))
}

func TestScanner_Scan_EmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	files, err := New(Config{BasePath: tmpDir}).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanner_Scan_NoMatchingFiles(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"README.md":      "# nodes",
		"src/helpers.ts": "export {}",
		"package.json":   "{}",
	})

	files, err := New(Config{BasePath: tmpDir}).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanner_Scan_JSONIncludes(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"nodes/Http/Http.node.json": `[]`,
		"nodes/Http/Http.node.ts":   "",
	})

	files, err := New(Config{
		BasePath:        tmpDir,
		IncludePatterns: []string{"**/*.node.json"},
	}).Scan()
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "json", files[0].Language)
}

func TestScanner_ScanPath_SingleFile(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"Custom.ts": "export class Custom {}",
		"notes.txt": "text",
	})

	scanner := New(Config{})

	// Explicit files bypass the include patterns
	files, err := scanner.ScanPath(filepath.Join(tmpDir, "Custom.ts"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "typescript", files[0].Language)

	files, err = scanner.ScanPath(filepath.Join(tmpDir, "notes.txt"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanner_ScanPath_NonexistentPath(t *testing.T) {
	_, err := New(Config{}).ScanPath("/nonexistent/path/that/does/not/exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path does not exist")
}

func TestScanner_ScanPaths_MultiplePaths(t *testing.T) {
	dir1 := setupTestDir(t, map[string]string{"One/One.node.ts": ""})
	dir2 := setupTestDir(t, map[string]string{"Two/Two.node.ts": ""})

	files, err := New(Config{}).ScanPaths([]string{dir1, dir2})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestScanner_ScanPaths_DeduplicatesFiles(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{"One/One.node.ts": ""})

	files, err := New(Config{}).ScanPaths([]string{tmpDir, tmpDir, filepath.Join(tmpDir, "One")})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestScanner_Scan_ExtensionFilter(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"A/A.node.ts": "",
		"B/B.node.js": "",
	})

	files, err := New(Config{BasePath: tmpDir, Extensions: []string{".TS"}}).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"A/A.node.ts"}, relPaths(t, tmpDir, files))
}

func TestPaths(t *testing.T) {
	files := []SourceFile{{Path: "/a"}, {Path: "/b"}}
	assert.Equal(t, []string{"/a", "/b"}, Paths(files))
	assert.Empty(t, Paths(nil))
}
