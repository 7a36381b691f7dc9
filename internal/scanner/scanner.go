// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludePatterns select node root files.
var DefaultIncludePatterns = []string{"**/*.node.ts", "**/*.node.js"}

// DefaultExcludePatterns skip dependencies, build output and test sources.
var DefaultExcludePatterns = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/*.test.ts",
	"**/*.spec.ts",
	"**/test/**",
	"**/__tests__/**",
	"**/__mocks__/**",
}

// Config holds scanner configuration.
type Config struct {
	// BasePath is the base directory for scanning (defaults to current directory)
	BasePath string

	// IncludePatterns are glob patterns for files to include (e.g., "**/*.node.ts")
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to exclude (e.g., "**/node_modules/**")
	ExcludePatterns []string

	// Extensions filters files by extension (e.g., []string{".ts"})
	// If empty, all supported extensions are included
	Extensions []string
}

// Scanner discovers node source files in a project.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	// Apply defaults
	if config.BasePath == "" {
		config.BasePath = "."
	}
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = DefaultIncludePatterns
	}
	if config.ExcludePatterns == nil {
		config.ExcludePatterns = DefaultExcludePatterns
	}

	return &Scanner{
		config: config,
	}
}

// Scan discovers all source files below the base path.
func (s *Scanner) Scan() ([]SourceFile, error) {
	return s.ScanPath(s.config.BasePath)
}

// ScanPath scans a specific path for source files. Patterns are matched
// against paths relative to the scanned directory. Results are sorted by path.
func (s *Scanner) ScanPath(path string) ([]SourceFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", absPath)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	// An explicitly named file only needs a supported extension
	if !info.IsDir() {
		if !s.hasAllowedExtension(absPath) {
			return nil, nil
		}
		return []SourceFile{newSourceFile(absPath, info)}, nil
	}

	var files []SourceFile
	err = filepath.WalkDir(absPath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip inaccessible paths
			return nil
		}

		relPath, relErr := filepath.Rel(absPath, filePath)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if s.shouldExcludeDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.shouldIncludeFile(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, newSourceFile(filePath, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// ScanPaths scans multiple paths for source files, dropping duplicates.
func (s *Scanner) ScanPaths(paths []string) ([]SourceFile, error) {
	var allFiles []SourceFile
	seen := make(map[string]bool)

	for _, path := range paths {
		files, err := s.ScanPath(path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !seen[f.Path] {
				seen[f.Path] = true
				allFiles = append(allFiles, f)
			}
		}
	}

	return allFiles, nil
}

// Paths returns the paths of the given files.
func Paths(files []SourceFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func newSourceFile(path string, info fs.FileInfo) SourceFile {
	return SourceFile{
		Path:     path,
		Language: DetectLanguage(path),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}
}

func (s *Scanner) hasAllowedExtension(filePath string) bool {
	if len(s.config.Extensions) == 0 {
		return IsSupportedFile(filePath)
	}
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, e := range s.config.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// shouldIncludeFile checks a slash-separated relative path against
// the extension filter and the patterns.
func (s *Scanner) shouldIncludeFile(relPath string) bool {
	if !s.hasAllowedExtension(relPath) {
		return false
	}

	// Check exclude patterns first
	if s.matchesPatterns(relPath, s.config.ExcludePatterns) {
		return false
	}

	return s.matchesPatterns(relPath, s.config.IncludePatterns)
}

// shouldExcludeDir checks if a directory should be excluded.
func (s *Scanner) shouldExcludeDir(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	for _, pattern := range s.config.ExcludePatterns {
		// "vendor" matches "vendor/**"
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")

		if relPath == dirPattern {
			return true
		}

		// Also check if the pattern would match any file in this directory
		matched, _ := doublestar.Match(pattern, relPath+"/dummy.node.ts")
		if matched && strings.HasSuffix(pattern, "/**") {
			return true
		}
	}

	return false
}

// matchesPatterns checks if a path matches any of the given patterns.
func (s *Scanner) matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// Invalid pattern, skip
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
