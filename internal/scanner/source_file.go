// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner provides discovery of node source files.
package scanner

import (
	"path/filepath"
	"strings"
	"time"
)

// SourceFile represents a discovered node source file.
type SourceFile struct {
	// Path is the absolute path to the file
	Path string

	// Language is the detected language ("typescript", "javascript", "json")
	Language string

	// Size is the file size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time
}

// languageExtensions maps file extensions to language identifiers.
var languageExtensions = map[string]string{
	".ts":   "typescript",
	".mts":  "typescript",
	".cts":  "typescript",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".json": "json",
}

// DetectLanguage detects the language from a file path.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := languageExtensions[ext]; ok {
		return lang
	}
	return ""
}

// SupportedExtensions returns a list of supported file extensions.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(languageExtensions))
	for ext := range languageExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// IsSupportedFile checks if a file path has a supported extension.
// Declaration files (*.d.ts) carry no values and are never supported.
func IsSupportedFile(path string) bool {
	if strings.HasSuffix(strings.ToLower(path), ".d.ts") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := languageExtensions[ext]
	return ok
}
