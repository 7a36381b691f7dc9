// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// moduleExtensions are appended, in order, to a specifier that does not name a file.
var moduleExtensions = []string{".ts", ".js", ".json"}

// ModulePath resolves an import specifier relative to the importing file.
// Only relative specifiers ("./x", "../x") are resolved. It tries the literal
// path, then the path with each module extension, then an index file inside a
// directory of that name.
func ModulePath(fromFile, specifier string) (string, bool) {
	if !isRelative(specifier) {
		return "", false
	}

	base := filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(specifier))

	candidates := make([]string, 0, 1+2*len(moduleExtensions))
	candidates = append(candidates, base)
	for _, ext := range moduleExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range moduleExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}

	for _, candidate := range candidates {
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
