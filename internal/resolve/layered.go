// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/node2spec/node2spec/internal/parser"
	"github.com/node2spec/node2spec/internal/schema"
	"github.com/node2spec/node2spec/internal/util"
)

const actionsDir = "actions"

var (
	resourcePattern  = "**/*.resource.*"
	operationPattern = "**/*.operation.*"

	versionDescriptionNames = []string{"versionDescription.ts", "versionDescription.js"}
)

// IsLayered reports whether the node rooted at path uses the layered
// resource/operation structure: an actions directory beside it, a version
// directory in its path, or a version suffix on its file name.
func IsLayered(path string) bool {
	dir := filepath.Dir(path)
	if isDir(filepath.Join(dir, actionsDir)) {
		return true
	}
	for _, segment := range strings.Split(filepath.ToSlash(dir), "/") {
		if util.IsVersionDir(segment) {
			return true
		}
	}
	_, _, ok := util.SplitVersionSuffix(util.FileStem(path))
	return ok
}

// ResolveLayered collects the parameters a node root pulls in from other files.
//
// With an actions directory, every resource file contributes its own
// parameters plus those of the operation modules it imports, and every
// operation file contributes its exported "properties" lists. Without one, the
// root's imported spreads are resolved instead. A versionDescription file is
// folded in last. The root's own parameters are not included.
func (r *Resolver) ResolveLayered(root *parser.ParsedFile) Outcome {
	var out Outcome

	dir := filepath.Dir(root.Path)
	actions := filepath.Join(dir, actionsDir)
	layered := IsLayered(root.Path)

	if layered && isDir(actions) {
		out.Merge(r.walkActions(actions))
	} else {
		out.Merge(r.ResolveImports(root))
	}

	if layered {
		if path, ok := findVersionDescription(dir, actions); ok {
			out.Merge(r.resolveVersionDescription(path))
		}
	}

	return out
}

func (r *Resolver) walkActions(actions string) Outcome {
	var out Outcome

	resources, err := globFiles(actions, resourcePattern)
	if err != nil {
		out.failure(actions, err)
		return out
	}
	operations, err := globFiles(actions, operationPattern)
	if err != nil {
		out.failure(actions, err)
		return out
	}

	r.logger.Debug("walking actions", "dir", actions, "resources", len(resources), "operations", len(operations))

	imported := make(map[string]bool)
	for _, path := range resources {
		pf, err := r.cache.Load(path)
		if err != nil {
			out.failure(path, err)
			continue
		}
		out.Parameters = append(out.Parameters, schema.Extract(pf)...)

		for _, imp := range pf.Imports {
			if !strings.Contains(imp.Module, ".operation") {
				continue
			}
			target, ok := ModulePath(path, imp.Module)
			if !ok {
				out.miss(path, "unresolved operation import %q", imp.Module)
				continue
			}
			imported[target] = true
			out.Merge(r.extractFile(target, ""))
		}
	}

	for _, path := range operations {
		if imported[path] {
			continue
		}
		pf, err := r.cache.Load(path)
		if err != nil {
			out.failure(path, err)
			continue
		}
		out.Parameters = append(out.Parameters, schema.Extract(pf)...)
	}

	if n := len(resources) + len(operations); n > 0 {
		out.Notes = append(out.Notes, fmt.Sprintf("walked %d resource and %d operation files", len(resources), len(operations)))
	}

	return out
}

func (r *Resolver) resolveVersionDescription(path string) Outcome {
	var out Outcome

	pf, err := r.cache.Load(path)
	if err != nil {
		out.failure(path, err)
		return out
	}

	out.Parameters = append(out.Parameters, schema.Extract(pf)...)
	out.Merge(r.ResolveImports(pf))
	out.Notes = append(out.Notes, "included "+filepath.Base(path))
	return out
}

// findVersionDescription looks beside the node root first, then inside actions.
func findVersionDescription(dirs ...string) (string, bool) {
	for _, dir := range dirs {
		for _, name := range versionDescriptionNames {
			path := filepath.Join(dir, name)
			if isFile(path) {
				return path, true
			}
		}
	}
	return "", false
}

// globFiles returns the sorted source files under dir matching pattern.
func globFiles(dir, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s in %s: %w", pattern, dir, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		if !isSourceFile(filepath.Base(match)) {
			continue
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(match)))
	}
	sort.Strings(files)

	return files, nil
}

// isSourceFile reports whether name is a .ts or .js implementation file,
// excluding declarations and tests.
func isSourceFile(name string) bool {
	if strings.HasSuffix(name, ".d.ts") || strings.Contains(name, ".test.") || strings.Contains(name, ".spec.") {
		return false
	}
	switch filepath.Ext(name) {
	case ".ts", ".js":
		return true
	}
	return false
}
