// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package resolve

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/node2spec/node2spec/internal/parser"
	"github.com/node2spec/node2spec/internal/util"
)

// DefaultBaseType is the supertype that marks a versioned dispatching wrapper.
const DefaultBaseType = "VersionedNodeType"

// Override remaps a declared default version to a different implementation
// version for one node whose versions are not laid out linearly.
type Override struct {
	// Node is the wrapper base name the rule applies to (case-insensitive)
	Node string

	// MinVersion is the lowest declared default version the rule applies to
	MinVersion float64

	// UseVersion is the implementation version to use instead
	UseVersion int
}

// Dispatcher detects versioned wrappers and locates their implementations.
type Dispatcher struct {
	// BaseTypes are the supertypes that mark a wrapper
	BaseTypes []string

	// DefaultVersionKey is the description key holding the default version
	DefaultVersionKey string

	// Overrides are checked in order; the first matching rule wins
	Overrides []Override
}

// NewDispatcher creates a dispatcher, filling in defaults for empty settings.
func NewDispatcher(baseTypes []string, defaultVersionKey string, overrides []Override) *Dispatcher {
	if len(baseTypes) == 0 {
		baseTypes = []string{DefaultBaseType}
	}
	if defaultVersionKey == "" {
		defaultVersionKey = "defaultVersion"
	}
	return &Dispatcher{
		BaseTypes:         baseTypes,
		DefaultVersionKey: defaultVersionKey,
		Overrides:         overrides,
	}
}

// Wrapper describes a detected dispatching wrapper.
type Wrapper struct {
	// Path is the wrapper file
	Path string

	// Class is the wrapper class name
	Class string

	// BaseName is the wrapper file stem without version suffix
	BaseName string

	// DefaultVersion is the declared default version
	DefaultVersion float64
}

// Detect reports whether the file declares a wrapper class: a class extending
// one of the base types whose body assigns a numeric default version.
func (d *Dispatcher) Detect(pf *parser.ParsedFile) (*Wrapper, bool) {
	if pf == nil {
		return nil, false
	}

	for _, class := range pf.Classes {
		if !class.Extends(d.BaseTypes...) {
			continue
		}
		version, ok := d.findDefaultVersion(class.Node, pf.Content)
		if !ok {
			continue
		}
		base, _, _ := util.SplitVersionSuffix(util.FileStem(pf.Path))
		return &Wrapper{
			Path:           pf.Path,
			Class:          class.Name,
			BaseName:       base,
			DefaultVersion: version,
		}, true
	}

	return nil, false
}

func (d *Dispatcher) findDefaultVersion(node *sitter.Node, content []byte) (float64, bool) {
	var (
		version float64
		found   bool
	)
	parser.Walk(node, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() != "pair" || parser.PairKey(n, content) != d.DefaultVersionKey {
			return true
		}
		if v, ok := parser.InterpretNumber(parser.PairValue(n), content); ok {
			version, found = v, true
		}
		return false
	})
	return version, found
}

// TargetVersion returns the implementation version for a wrapper: the floor of
// its default version, unless an override rule for the base name applies.
func (d *Dispatcher) TargetVersion(baseName string, defaultVersion float64) int {
	for _, o := range d.Overrides {
		if strings.EqualFold(o.Node, baseName) && defaultVersion >= o.MinVersion {
			return o.UseVersion
		}
	}
	return int(math.Floor(defaultVersion))
}

// Locate finds the implementation file of the wrapper for the given version.
//
// It tries <dir>/V<n>/<Base>V<n>.node.ts, then the lower-case v<n> directory,
// then scans sibling version directories (the target version first, then the
// others from newest to oldest) for a source file whose name contains the base
// name. Declarations and tests are skipped, and a .node. file is preferred.
func (d *Dispatcher) Locate(w *Wrapper, version int) (string, bool) {
	dir := filepath.Dir(w.Path)
	fileName := fmt.Sprintf("%sV%d.node.ts", w.BaseName, version)

	for _, versionDir := range []string{fmt.Sprintf("V%d", version), fmt.Sprintf("v%d", version)} {
		path := filepath.Join(dir, versionDir, fileName)
		if isFile(path) {
			return path, true
		}
	}

	return scanVersionDirs(dir, w.BaseName, float64(version))
}

type versionDir struct {
	name    string
	version float64
}

func scanVersionDirs(dir, baseName string, target float64) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var dirs []versionDir
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if v, ok := util.ParseVersionDir(entry.Name()); ok {
			dirs = append(dirs, versionDir{name: entry.Name(), version: v})
		}
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		iExact, jExact := dirs[i].version == target, dirs[j].version == target
		if iExact != jExact {
			return iExact
		}
		if dirs[i].version != dirs[j].version {
			return dirs[i].version > dirs[j].version
		}
		return dirs[i].name < dirs[j].name
	})

	for _, vd := range dirs {
		files, err := os.ReadDir(filepath.Join(dir, vd.name))
		if err != nil {
			continue
		}
		var fallback string
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.Contains(name, baseName) || !isSourceFile(name) {
				continue
			}
			if strings.Contains(name, ".node.") {
				return filepath.Join(dir, vd.name, name), true
			}
			if fallback == "" {
				fallback = name
			}
		}
		if fallback != "" {
			return filepath.Join(dir, vd.name, fallback), true
		}
	}

	return "", false
}
