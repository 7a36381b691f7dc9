// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package database

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/node2spec/node2spec/pkg/types"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new item was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates an item was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeModified indicates an item was modified.
	DiffTypeModified DiffType = "modified"
)

// NodeChange represents a change to one node entry.
type NodeChange struct {
	Type DiffType
	Name string

	// Details lists what changed for modified nodes
	Details []string

	// Regression is set for removals, quality drops and dropped parameters
	Regression bool
}

// DiffResult contains the differences between two databases.
type DiffResult struct {
	// NodeChanges contains all node changes, sorted by name.
	NodeChanges []NodeChange

	// HasRegressions indicates a node was removed or lost quality.
	HasRegressions bool

	// Summary provides a human-readable summary of changes.
	Summary string
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.NodeChanges) == 0
}

// Differ compares two run databases.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares two databases and returns the differences.
func (d *Differ) Diff(a, b *types.RunDatabase) *DiffResult {
	result := &DiffResult{NodeChanges: []NodeChange{}}

	aNodes := nodesOf(a)
	bNodes := nodesOf(b)

	for name, aNode := range aNodes {
		bNode, exists := bNodes[name]
		if !exists {
			result.NodeChanges = append(result.NodeChanges, NodeChange{Type: DiffTypeRemoved, Name: name, Regression: true})
			continue
		}
		details, regressed := d.diffNode(aNode, bNode)
		if len(details) > 0 {
			result.NodeChanges = append(result.NodeChanges, NodeChange{
				Type:       DiffTypeModified,
				Name:       name,
				Details:    details,
				Regression: regressed,
			})
		}
	}

	for name := range bNodes {
		if _, exists := aNodes[name]; !exists {
			result.NodeChanges = append(result.NodeChanges, NodeChange{Type: DiffTypeAdded, Name: name})
		}
	}

	sort.Slice(result.NodeChanges, func(i, j int) bool {
		return result.NodeChanges[i].Name < result.NodeChanges[j].Name
	})

	result.finish()
	return result
}

// Filter returns the changes for which keep reports true, with regressions
// and summary recomputed.
func (d *DiffResult) Filter(keep func(NodeChange) bool) *DiffResult {
	filtered := &DiffResult{NodeChanges: []NodeChange{}}
	for _, c := range d.NodeChanges {
		if keep(c) {
			filtered.NodeChanges = append(filtered.NodeChanges, c)
		}
	}
	filtered.finish()
	return filtered
}

func (d *DiffResult) finish() {
	d.HasRegressions = false
	for _, c := range d.NodeChanges {
		if c.Regression {
			d.HasRegressions = true
			break
		}
	}
	d.Summary = generateSummary(d)
}

// diffNode lists the differences between two versions of a node and reports
// whether the change lowers its quality or drops parameters.
func (d *Differ) diffNode(a, b *types.NodeSchema) ([]string, bool) {
	if a == nil || b == nil {
		if a != b {
			return []string{"schema missing"}, b == nil
		}
		return nil, false
	}

	var details []string
	regressed := false

	if a.ExtractionQuality != b.ExtractionQuality {
		details = append(details, fmt.Sprintf("quality %s -> %s", a.ExtractionQuality, b.ExtractionQuality))
		if qualityRank(b.ExtractionQuality) < qualityRank(a.ExtractionQuality) {
			regressed = true
		}
	}

	aParams := parameterNames(a.Parameters)
	bParams := parameterNames(b.Parameters)
	for _, name := range aParams {
		if !slices.Contains(bParams, name) {
			details = append(details, "parameter removed: "+name)
			regressed = true
		}
	}
	for _, name := range bParams {
		if !slices.Contains(aParams, name) {
			details = append(details, "parameter added: "+name)
		}
	}
	if len(a.Parameters) != len(b.Parameters) && len(details) == 0 {
		details = append(details, fmt.Sprintf("parameters %d -> %d", len(a.Parameters), len(b.Parameters)))
	}

	if a.SourceFile != b.SourceFile {
		details = append(details, fmt.Sprintf("source %s -> %s", a.SourceFile, b.SourceFile))
	}

	av, _ := a.Version.Max()
	bv, _ := b.Version.Max()
	if av != bv {
		details = append(details, fmt.Sprintf("version %g -> %g", av, bv))
	}

	return details, regressed
}

func qualityRank(q types.Quality) int {
	switch q {
	case types.QualityHigh:
		return 2
	case types.QualityMedium:
		return 1
	default:
		return 0
	}
}

func parameterNames(params []types.Parameter) []string {
	var names []string
	for _, p := range params {
		if !slices.Contains(names, p.Name) {
			names = append(names, p.Name)
		}
	}
	return names
}

func nodesOf(db *types.RunDatabase) map[string]*types.NodeSchema {
	if db == nil || db.Nodes == nil {
		return map[string]*types.NodeSchema{}
	}
	return db.Nodes
}

// generateSummary creates a human-readable summary of changes.
func generateSummary(result *DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected"
	}

	added, removed, modified := 0, 0, 0
	for _, c := range result.NodeChanges {
		switch c.Type {
		case DiffTypeAdded:
			added++
		case DiffTypeRemoved:
			removed++
		case DiffTypeModified:
			modified++
		}
	}

	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d node(s) added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d node(s) removed", removed))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d node(s) modified", modified))
	}

	summary := strings.Join(parts, ", ")
	if result.HasRegressions {
		summary += " [REGRESSIONS DETECTED]"
	}
	return summary
}

// FormatDiff returns a formatted string representation of the diff.
func FormatDiff(result *DiffResult) string {
	if result.IsEmpty() {
		return "No differences found."
	}

	var sb strings.Builder

	sb.WriteString("=== Node Diff ===\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")

	for _, c := range result.NodeChanges {
		symbol := "  "
		switch c.Type {
		case DiffTypeAdded:
			symbol = "+ "
		case DiffTypeRemoved:
			symbol = "- "
		case DiffTypeModified:
			symbol = "~ "
		}
		sb.WriteString(symbol + c.Name + "\n")
		for _, detail := range c.Details {
			sb.WriteString("    " + detail + "\n")
		}
	}

	return sb.String()
}
