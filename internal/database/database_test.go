// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/node2spec/node2spec/pkg/types"
)

func node(name string, q types.Quality, params ...string) *types.NodeSchema {
	s := &types.NodeSchema{
		DisplayName:       name,
		Name:              name,
		ExtractionQuality: q,
		ExtractionNotes:   []string{},
		SourceFile:        name + ".node.ts",
	}
	for _, p := range params {
		s.Parameters = append(s.Parameters, types.Parameter{
			Name:  p,
			Type:  "string",
			Usage: types.Usage{ParameterName: p, Snippet: p + `: ""`},
		})
	}
	return s
}

func createTestDB() *types.RunDatabase {
	db := types.NewRunDatabase(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
	db.Nodes["slack"] = node("slack", types.QualityHigh, "a", "b", "c", "d", "e")
	db.Nodes["postgres"] = node("postgres", types.QualityMedium, "table", "query")
	db.Nodes["noop"] = node("noop", types.QualityLow)
	db.Nodes["postgres"].Version = types.ListVersion(2, 2.1)
	db.Issues = append(db.Issues, "x.ts: unresolved import \"./y\"")
	Recompute(db)
	return db
}

func TestStats_Add(t *testing.T) {
	var s Stats
	assert.Equal(t, 0.0, s.Average(), "no division by zero")

	s2 := s.Add(node("a", types.QualityHigh, "p1", "p2", "p3"))
	s3 := s2.Add(node("b", types.QualityLow))
	s4 := s3.Add(nil)

	assert.Equal(t, Stats{}, s, "Add does not mutate the receiver")
	assert.Equal(t, Stats{Nodes: 2, High: 1, Low: 1, TotalParameters: 3}, s4)
	assert.Equal(t, 1.5, s4.Average())
}

func TestRecompute(t *testing.T) {
	db := createTestDB()

	assert.Equal(t, 3, db.NodeCount)
	assert.Equal(t, types.QualityCounts{High: 1, Medium: 1, Low: 1}, db.QualityCounts)
	assert.Equal(t, 7, db.TotalParameters)
	assert.InDelta(t, 7.0/3.0, db.AverageParameters, 1e-9)

	empty := types.NewRunDatabase(time.Now())
	Recompute(empty)
	assert.Equal(t, 0, empty.NodeCount)
	assert.Equal(t, 0.0, empty.AverageParameters)
}

func TestFilterQuality(t *testing.T) {
	full := createTestDB()
	filtered := FilterQuality(full)

	assert.Len(t, filtered.Nodes, 2)
	assert.Equal(t, len(filtered.Nodes), filtered.NodeCount)
	assert.Equal(t, 0, filtered.QualityCounts.Low)
	assert.Equal(t, 7, filtered.TotalParameters)
	assert.Equal(t, full.Issues, filtered.Issues)
	assert.Equal(t, full.GeneratedAt, filtered.GeneratedAt)

	// The source database is untouched.
	assert.Len(t, full.Nodes, 3)
	assert.Equal(t, 3, full.NodeCount)
}

func TestFilteredRoundTripIsSubset(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter()

	full := createTestDB()
	filtered := FilterQuality(full)

	fullPath := filepath.Join(dir, "nodes.json")
	filteredPath := filepath.Join(dir, "nodes.quality.json")
	require.NoError(t, writer.WriteFile(full, fullPath, ""))
	require.NoError(t, writer.WriteFile(filtered, filteredPath, ""))

	readFull, err := ReadFile(fullPath)
	require.NoError(t, err)
	readFiltered, err := ReadFile(filteredPath)
	require.NoError(t, err)

	assert.Equal(t, len(readFiltered.Nodes), readFiltered.NodeCount)
	for key, schema := range readFiltered.Nodes {
		fullSchema, ok := readFull.Nodes[key]
		require.True(t, ok, "filtered node %s missing from full database", key)
		assert.Equal(t, fullSchema, schema)
	}

	// Both documents share the same top-level shape.
	var fullKeys, filteredKeys map[string]json.RawMessage
	data, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fullKeys))
	data, err = os.ReadFile(filteredPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &filteredKeys))
	assert.Equal(t, len(fullKeys), len(filteredKeys))
	for key := range fullKeys {
		assert.Contains(t, filteredKeys, key)
	}
}

func TestWriter_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter().WriteJSON(createTestDB(), &buf))

	output := buf.String()
	assert.Contains(t, output, `"nodeCount": 3`)
	assert.Contains(t, output, `"extractionQuality": "high"`)
	assert.Contains(t, output, `"version": [`)
	assert.Contains(t, output, `"generatedAt": "2026-10-01T12:00:00Z"`)
}

func TestWriter_YAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "nodes.yaml")

	db := createTestDB()
	require.NoError(t, NewWriter().WriteFile(db, path, ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "nodeCount: 3")

	read, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, db.NodeCount, read.NodeCount)
	require.Contains(t, read.Nodes, "postgres")
	assert.Equal(t, []float64{2, 2.1}, read.Nodes["postgres"].Version.Values)
	assert.True(t, read.Nodes["postgres"].Version.IsList)
}

func TestWriter_UnsupportedFormat(t *testing.T) {
	err := NewWriter().WriteFile(createTestDB(), filepath.Join(t.TempDir(), "x.txt"), "toml")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "yaml", FormatFromPath("nodes.yml"))
	assert.Equal(t, "yaml", FormatFromPath("nodes.YAML"))
	assert.Equal(t, "json", FormatFromPath("nodes.json"))
	assert.Equal(t, "json", FormatFromPath("nodes"))
}

func TestReadFile_Errors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadFile(bad)
	assert.Error(t, err)
}

func TestDiffer_Diff(t *testing.T) {
	a := createTestDB()
	b := createTestDB()

	delete(b.Nodes, "noop")
	b.Nodes["airtable"] = node("airtable", types.QualityMedium, "base", "table")
	b.Nodes["slack"] = node("slack", types.QualityMedium, "a", "b", "c", "f")

	result := NewDiffer().Diff(a, b)

	require.Len(t, result.NodeChanges, 3)
	assert.Equal(t, NodeChange{Type: DiffTypeAdded, Name: "airtable"}, result.NodeChanges[0])
	assert.Equal(t, NodeChange{Type: DiffTypeRemoved, Name: "noop", Regression: true}, result.NodeChanges[1])

	slack := result.NodeChanges[2]
	assert.Equal(t, DiffTypeModified, slack.Type)
	assert.True(t, slack.Regression)
	assert.Equal(t, []string{
		"quality high -> medium",
		"parameter removed: d",
		"parameter removed: e",
		"parameter added: f",
	}, slack.Details)

	assert.True(t, result.HasRegressions)
	assert.Equal(t, "1 node(s) added, 1 node(s) removed, 1 node(s) modified [REGRESSIONS DETECTED]", result.Summary)

	formatted := FormatDiff(result)
	assert.Contains(t, formatted, "+ airtable")
	assert.Contains(t, formatted, "- noop")
	assert.Contains(t, formatted, "~ slack")
	assert.Contains(t, formatted, "    parameter added: f")
}

func TestDiffResult_Filter(t *testing.T) {
	a := createTestDB()
	b := createTestDB()
	delete(b.Nodes, "noop")
	b.Nodes["airtable"] = node("airtable", types.QualityMedium, "base")

	result := NewDiffer().Diff(a, b)
	require.True(t, result.HasRegressions)

	filtered := result.Filter(func(c NodeChange) bool { return c.Name != "noop" })
	require.Len(t, filtered.NodeChanges, 1)
	assert.False(t, filtered.HasRegressions)
	assert.Equal(t, "1 node(s) added", filtered.Summary)

	none := result.Filter(func(NodeChange) bool { return false })
	assert.True(t, none.IsEmpty())
	assert.Equal(t, "No changes detected", none.Summary)
}

func TestDiffer_NoChanges(t *testing.T) {
	result := NewDiffer().Diff(createTestDB(), createTestDB())

	assert.True(t, result.IsEmpty())
	assert.False(t, result.HasRegressions)
	assert.Equal(t, "No changes detected", result.Summary)
	assert.Equal(t, "No differences found.", FormatDiff(result))
}

func TestDiffer_AdditionsOnly(t *testing.T) {
	b := createTestDB()
	result := NewDiffer().Diff(nil, b)

	assert.Len(t, result.NodeChanges, 3)
	assert.False(t, result.HasRegressions)
}

func TestMerger_Merge(t *testing.T) {
	existing := createTestDB()
	existing.Nodes["legacy"] = node("legacy", types.QualityMedium, "x", "y")
	existing.Issues = []string{"old issue"}

	generated := types.NewRunDatabase(time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
	generated.Nodes["slack"] = node("slack", types.QualityMedium, "a", "b")
	generated.Issues = []string{"new issue"}
	Recompute(generated)

	merged := MergeDefault(existing, generated)

	assert.Len(t, merged.Nodes, 4)
	assert.Same(t, generated.Nodes["slack"], merged.Nodes["slack"], "generated nodes win")
	assert.Equal(t, []string{"kept from previous run"}, merged.Nodes["legacy"].ExtractionNotes)
	assert.Empty(t, existing.Nodes["legacy"].ExtractionNotes, "existing schemas are not modified")
	assert.Equal(t, []string{"new issue"}, merged.Issues)
	assert.Equal(t, 4, merged.NodeCount)
	assert.Equal(t, generated.GeneratedAt, merged.GeneratedAt)

	strict := NewMerger(MergeOptions{KeepMissing: false, KeepIssues: true}).Merge(existing, generated)
	assert.Len(t, strict.Nodes, 1)
	assert.Equal(t, []string{"new issue", "old issue"}, strict.Issues)

	assert.Same(t, generated, MergeDefault(nil, generated))
}

func ExampleStats_Average() {
	s := Stats{}.
		Add(&types.NodeSchema{Parameters: make([]types.Parameter, 4)}).
		Add(&types.NodeSchema{Parameters: make([]types.Parameter, 1)})
	fmt.Println(s.Nodes, s.TotalParameters, s.Average())
	// Output: 2 5 2.5
}
