// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package database assembles, filters, compares and persists run databases.
package database

import (
	"slices"

	"github.com/node2spec/node2spec/pkg/types"
)

// Stats is a run-wide accumulator. It is a value: Add returns the updated
// copy and never mutates the receiver.
type Stats struct {
	// Nodes is the number of folded schemas
	Nodes int

	// High, Medium and Low count schemas per quality tier
	High   int
	Medium int
	Low    int

	// TotalParameters is the sum of parameter counts
	TotalParameters int
}

// Add folds one schema into the statistics.
func (s Stats) Add(schema *types.NodeSchema) Stats {
	if schema == nil {
		return s
	}

	s.Nodes++
	s.TotalParameters += len(schema.Parameters)
	switch schema.ExtractionQuality {
	case types.QualityHigh:
		s.High++
	case types.QualityMedium:
		s.Medium++
	default:
		s.Low++
	}
	return s
}

// Average returns parameters per node, 0 when there are no nodes.
func (s Stats) Average() float64 {
	if s.Nodes == 0 {
		return 0
	}
	return float64(s.TotalParameters) / float64(s.Nodes)
}

// Apply writes the statistics onto a database.
func (s Stats) Apply(db *types.RunDatabase) {
	db.NodeCount = s.Nodes
	db.QualityCounts = types.QualityCounts{High: s.High, Medium: s.Medium, Low: s.Low}
	db.TotalParameters = s.TotalParameters
	db.AverageParameters = s.Average()
}

// Compute folds every node of a database, in key order.
func Compute(nodes map[string]*types.NodeSchema) Stats {
	var s Stats
	for _, key := range sortedKeys(nodes) {
		s = s.Add(nodes[key])
	}
	return s
}

// Recompute refreshes the statistics of db from its nodes.
func Recompute(db *types.RunDatabase) {
	Compute(db.Nodes).Apply(db)
}

// Filter returns a projection of db holding only nodes of the given tiers,
// with statistics recomputed. db is not modified.
func Filter(db *types.RunDatabase, tiers ...types.Quality) *types.RunDatabase {
	out := types.NewRunDatabase(db.GeneratedAt)
	out.Issues = append(out.Issues, db.Issues...)

	for key, schema := range db.Nodes {
		if schema != nil && slices.Contains(tiers, schema.ExtractionQuality) {
			out.Nodes[key] = schema
		}
	}

	Recompute(out)
	return out
}

// FilterQuality keeps high and medium quality nodes.
func FilterQuality(db *types.RunDatabase) *types.RunDatabase {
	return Filter(db, types.QualityHigh, types.QualityMedium)
}

func sortedKeys(nodes map[string]*types.NodeSchema) []string {
	keys := make([]string, 0, len(nodes))
	for key := range nodes {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
