// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package database

import (
	"github.com/node2spec/node2spec/pkg/types"
)

// MergeOptions configures the merge behavior.
type MergeOptions struct {
	// KeepMissing keeps nodes of the existing database that the new run did not produce.
	KeepMissing bool

	// KeepIssues carries the existing database's issues over.
	KeepIssues bool
}

// DefaultMergeOptions returns the default merge options.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		KeepMissing: true,
		KeepIssues:  false,
	}
}

// Merger combines a previous database with a freshly generated one.
type Merger struct {
	options MergeOptions
}

// NewMerger creates a new Merger with the given options.
func NewMerger(options MergeOptions) *Merger {
	return &Merger{
		options: options,
	}
}

// Merge returns generated plus, depending on the options, the entries of
// existing it lacks. Generated nodes always win. Statistics are recomputed.
func (m *Merger) Merge(existing, generated *types.RunDatabase) *types.RunDatabase {
	if existing == nil {
		return generated
	}

	result := types.NewRunDatabase(generated.GeneratedAt)
	for key, schema := range generated.Nodes {
		result.Nodes[key] = schema
	}
	result.Issues = append(result.Issues, generated.Issues...)

	if m.options.KeepMissing {
		for key, schema := range existing.Nodes {
			if _, ok := result.Nodes[key]; ok || schema == nil {
				continue
			}
			kept := *schema
			kept.ExtractionNotes = append(append([]string(nil), schema.ExtractionNotes...), "kept from previous run")
			result.Nodes[key] = &kept
		}
	}

	if m.options.KeepIssues {
		result.Issues = append(result.Issues, existing.Issues...)
	}

	Recompute(result)
	return result
}

// MergeDefault merges two databases using default options.
func MergeDefault(existing, generated *types.RunDatabase) *types.RunDatabase {
	return NewMerger(DefaultMergeOptions()).Merge(existing, generated)
}
