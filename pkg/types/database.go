// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import "time"

// RunDatabase is the top-level document produced by one extraction run.
type RunDatabase struct {
	// GeneratedAt is the generation timestamp
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`

	// NodeCount is the number of entries in Nodes
	NodeCount int `json:"nodeCount" yaml:"nodeCount"`

	// QualityCounts holds the per-tier node counts
	QualityCounts QualityCounts `json:"qualityCounts" yaml:"qualityCounts"`

	// TotalParameters is the sum of parameter counts over all nodes
	TotalParameters int `json:"totalParameters" yaml:"totalParameters"`

	// AverageParameters is TotalParameters / NodeCount, 0 when there are no nodes
	AverageParameters float64 `json:"averageParameters" yaml:"averageParameters"`

	// Nodes maps the logical plug-in identifier to its winning schema
	Nodes map[string]*NodeSchema `json:"nodes" yaml:"nodes"`

	// Issues lists every recoverable failure encountered during the run
	Issues []string `json:"issues" yaml:"issues"`
}

// QualityCounts holds node counts per quality tier.
type QualityCounts struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
}

// NewRunDatabase returns an empty database stamped with the given time.
func NewRunDatabase(generatedAt time.Time) *RunDatabase {
	return &RunDatabase{
		GeneratedAt: generatedAt,
		Nodes:       make(map[string]*NodeSchema),
		Issues:      []string{},
	}
}
