// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Quality is the extraction quality tier of a node schema.
type Quality string

const (
	// QualityHigh marks a complete, well-described schema.
	QualityHigh Quality = "high"

	// QualityMedium marks a typed but thinly described schema.
	QualityMedium Quality = "medium"

	// QualityLow marks everything else.
	QualityLow Quality = "low"
)

// NodeSchema is the canonical result for one logical plug-in.
type NodeSchema struct {
	// DisplayName is the human-facing node name
	DisplayName string `json:"displayName" yaml:"displayName"`

	// Name is the stable node identifier
	Name string `json:"name" yaml:"name"`

	// Description is the free-text node description
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Group holds the node group tags
	Group []string `json:"group,omitempty" yaml:"group,omitempty"`

	// Version is the declared node version
	Version *Version `json:"version,omitempty" yaml:"version,omitempty"`

	// Parameters are the node parameters in discovery order
	Parameters []Parameter `json:"parameters" yaml:"parameters"`

	// ExtractionQuality is the quality tier
	ExtractionQuality Quality `json:"extractionQuality" yaml:"extractionQuality"`

	// ExtractionNotes is the provenance trail, append-only
	ExtractionNotes []string `json:"extractionNotes" yaml:"extractionNotes"`

	// SourceFile is the file the schema was extracted from
	SourceFile string `json:"sourceFile,omitempty" yaml:"sourceFile,omitempty"`
}

// AddNote appends a formatted note to the schema's provenance trail.
func (s *NodeSchema) AddNote(format string, args ...any) {
	s.ExtractionNotes = append(s.ExtractionNotes, fmt.Sprintf(format, args...))
}

// Version is either a single version number or an ordered list of them.
type Version struct {
	Values []float64
	IsList bool
}

// SingleVersion returns a Version holding one number.
func SingleVersion(v float64) *Version {
	return &Version{Values: []float64{v}}
}

// ListVersion returns a Version holding an ordered list of numbers.
func ListVersion(vs ...float64) *Version {
	return &Version{Values: vs, IsList: true}
}

// Max returns the highest version number and whether any was present.
func (v *Version) Max() (float64, bool) {
	if v == nil || len(v.Values) == 0 {
		return 0, false
	}
	return slices.Max(v.Values), true
}

// MarshalJSON encodes a single version as a number and a list as an array.
func (v Version) MarshalJSON() ([]byte, error) {
	if !v.IsList && len(v.Values) == 1 {
		return json.Marshal(v.Values[0])
	}
	return json.Marshal(v.Values)
}

// UnmarshalJSON accepts either a number or an array of numbers.
func (v *Version) UnmarshalJSON(data []byte) error {
	var single float64
	if err := json.Unmarshal(data, &single); err == nil {
		v.Values = []float64{single}
		v.IsList = false
		return nil
	}
	var list []float64
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("version must be a number or a list of numbers: %w", err)
	}
	v.Values = list
	v.IsList = true
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (v Version) MarshalYAML() (any, error) {
	if !v.IsList && len(v.Values) == 1 {
		return v.Values[0], nil
	}
	return v.Values, nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var list []float64
		if err := node.Decode(&list); err != nil {
			return err
		}
		v.Values = list
		v.IsList = true
		return nil
	}
	var single float64
	if err := node.Decode(&single); err != nil {
		return err
	}
	v.Values = []float64{single}
	v.IsList = false
	return nil
}
