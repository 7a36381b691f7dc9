// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/node2spec/node2spec/internal/parser"
	"github.com/node2spec/node2spec/pkg/types"
)

// descriptionMarkers are the keys, besides displayName and name, that identify
// an object literal as a node description.
var descriptionMarkers = []string{"properties", "version", "defaultVersion", "group", "inputs"}

// Description is the node-level metadata found in a description object literal.
type Description struct {
	// DisplayName is the human-facing node name
	DisplayName string

	// Name is the stable node identifier
	Name string

	// Description is the node description text
	Description string

	// Group holds the node group tags
	Group []string

	// Version is the declared `version` value
	Version *types.Version

	// DefaultVersion is the declared `defaultVersion` value of a dispatching wrapper
	DefaultVersion *float64
}

// ExtractDescription returns the first description object literal in the file.
// The defaultVersion key is read from defaultVersionKey when it is non-empty.
func ExtractDescription(pf *parser.ParsedFile, defaultVersionKey string) (*Description, bool) {
	if pf == nil || pf.RootNode == nil {
		return nil, false
	}
	if defaultVersionKey == "" {
		defaultVersionKey = "defaultVersion"
	}

	var found *Description
	parser.Walk(pf.RootNode, func(node *sitter.Node) bool {
		if found != nil {
			return false
		}
		if node.Type() != "object" {
			return true
		}

		pairs := objectPairs(node, pf.Content)
		displayName, _ := parser.InterpretString(pairs["displayName"], pf.Content)
		name, _ := parser.InterpretString(pairs["name"], pf.Content)
		if displayName == "" || name == "" || !hasMarker(pairs, defaultVersionKey) {
			return true
		}

		d := &Description{DisplayName: displayName, Name: name}
		d.Description, _ = parser.InterpretString(pairs["description"], pf.Content)
		d.Version = versionValue(pairs["version"], pf.Content)
		if v, ok := parser.InterpretNumber(pairs[defaultVersionKey], pf.Content); ok {
			d.DefaultVersion = &v
		}
		if group, ok := parser.Interpret(pairs["group"], pf.Content); ok {
			d.Group = stringList(group)
		}

		found = d
		return false
	})

	return found, found != nil
}

// Fill copies fields that are empty on d from other.
func (d *Description) Fill(other *Description) {
	if other == nil {
		return
	}
	if d.DisplayName == "" {
		d.DisplayName = other.DisplayName
	}
	if d.Name == "" {
		d.Name = other.Name
	}
	if d.Description == "" {
		d.Description = other.Description
	}
	if len(d.Group) == 0 {
		d.Group = other.Group
	}
	if d.Version == nil {
		d.Version = other.Version
	}
}

// Apply writes the description metadata onto a schema.
func (d *Description) Apply(s *types.NodeSchema) {
	if d == nil {
		return
	}
	s.DisplayName = d.DisplayName
	s.Name = d.Name
	s.Description = d.Description
	s.Group = d.Group
	s.Version = d.Version
}

func objectPairs(node *sitter.Node, content []byte) map[string]*sitter.Node {
	pairs := make(map[string]*sitter.Node)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "pair" {
			continue
		}
		if key := parser.PairKey(child, content); key != "" {
			pairs[key] = parser.PairValue(child)
		}
	}
	return pairs
}

func hasMarker(pairs map[string]*sitter.Node, defaultVersionKey string) bool {
	if _, ok := pairs[defaultVersionKey]; ok {
		return true
	}
	for _, key := range descriptionMarkers {
		if _, ok := pairs[key]; ok {
			return true
		}
	}
	return false
}

func versionValue(node *sitter.Node, content []byte) *types.Version {
	v, ok := parser.Interpret(node, content)
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case float64:
		return types.SingleVersion(val)
	case []any:
		var list []float64
		for _, item := range val {
			if f, ok := item.(float64); ok {
				list = append(list, f)
			}
		}
		if len(list) > 0 {
			return types.ListVersion(list...)
		}
	}
	return nil
}

func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
