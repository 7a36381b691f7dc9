// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package schema turns declarative parameter literals into parameter records
// and post-processes the resulting lists.
package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/node2spec/node2spec/internal/parser"
	"github.com/node2spec/node2spec/pkg/types"
)

// Extract returns every parameter declared in the file, in source order.
//
// A `properties: [...]` pair and every exported array binding of parameter
// objects are consumed. Elements that are not parameter objects are skipped.
// Consumed arrays are not entered again, so nested lists are never counted twice.
func Extract(pf *parser.ParsedFile) []types.Parameter {
	if pf == nil || pf.RootNode == nil {
		return nil
	}

	var params []types.Parameter
	parser.Walk(pf.RootNode, func(node *sitter.Node) bool {
		switch node.Type() {
		case "pair":
			if parser.PairKey(node, pf.Content) != "properties" {
				return true
			}
			if arr := arrayValue(parser.PairValue(node)); arr != nil {
				params = append(params, extractArray(arr, pf.Content)...)
				return false
			}
		case "variable_declarator":
			if !isExportedDeclarator(node) {
				return true
			}
			// An exported array holding no parameter objects may still nest
			// `properties` pairs, so only a productive array is consumed.
			if arr := arrayValue(node.ChildByFieldName("value")); arr != nil {
				if found := extractArray(arr, pf.Content); len(found) > 0 {
					params = append(params, found...)
					return false
				}
			}
		}
		return true
	})

	return params
}

// ExtractBinding returns the parameters of one exported array binding.
// The second result is false when the file exports no array under that name.
func ExtractBinding(pf *parser.ParsedFile, name string) ([]types.Parameter, bool) {
	if pf == nil {
		return nil, false
	}
	binding, ok := pf.ExportedBinding(name)
	if !ok {
		return nil, false
	}
	arr := arrayValue(binding.Value)
	if arr == nil {
		return nil, false
	}
	return extractArray(arr, pf.Content), true
}

// ExtractJSON returns the parameters of every "properties" array in a JSON document.
// A top-level array is treated as a parameter list itself.
func ExtractJSON(data []byte) ([]types.Parameter, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if list, ok := doc.([]any); ok {
		return fromValues(list), nil
	}

	var params []types.Parameter
	var visit func(v any)
	visit = func(v any) {
		switch val := v.(type) {
		case map[string]any:
			if list, ok := val["properties"].([]any); ok {
				params = append(params, fromValues(list)...)
			}
			for _, key := range slices.Sorted(maps.Keys(val)) {
				if key == "properties" {
					continue
				}
				visit(val[key])
			}
		case []any:
			for _, child := range val {
				visit(child)
			}
		}
	}
	visit(doc)

	return params, nil
}

func fromValues(list []any) []types.Parameter {
	var params []types.Parameter
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if p, ok := ParameterFromMap(m); ok {
			params = append(params, p)
		}
	}
	return params
}

// ParameterFromMap builds a Parameter from an interpreted object literal.
// It returns false unless both "name" and "type" are non-empty strings.
func ParameterFromMap(m map[string]any) (types.Parameter, bool) {
	name, _ := m["name"].(string)
	typ, _ := m["type"].(string)
	if name == "" || typ == "" {
		return types.Parameter{}, false
	}

	p := types.Parameter{
		Name:        name,
		Type:        typ,
		Default:     m["default"],
		Routing:     m["routing"],
		TypeOptions: m["typeOptions"],
	}
	p.DisplayName, _ = m["displayName"].(string)
	p.Description, _ = m["description"].(string)
	p.Placeholder, _ = m["placeholder"].(string)
	p.Hint, _ = m["hint"].(string)
	p.Required, _ = m["required"].(bool)

	if options, ok := m["options"].([]any); ok {
		p.Options = options
	}

	if display, ok := m["displayOptions"].(map[string]any); ok {
		opts := &types.DisplayOptions{}
		opts.Show, _ = display["show"].(map[string]any)
		opts.Hide, _ = display["hide"].(map[string]any)
		if opts.Show != nil || opts.Hide != nil {
			p.DisplayOptions = opts
		}
	}

	p.Example = exampleValue(p)
	p.Usage = types.Usage{
		ParameterName: p.Name,
		Example:       p.Example,
		Snippet:       Snippet(p.Name, p.Example),
	}

	return p, true
}

// exampleValue picks a representative value: the default, else the first
// option value, else a placeholder for the declared type.
func exampleValue(p types.Parameter) any {
	if p.Default != nil && p.Default != "" {
		return p.Default
	}

	for _, opt := range p.Options {
		if m, ok := opt.(map[string]any); ok {
			if v, ok := m["value"]; ok {
				return v
			}
		}
	}

	switch p.Type {
	case "boolean":
		return false
	case "number":
		return 0.0
	case "string":
		if p.Placeholder != "" {
			return p.Placeholder
		}
		return ""
	case "collection", "fixedCollection", "json":
		return map[string]any{}
	case "multiOptions":
		return []any{}
	}

	return nil
}

// Snippet renders a key and its example as a single "key: value" line.
func Snippet(key string, example any) string {
	value, err := json.Marshal(example)
	if err != nil {
		value = []byte(fmt.Sprint(example))
	}
	return key + ": " + string(value)
}

func extractArray(arr *sitter.Node, content []byte) []types.Parameter {
	var params []types.Parameter
	for i := 0; i < int(arr.NamedChildCount()); i++ {
		element := parser.Unwrap(arr.NamedChild(i))
		if element == nil || element.Type() != "object" {
			continue
		}
		v, ok := parser.Interpret(element, content)
		if !ok {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if p, ok := ParameterFromMap(m); ok {
			params = append(params, p)
		}
	}
	return params
}

func arrayValue(node *sitter.Node) *sitter.Node {
	node = parser.Unwrap(node)
	if node == nil || node.Type() != "array" {
		return nil
	}
	return node
}

// isExportedDeclarator reports whether a variable_declarator sits directly in an
// exported lexical or variable declaration.
func isExportedDeclarator(node *sitter.Node) bool {
	decl := node.Parent()
	if decl == nil {
		return false
	}
	if decl.Type() != "lexical_declaration" && decl.Type() != "variable_declaration" {
		return false
	}
	parent := decl.Parent()
	return parent != nil && parent.Type() == "export_statement"
}
