// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types defines the public data model produced by node2spec.
package types

// Parameter represents one configurable input of a plug-in node.
type Parameter struct {
	// Name is the stable key of the parameter
	Name string `json:"name" yaml:"name"`

	// DisplayName is the human label
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`

	// Type is the declared type tag (string, options, collection, ...)
	Type string `json:"type" yaml:"type"`

	// Default is the default value, if one was statically visible
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	// Description is the parameter description
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Placeholder is the input placeholder text
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	// Hint is an additional hint shown with the input
	Hint string `json:"hint,omitempty" yaml:"hint,omitempty"`

	// Required reports whether the parameter is marked as required
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Options is the nested option list for options/collection parameters
	Options []any `json:"options,omitempty" yaml:"options,omitempty"`

	// DisplayOptions is the visibility condition
	DisplayOptions *DisplayOptions `json:"displayOptions,omitempty" yaml:"displayOptions,omitempty"`

	// Routing is copied through untouched
	Routing any `json:"routing,omitempty" yaml:"routing,omitempty"`

	// TypeOptions is copied through untouched
	TypeOptions any `json:"typeOptions,omitempty" yaml:"typeOptions,omitempty"`

	// Example is a derived example value
	Example any `json:"example,omitempty" yaml:"example,omitempty"`

	// Usage is the derived usage rendering
	Usage Usage `json:"usage" yaml:"usage"`

	// DerivedFrom names the base parameter of a conditionally expanded entry
	DerivedFrom string `json:"derivedFrom,omitempty" yaml:"derivedFrom,omitempty"`
}

// DisplayOptions holds show/hide visibility rules keyed by sibling parameter name.
type DisplayOptions struct {
	Show map[string]any `json:"show,omitempty" yaml:"show,omitempty"`
	Hide map[string]any `json:"hide,omitempty" yaml:"hide,omitempty"`
}

// Usage renders how a parameter is set.
type Usage struct {
	// ParameterName is the real input to set; for derived parameters it is the base name
	ParameterName string `json:"parameterName" yaml:"parameterName"`

	// Example is the example value
	Example any `json:"example,omitempty" yaml:"example,omitempty"`

	// Snippet is the key and example serialized together
	Snippet string `json:"snippet" yaml:"snippet"`

	// Conditional describes the condition under which a derived parameter applies
	Conditional *ConditionalContext `json:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// ConditionalContext describes the sibling value a derived parameter depends on.
type ConditionalContext struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// IsDerived reports whether the parameter was synthesized by conditional expansion.
func (p Parameter) IsDerived() bool {
	return p.DerivedFrom != ""
}
