// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package resolve follows cross-file references of node sources: imported
// parameter lists, layered resource/operation modules and versioned wrappers.
package resolve

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/node2spec/node2spec/internal/parser"
	"github.com/node2spec/node2spec/internal/schema"
	"github.com/node2spec/node2spec/pkg/types"
)

// Outcome is the contribution of one resolution step.
type Outcome struct {
	// Parameters are the contributed parameters in discovery order
	Parameters []types.Parameter

	// Notes are provenance notes for the owning schema
	Notes []string

	// Issues are run-wide issue strings
	Issues []string
}

// Merge appends other to o.
func (o *Outcome) Merge(other Outcome) {
	o.Parameters = append(o.Parameters, other.Parameters...)
	o.Notes = append(o.Notes, other.Notes...)
	o.Issues = append(o.Issues, other.Issues...)
}

// miss records a resolution miss as both a note and an issue.
func (o *Outcome) miss(path, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	o.Notes = append(o.Notes, msg)
	o.Issues = append(o.Issues, path+": "+msg)
}

// failure records a read or parse failure as an issue.
func (o *Outcome) failure(path string, err error) {
	o.Issues = append(o.Issues, fmt.Sprintf("%s: %v", path, err))
}

// Resolver loads and extracts referenced files through a shared parse cache.
type Resolver struct {
	cache    *parser.Cache
	registry *schema.Registry
	logger   *log.Logger
}

// New creates a resolver. A nil logger discards output.
func New(cache *parser.Cache, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		cache:    cache,
		registry: schema.NewRegistry(),
		logger:   logger,
	}
}

// Load returns the parsed file at path.
func (r *Resolver) Load(path string) (*parser.ParsedFile, error) {
	return r.cache.Load(path)
}

// Modules returns how many referenced parameter lists were extracted.
func (r *Resolver) Modules() int {
	return r.registry.Count()
}

// extractFile returns the parameters declared in path, or in one exported
// binding of it when binding is non-empty. JSON files are decoded directly.
func (r *Resolver) extractFile(path, binding string) Outcome {
	var out Outcome

	key := schema.Key(path, binding)
	if params, ok := r.registry.Get(key); ok {
		out.Parameters = params
		return out
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			out.failure(path, err)
			return out
		}
		params, err := schema.ExtractJSON(data)
		if err != nil {
			out.failure(path, err)
			return out
		}
		r.registry.Add(key, params)
		out.Parameters = params
		return out
	}

	pf, err := r.cache.Load(path)
	if err != nil {
		out.failure(path, err)
		return out
	}

	var params []types.Parameter
	if binding == "" {
		params = schema.Extract(pf)
	} else {
		var ok bool
		params, ok = schema.ExtractBinding(pf, binding)
		if !ok {
			out.miss(path, "no exported parameter list %q in %s", binding, filepath.Base(path))
			return out
		}
	}

	r.registry.Add(key, params)
	out.Parameters = params
	return out
}
