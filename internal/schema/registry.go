// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"slices"
	"sort"
	"sync"

	"github.com/node2spec/node2spec/pkg/types"
)

// Registry stores extracted parameter lists by key for reuse within a run.
// Keys are module paths, optionally qualified with a binding name.
type Registry struct {
	mu     sync.RWMutex
	params map[string][]types.Parameter
}

// NewRegistry creates a new parameter registry.
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[string][]types.Parameter),
	}
}

// Key returns the registry key for a module path and an optional binding.
func Key(path, binding string) string {
	if binding == "" {
		return path
	}
	return path + "#" + binding
}

// Add stores a parameter list under key.
func (r *Registry) Add(key string, params []types.Parameter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.params[key] = slices.Clone(params)
}

// Get returns a copy of the parameter list stored under key.
func (r *Registry) Get(key string) ([]types.Parameter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	params, ok := r.params[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(params), true
}

// Has checks if a key exists in the registry.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.params[key]
	return ok
}

// Keys returns all keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.params))
	for key := range r.params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of stored lists.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.params)
}
