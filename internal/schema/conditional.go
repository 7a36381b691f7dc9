// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"fmt"
	"maps"
	"slices"

	"github.com/node2spec/node2spec/internal/util"
	"github.com/node2spec/node2spec/pkg/types"
)

// ExpandConditionals appends one derived parameter per (key, value) pair of
// every list-valued displayOptions.show entry. Originals are returned unchanged
// and first; derived parameters follow in original order, keys sorted.
//
// Every list-valued key of a multi-key show condition is expanded on its own.
// Hide conditions and derived parameters already present in params are left
// alone.
func ExpandConditionals(params []types.Parameter) []types.Parameter {
	result := make([]types.Parameter, len(params), len(params)+len(params)/2)
	copy(result, params)

	for _, p := range params {
		if p.IsDerived() || p.DisplayOptions == nil || len(p.DisplayOptions.Show) == 0 {
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(p.DisplayOptions.Show)) {
			values, ok := p.DisplayOptions.Show[key].([]any)
			if !ok {
				continue
			}
			for _, value := range values {
				result = append(result, derive(p, key, value))
			}
		}
	}

	return result
}

func derive(base types.Parameter, key string, value any) types.Parameter {
	label := base.DisplayName
	if label == "" {
		label = util.Humanize(base.Name)
	}

	d := base
	d.Name = fmt.Sprintf("%s_%s_%v", base.Name, key, value)
	d.DisplayName = fmt.Sprintf("%s (when %s = %v)", label, key, value)
	d.DerivedFrom = base.Name
	d.Usage = types.Usage{
		ParameterName: base.Name,
		Example:       base.Example,
		Snippet:       base.Usage.Snippet,
		Conditional: &types.ConditionalContext{
			Key:         key,
			Value:       value,
			Description: fmt.Sprintf("only applies when %s is %v", key, value),
		},
	}
	if d.Usage.Snippet == "" {
		d.Usage.Snippet = Snippet(base.Name, base.Example)
	}

	return d
}
