// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"encoding/json"

	"github.com/node2spec/node2spec/pkg/types"
)

// Dedupe removes parameters that repeat an earlier parameter with the same
// name and the same visibility condition, keeping the first occurrence.
//
// Parameters sharing a name but shown under different conditions are distinct
// inputs and are all kept.
func Dedupe(params []types.Parameter) []types.Parameter {
	seen := make(map[string]struct{}, len(params))
	result := make([]types.Parameter, 0, len(params))

	for _, p := range params {
		key := dedupeKey(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, p)
	}

	return result
}

func dedupeKey(p types.Parameter) string {
	if p.DisplayOptions == nil {
		return p.Name
	}
	// encoding/json sorts map keys, so equal conditions encode identically.
	cond, err := json.Marshal(p.DisplayOptions)
	if err != nil {
		return p.Name
	}
	return p.Name + "\x00" + string(cond)
}
