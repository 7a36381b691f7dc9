// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import "github.com/node2spec/node2spec/pkg/types"

const (
	highQualityMinParams   = 5
	mediumQualityMinParams = 2
)

// Classify assigns a quality tier to a parameter list.
//
// high:   at least 5 parameters, all typed, more than half described.
// medium: at least 2 parameters, all typed.
// low:    everything else.
func Classify(params []types.Parameter) types.Quality {
	typed := 0
	described := 0
	for _, p := range params {
		if p.Type != "" {
			typed++
		}
		if p.Description != "" {
			described++
		}
	}
	allTyped := typed == len(params)

	switch {
	case len(params) >= highQualityMinParams && allTyped && described*2 > len(params):
		return types.QualityHigh
	case len(params) >= mediumQualityMinParams && allTyped:
		return types.QualityMedium
	default:
		return types.QualityLow
	}
}
