// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/node2spec/node2spec/pkg/types"
)

func TestDedupe(t *testing.T) {
	showUser := &types.DisplayOptions{Show: map[string]any{"resource": []any{"user"}}}
	showTeam := &types.DisplayOptions{Show: map[string]any{"resource": []any{"team"}}}

	in := []types.Parameter{
		{Name: "operation", Type: "options", DisplayOptions: showUser},
		{Name: "operation", Type: "options", DisplayOptions: showTeam},
		{Name: "operation", Type: "options", Description: "duplicate", DisplayOptions: showUser},
		{Name: "limit", Type: "number"},
		{Name: "limit", Type: "number", Description: "duplicate"},
	}

	out := Dedupe(in)

	assert.Len(t, out, 3)
	for _, p := range out {
		assert.NotEqual(t, "duplicate", p.Description)
	}
	assert.Len(t, in, 5, "input is not modified")
}
