// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/node2spec/node2spec/pkg/types"
)

func conditionalParam() types.Parameter {
	p, _ := ParameterFromMap(map[string]any{
		"displayName": "Columns",
		"name":        "columns",
		"type":        "string",
		"description": "Columns to write",
		"displayOptions": map[string]any{
			"show": map[string]any{
				"operation": []any{"insert", "update"},
			},
		},
	})
	return p
}

func TestExpandConditionals(t *testing.T) {
	base := conditionalParam()
	plain := types.Parameter{Name: "table", Type: "string"}

	result := ExpandConditionals([]types.Parameter{base, plain})
	require.Len(t, result, 4)

	// Originals first and unchanged.
	assert.Equal(t, base, result[0])
	assert.Equal(t, plain, result[1])

	insert := result[2]
	assert.Equal(t, "columns_operation_insert", insert.Name)
	assert.Equal(t, "Columns (when operation = insert)", insert.DisplayName)
	assert.Equal(t, "string", insert.Type)
	assert.Equal(t, "Columns to write", insert.Description)
	assert.Equal(t, "columns", insert.DerivedFrom)
	assert.Equal(t, "columns", insert.Usage.ParameterName)
	require.NotNil(t, insert.Usage.Conditional)
	assert.Equal(t, "operation", insert.Usage.Conditional.Key)
	assert.Equal(t, "insert", insert.Usage.Conditional.Value)
	assert.Equal(t, "only applies when operation is insert", insert.Usage.Conditional.Description)

	update := result[3]
	assert.Equal(t, "columns_operation_update", update.Name)
	assert.Equal(t, "columns", update.Usage.ParameterName)
}

func TestExpandConditionals_SortedKeysAndScalars(t *testing.T) {
	p := types.Parameter{
		Name: "limit",
		Type: "number",
		DisplayOptions: &types.DisplayOptions{
			Show: map[string]any{
				"resource":  []any{"user"},
				"operation": []any{"getAll"},
				"returnAll": false,
			},
			Hide: map[string]any{"mode": []any{"raw"}},
		},
	}

	result := ExpandConditionals([]types.Parameter{p})

	assert.Equal(t, []string{"limit", "limit_operation_getAll", "limit_resource_user"}, names(result))
	assert.Equal(t, "Limit (when operation = getAll)", result[1].DisplayName)
}

func TestExpandConditionals_StableOnBaseSet(t *testing.T) {
	params := []types.Parameter{conditionalParam()}

	first := ExpandConditionals(params)
	second := ExpandConditionals(params)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("expansion differs between runs (-first +second):\n%s", diff)
	}
	assert.Len(t, params, 1, "input slice is not modified")
}

func TestExpandConditionals_SkipsDerived(t *testing.T) {
	expanded := ExpandConditionals([]types.Parameter{conditionalParam()})
	require.Len(t, expanded, 3)

	again := ExpandConditionals(expanded)
	assert.Len(t, again, 5, "only the base parameter expands again")
}

func TestExpandConditionals_Empty(t *testing.T) {
	assert.Empty(t, ExpandConditionals(nil))
}
