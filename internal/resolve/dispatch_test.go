// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package resolve

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postgresWrapper = `
import { VersionedNodeType } from 'n8n-workflow';
import { PostgresV1 } from './v1/PostgresV1.node';

export class Postgres extends VersionedNodeType {
	constructor() {
		const baseDescription: INodeTypeBaseDescription = {
			displayName: 'Postgres',
			name: 'postgres',
			group: ['input'],
			defaultVersion: 4,
		};

		const nodeVersions: IVersionedNodeType['nodeVersions'] = {
			1: new PostgresV1(baseDescription),
		};

		super(nodeVersions, baseDescription);
	}
}
`

func TestDispatcher_Detect(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"Postgres/Postgres.node.ts": postgresWrapper,
		"Plain/Plain.node.ts": `
export class Plain implements INodeType {
	description = { displayName: 'Plain', name: 'plain', defaultVersion: 2, properties: [] };
}
`,
		"NoVersion/NoVersion.node.ts": `export class NoVersion extends VersionedNodeType {}`,
		"Custom/Custom.node.ts": `
export class Custom extends MyDispatcher {
	constructor() { super({}, { name: 'custom', latest: 3.2 }); }
}
`,
	})

	r := newResolver(t)
	d := NewDispatcher(nil, "", nil)

	pf, err := r.Load(filepath.Join(dir, "Postgres", "Postgres.node.ts"))
	require.NoError(t, err)
	w, ok := d.Detect(pf)
	require.True(t, ok)
	assert.Equal(t, "Postgres", w.Class)
	assert.Equal(t, "Postgres", w.BaseName)
	assert.Equal(t, 4.0, w.DefaultVersion)

	pf, err = r.Load(filepath.Join(dir, "Plain", "Plain.node.ts"))
	require.NoError(t, err)
	_, ok = d.Detect(pf)
	assert.False(t, ok, "no versioned supertype")

	pf, err = r.Load(filepath.Join(dir, "NoVersion", "NoVersion.node.ts"))
	require.NoError(t, err)
	_, ok = d.Detect(pf)
	assert.False(t, ok, "no default version")

	custom := NewDispatcher([]string{"MyDispatcher"}, "latest", nil)
	pf, err = r.Load(filepath.Join(dir, "Custom", "Custom.node.ts"))
	require.NoError(t, err)
	w, ok = custom.Detect(pf)
	require.True(t, ok)
	assert.Equal(t, 3.2, w.DefaultVersion)
}

func TestDispatcher_TargetVersion(t *testing.T) {
	d := NewDispatcher(nil, "", []Override{
		{Node: "Postgres", MinVersion: 4, UseVersion: 3},
		{Node: "postgres", MinVersion: 2, UseVersion: 1},
	})

	tests := []struct {
		name     string
		node     string
		version  float64
		expected int
	}{
		{"floor", "Slack", 2.4, 2},
		{"integer", "Slack", 3, 3},
		{"override applies", "Postgres", 4, 3},
		{"override applies above min", "Postgres", 5.1, 3},
		{"later rule", "Postgres", 2.5, 1},
		{"case-insensitive", "POSTGRES", 4, 3},
		{"below every rule", "Postgres", 1.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.TargetVersion(tt.node, tt.version))
		})
	}
}

func TestDispatcher_Locate(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"Upper/Upper.node.ts":              "",
		"Upper/V2/UpperV2.node.ts":         "",
		"Lower/Lower.node.ts":              "",
		"Lower/v2/LowerV2.node.ts":         "",
		"Scan/Scan.node.ts":                "",
		"Scan/v1/ScanV1.node.ts":           "",
		"Scan/v2_1/ScanV21.node.ts":        "",
		"Scan/v2_1/a.svg":                  "",
		"Scan/v3/ScanV3.node.ts":           "",
		"Scan/v3/README.md":                "",
		"Scan/v4/helpers.ts":               "",
		"Scan/actions/ScanAction.ts":       "",
		"Exact/Exact.node.ts":              "",
		"Exact/v2/ExactNode.ts":            "",
		"Exact/v3/ExactV3.node.ts":         "",
		"Pg/Pg.node.ts":                    "",
		"Pg/V3/Pg.d.ts":                    "",
		"Pg/V3/PgV3.helpers.ts":            "",
		"Pg/V3/PgV3.node.test.ts":          "",
		"Pg/V3/PgV3.node.ts":               "",
		"Missing/Missing.node.ts":          "",
		"Missing/v2/SomethingElse.node.ts": "",
	})
	d := NewDispatcher(nil, "", nil)

	wrapper := func(name string) *Wrapper {
		return &Wrapper{Path: filepath.Join(dir, name, name+".node.ts"), BaseName: name}
	}

	path, ok := d.Locate(wrapper("Upper"), 2)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Upper", "V2", "UpperV2.node.ts"), path)

	path, ok = d.Locate(wrapper("Lower"), 2)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Lower", "v2", "LowerV2.node.ts"), path)

	// No exact file: the scan prefers newer version directories.
	path, ok = d.Locate(wrapper("Scan"), 2)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Scan", "v3", "ScanV3.node.ts"), path)

	// An exact version directory is scanned first.
	path, ok = d.Locate(wrapper("Exact"), 2)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Exact", "v2", "ExactNode.ts"), path)

	// Declarations and tests are skipped; a .node. file wins over helpers.
	path, ok = d.Locate(wrapper("Pg"), 5)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Pg", "V3", "PgV3.node.ts"), path)

	_, ok = d.Locate(wrapper("Missing"), 2)
	assert.False(t, ok)
}

func TestDispatcher_OverrideResolvesToRemappedVersion(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"Postgres/Postgres.node.ts":      postgresWrapper,
		"Postgres/V3/PostgresV3.node.ts": `export class PostgresV3 {}`,
		"Postgres/V4/PostgresV4.node.ts": `export class PostgresV4 {}`,
	})

	r := newResolver(t)
	d := NewDispatcher(nil, "", []Override{{Node: "Postgres", MinVersion: 4, UseVersion: 3}})

	pf, err := r.Load(filepath.Join(dir, "Postgres", "Postgres.node.ts"))
	require.NoError(t, err)

	w, ok := d.Detect(pf)
	require.True(t, ok)

	target := d.TargetVersion(w.BaseName, w.DefaultVersion)
	assert.Equal(t, 3, target)

	path, ok := d.Locate(w, target)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Postgres", "V3", "PostgresV3.node.ts"), path)
}
