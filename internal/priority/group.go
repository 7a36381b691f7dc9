// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package priority

import "sort"

// FileGroup is the set of files implementing one logical node.
type FileGroup struct {
	// Key is the logical node name
	Key string

	// Files are the group members in discovery order
	Files []string
}

// Group buckets files by BaseName. Groups are sorted by key; files keep the
// order they were given in.
func Group(paths []string) []FileGroup {
	index := make(map[string]int)
	var groups []FileGroup

	for _, path := range paths {
		key := BaseName(path)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, FileGroup{Key: key})
		}
		groups[i].Files = append(groups[i].Files, path)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})

	return groups
}
