// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides shared naming helpers for node files and directories.
package util

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// versionDirPattern matches directory names such as V2, v3 or v2_1.
	versionDirPattern = regexp.MustCompile(`^[vV](\d+)(?:_(\d+))?$`)

	// versionSuffixPattern matches a trailing version on a file stem, e.g. SlackV2 or MergeV2_1.
	versionSuffixPattern = regexp.MustCompile(`^(.+?)V(\d+)(?:_(\d+))?$`)

	titleCaser = cases.Title(language.English)
)

// ParseVersionDir returns the version encoded in a directory name like "V2" or "v2_1".
func ParseVersionDir(name string) (float64, bool) {
	m := versionDirPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	return versionNumber(m[1], m[2]), true
}

// IsVersionDir reports whether name is a version directory name.
func IsVersionDir(name string) bool {
	_, ok := ParseVersionDir(name)
	return ok
}

// SplitVersionSuffix splits a file stem like "SlackV2" into "Slack" and 2.
// The second result is false when the stem carries no version suffix.
func SplitVersionSuffix(stem string) (string, float64, bool) {
	m := versionSuffixPattern.FindStringSubmatch(stem)
	if m == nil {
		return stem, 0, false
	}
	return m[1], versionNumber(m[2], m[3]), true
}

func versionNumber(major, minor string) float64 {
	s := major
	if minor != "" {
		s += "." + minor
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// FileStem returns the file name without directory, extension and ".node" marker.
// For example: "nodes/Slack/SlackV2.node.ts" returns "SlackV2".
func FileStem(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.TrimSuffix(base, ".node")
}

// Humanize converts an identifier such as "additionalFields" to "Additional Fields".
func Humanize(s string) string {
	if s == "" {
		return s
	}

	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
			continue
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]):
			flush()
		}
		current = append(current, r)
	}
	flush()

	return titleCaser.String(strings.Join(words, " "))
}
