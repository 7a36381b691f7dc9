// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package priority groups node files by logical identity and picks the best
// implementation of each group.
package priority

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/node2spec/node2spec/internal/util"
	"github.com/node2spec/node2spec/pkg/types"
)

const (
	wrapperFallbackPenalty = -100
	versionWeight          = 50
	unversionedScore       = 25
	parameterWeight        = 5
	versionedDirBonus      = 30
	minVersionedDir        = 2
	maxVersionedDir        = 9
)

var (
	placeholderStems = []string{"index", "node", "main"}
	testLikeStems    = []string{"test", "spec", "mock"}
)

// Input holds everything Score looks at.
type Input struct {
	// IsWrapperFallback is set when a wrapper's implementation could not be found
	IsWrapperFallback bool

	// ExplicitVersion is the declared version, valid when HasExplicitVersion is set
	ExplicitVersion float64

	// HasExplicitVersion reports whether a version was found
	HasExplicitVersion bool

	// ParameterCount is the number of extracted parameters
	ParameterCount int

	// Quality is the extraction quality tier
	Quality types.Quality

	// InVersionedDirectory is set when the file lives under a V2..V9 directory
	InVersionedDirectory bool
}

// Score computes the priority of one candidate. Higher is better.
func Score(in Input) float64 {
	score := 0.0
	if in.IsWrapperFallback {
		score += wrapperFallbackPenalty
	}
	if in.HasExplicitVersion {
		score += in.ExplicitVersion * versionWeight
	} else {
		score += unversionedScore
	}
	score += float64(in.ParameterCount * parameterWeight)
	score += qualityBonus(in.Quality)
	if in.InVersionedDirectory {
		score += versionedDirBonus
	}
	return score
}

func qualityBonus(q types.Quality) float64 {
	switch q {
	case types.QualityHigh:
		return 50
	case types.QualityMedium:
		return 25
	default:
		return 0
	}
}

// Candidate is one extracted implementation of a logical node.
type Candidate struct {
	// Path is the file the candidate was extracted from
	Path string

	// Schema is the extracted schema
	Schema *types.NodeSchema

	// WrapperFallback is set when Schema came from an unresolved wrapper
	WrapperFallback bool

	// Score is filled in by Select
	Score float64
}

// InputFor derives the scoring input of a candidate.
func InputFor(c Candidate) Input {
	in := Input{
		IsWrapperFallback:    c.WrapperFallback,
		InVersionedDirectory: InVersionedDirectory(c.Path),
	}
	if c.Schema != nil {
		in.ParameterCount = len(c.Schema.Parameters)
		in.Quality = c.Schema.ExtractionQuality
		in.ExplicitVersion, in.HasExplicitVersion = ExplicitVersion(c.Schema, c.Path)
	}
	return in
}

// Select scores every candidate and returns the winner. Ties go to the
// earliest candidate. The winner's notes record the choice when there was
// more than one candidate.
func Select(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := -1
	for i := range candidates {
		candidates[i].Score = Score(InputFor(candidates[i]))
		if best < 0 || candidates[i].Score > candidates[best].Score {
			best = i
		}
	}

	winner := candidates[best]
	if len(candidates) > 1 && winner.Schema != nil {
		winner.Schema.AddNote("selected %s from %d candidates", filepath.Base(winner.Path), len(candidates))
	}
	return winner, true
}

// ExplicitVersion returns the highest declared version of the schema, or the
// version suffix of the file name when the schema declares none.
func ExplicitVersion(s *types.NodeSchema, path string) (float64, bool) {
	if s != nil {
		if v, ok := s.Version.Max(); ok {
			return v, true
		}
	}
	_, v, ok := util.SplitVersionSuffix(util.FileStem(path))
	return v, ok
}

// InVersionedDirectory reports whether any directory of path is a version
// directory between V2 and V9.
func InVersionedDirectory(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		v, ok := util.ParseVersionDir(segment)
		if ok && v >= minVersionedDir && v < maxVersionedDir+1 {
			return true
		}
	}
	return false
}

// BaseName returns the logical node name of a file: the file stem without
// ".node" and version suffix, or the name of the closest non-version
// directory when the stem is a placeholder or test-like.
func BaseName(path string) string {
	stem := util.FileStem(path)
	if !isPlaceholder(stem) {
		base, _, _ := util.SplitVersionSuffix(stem)
		return base
	}

	dir := filepath.Dir(path)
	for {
		name := filepath.Base(dir)
		if !util.IsVersionDir(name) {
			base, _, _ := util.SplitVersionSuffix(name)
			return base
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return stem
		}
		dir = parent
	}
}

func isPlaceholder(stem string) bool {
	lower := strings.ToLower(stem)
	if slices.Contains(placeholderStems, lower) || slices.Contains(testLikeStems, lower) {
		return true
	}
	for _, suffix := range testLikeStems {
		if strings.HasSuffix(lower, "."+suffix) || strings.HasSuffix(lower, "_"+suffix) {
			return true
		}
	}
	return false
}
