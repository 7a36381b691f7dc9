// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package extractor runs node extraction end to end: candidates are grouped by
// logical node, each candidate is resolved across files, and the best
// candidate of every group is folded into a run database.
package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/node2spec/node2spec/internal/database"
	"github.com/node2spec/node2spec/internal/parser"
	"github.com/node2spec/node2spec/internal/priority"
	"github.com/node2spec/node2spec/internal/resolve"
	"github.com/node2spec/node2spec/internal/schema"
	"github.com/node2spec/node2spec/internal/util"
	"github.com/node2spec/node2spec/pkg/types"
)

// Options configures an extraction run.
type Options struct {
	// BaseTypes are the supertypes marking a dispatching wrapper
	BaseTypes []string

	// DefaultVersionKey is the description key holding a wrapper's default version
	DefaultVersionKey string

	// Overrides remap wrapper default versions for non-linear nodes
	Overrides []resolve.Override

	// ExpandConditionals appends derived parameters for show conditions
	ExpandConditionals bool

	// Dedupe drops repeated parameters before expansion
	Dedupe bool

	// Now stamps the database; defaults to time.Now
	Now func() time.Time
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		BaseTypes:          []string{resolve.DefaultBaseType},
		DefaultVersionKey:  "defaultVersion",
		ExpandConditionals: true,
	}
}

// Extractor turns node source files into a run database.
type Extractor struct {
	options    Options
	dispatcher *resolve.Dispatcher
	logger     *log.Logger
}

// New creates an extractor. A nil logger discards output.
func New(options Options, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Extractor{
		options:    options,
		dispatcher: resolve.NewDispatcher(options.BaseTypes, options.DefaultVersionKey, options.Overrides),
		logger:     logger,
	}
}

// Run extracts every node rooted at paths. Groups are resolved one after
// another; recoverable failures become database issues. The context is only
// checked between groups.
func (e *Extractor) Run(ctx context.Context, paths []string) (*types.RunDatabase, error) {
	p := parser.NewTypeScriptParser()
	defer p.Close()
	cache := parser.NewCache(p)
	defer cache.Close()

	r := &run{
		Extractor: e,
		cache:     cache,
		resolver:  resolve.New(cache, e.logger),
	}

	db := types.NewRunDatabase(e.options.Now().UTC())
	var stats database.Stats

	groups := priority.Group(paths)
	e.logger.Debug("grouped candidates", "files", len(paths), "groups", len(groups))

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction aborted: %w", err)
		}

		winner, issues, ok := r.resolveGroup(group)
		db.Issues = append(db.Issues, issues...)
		if !ok {
			e.logger.Debug("group produced no schema", "group", group.Key)
			continue
		}

		db.Nodes[group.Key] = winner.Schema
		stats = stats.Add(winner.Schema)
	}

	stats.Apply(db)
	e.logger.Debug("parse cache", "files", cache.Len(), "hits", cache.Hits(),
		"modules", r.resolver.Modules())
	e.logger.Info("extraction complete", "nodes", db.NodeCount, "parameters", db.TotalParameters,
		"issues", len(db.Issues))
	return db, nil
}

// ExtractFile resolves a single node root file on its own, as if it were the
// only member of its group.
func (e *Extractor) ExtractFile(path string) (*types.NodeSchema, []string, error) {
	p := parser.NewTypeScriptParser()
	defer p.Close()
	cache := parser.NewCache(p)
	defer cache.Close()

	r := &run{
		Extractor: e,
		cache:     cache,
		resolver:  resolve.New(cache, e.logger),
	}

	c, issues, ok := r.extractCandidate(path)
	if !ok {
		return nil, issues, fmt.Errorf("no node description or parameters found in %s", path)
	}
	return c.Schema, issues, nil
}

// run holds the state owned by one extraction run.
type run struct {
	*Extractor
	cache    *parser.Cache
	resolver *resolve.Resolver
}

func (r *run) resolveGroup(group priority.FileGroup) (priority.Candidate, []string, bool) {
	var (
		candidates []priority.Candidate
		issues     []string
	)

	for _, path := range group.Files {
		c, candidateIssues, ok := r.extractCandidate(path)
		issues = append(issues, candidateIssues...)
		if ok {
			candidates = append(candidates, c)
		}
	}

	winner, ok := priority.Select(candidates)
	if ok && len(candidates) > 1 {
		r.logger.Debug("selected candidate", "group", group.Key, "file", winner.Path,
			"score", winner.Score, "candidates", len(candidates))
	}
	return winner, issues, ok
}

// extractCandidate builds the schema of one file. It reports false on a read
// failure or when the file has neither a description nor any parameters.
func (r *run) extractCandidate(path string) (priority.Candidate, []string, bool) {
	r.logger.Debug("extracting", "path", path)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return r.extractJSONCandidate(path)
	}

	var issues []string

	pf, err := r.cache.Load(path)
	if err != nil {
		return priority.Candidate{}, []string{fmt.Sprintf("%s: %v", path, err)}, false
	}

	s := &types.NodeSchema{SourceFile: path, ExtractionNotes: []string{}}
	desc, _ := schema.ExtractDescription(pf, r.options.DefaultVersionKey)
	source := pf
	fallback := false

	if w, ok := r.dispatcher.Detect(pf); ok {
		target := r.dispatcher.TargetVersion(w.BaseName, w.DefaultVersion)
		impl, found := r.dispatcher.Locate(w, target)
		var implFile *parser.ParsedFile
		if found {
			implFile, err = r.cache.Load(impl)
			if err != nil {
				issues = append(issues, fmt.Sprintf("%s: %v", impl, err))
				found = false
			}
		}

		if found {
			s.AddNote("resolved wrapper %s (default version %g) to %s", w.Class, w.DefaultVersion,
				relativeTo(path, impl))
			if implDesc, ok := schema.ExtractDescription(implFile, r.options.DefaultVersionKey); ok {
				implDesc.Fill(desc)
				desc = implDesc
			}
			source = implFile
			s.SourceFile = impl
		} else {
			fallback = true
			msg := fmt.Sprintf("unresolved wrapper %s: no implementation for version %d", w.Class, target)
			s.AddNote("%s", msg)
			issues = append(issues, path+": "+msg)
			r.logger.Warn("unresolved wrapper", "path", path, "version", target)
		}
	}

	params := schema.Extract(source)
	outcome := r.resolver.ResolveLayered(source)
	params = append(params, outcome.Parameters...)
	s.ExtractionNotes = append(s.ExtractionNotes, outcome.Notes...)
	issues = append(issues, outcome.Issues...)

	if desc == nil && len(params) == 0 {
		r.logger.Debug("no node shape", "path", path)
		return priority.Candidate{}, issues, false
	}

	if desc != nil {
		desc.Apply(s)
	}
	r.finish(s, path, params)

	return priority.Candidate{Path: path, Schema: s, WrapperFallback: fallback}, issues, true
}

func (r *run) extractJSONCandidate(path string) (priority.Candidate, []string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return priority.Candidate{}, []string{fmt.Sprintf("%s: %v", path, err)}, false
	}
	params, err := schema.ExtractJSON(data)
	if err != nil {
		return priority.Candidate{}, []string{fmt.Sprintf("%s: %v", path, err)}, false
	}
	if len(params) == 0 {
		return priority.Candidate{}, nil, false
	}

	s := &types.NodeSchema{SourceFile: path, ExtractionNotes: []string{"parameters read from JSON"}}
	r.finish(s, path, params)
	return priority.Candidate{Path: path, Schema: s}, nil, true
}

// finish names unnamed schemas after their file and runs the
// post-processing stages.
func (r *run) finish(s *types.NodeSchema, path string, params []types.Parameter) {
	if s.Name == "" {
		base := priority.BaseName(path)
		s.Name = lowerFirst(base)
		s.AddNote("no node description found; named after %s", filepath.Base(path))
	}
	if s.DisplayName == "" {
		s.DisplayName = util.Humanize(s.Name)
	}

	if r.options.Dedupe {
		before := len(params)
		params = schema.Dedupe(params)
		if removed := before - len(params); removed > 0 {
			s.AddNote("removed %d duplicate parameters", removed)
		}
	}
	if r.options.ExpandConditionals {
		before := len(params)
		params = schema.ExpandConditionals(params)
		if derived := len(params) - before; derived > 0 {
			s.AddNote("expanded %d conditional parameters", derived)
		}
	}

	if params == nil {
		params = []types.Parameter{}
	}
	s.Parameters = params
	s.ExtractionQuality = schema.Classify(params)
}

func relativeTo(from, to string) string {
	rel, err := filepath.Rel(filepath.Dir(from), to)
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
