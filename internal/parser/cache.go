// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package parser

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Cache stores parsed files by absolute path for the duration of a run.
// Parsed trees are never mutated, so a cache hit is equivalent to re-parsing.
type Cache struct {
	mu     sync.Mutex
	parser *TypeScriptParser
	files  map[string]*ParsedFile
	hits   int
}

// NewCache creates a new parse cache backed by the given parser.
func NewCache(p *TypeScriptParser) *Cache {
	return &Cache{
		parser: p,
		files:  make(map[string]*ParsedFile),
	}
}

// Load returns the parsed file for path, reading and parsing it on first use.
// Failures are not cached.
func (c *Cache) Load(path string) (*ParsedFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if pf, ok := c.files[absPath]; ok {
		c.hits++
		return pf, nil
	}

	pf, err := c.parser.ParseFile(absPath)
	if err != nil {
		return nil, err
	}

	c.files[absPath] = pf
	return pf, nil
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.files)
}

// Hits returns how many loads were served from the cache.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits
}

// Close releases every cached tree.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path, pf := range c.files {
		pf.Close()
		delete(c.files, path)
	}
}
