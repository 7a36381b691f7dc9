// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package database

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/node2spec/node2spec/pkg/types"
)

// Writer handles writing run databases to various outputs.
type Writer struct {
	// Indent specifies the indentation for JSON output (default: 2 spaces)
	Indent int
}

// NewWriter creates a new Writer with default settings.
func NewWriter() *Writer {
	return &Writer{
		Indent: 2,
	}
}

// WriteYAML writes a database as YAML to the given writer.
func (w *Writer) WriteYAML(db *types.RunDatabase, out io.Writer) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(db); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// WriteJSON writes a database as JSON to the given writer.
func (w *Writer) WriteJSON(db *types.RunDatabase, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", w.Indent))

	if err := encoder.Encode(db); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// WriteFile writes a database to a file.
// The format is "json" or "yaml"; when empty it is inferred from the extension.
func (w *Writer) WriteFile(db *types.RunDatabase, path string, format string) error {
	if format == "" {
		format = FormatFromPath(path)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(format) {
	case "yaml", "yml":
		return w.WriteYAML(db, file)
	case "json":
		return w.WriteJSON(db, file)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatFromPath infers the output format from a file extension. JSON is the default.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// ReadFile reads a database from a file.
// The format is inferred from the file extension.
func ReadFile(path string) (*types.RunDatabase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var db types.RunDatabase
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &db); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &db); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &db); err != nil {
			if err := yaml.Unmarshal(data, &db); err != nil {
				return nil, fmt.Errorf("failed to parse file as JSON or YAML")
			}
		}
	}

	if db.Nodes == nil {
		db.Nodes = make(map[string]*types.NodeSchema)
	}

	return &db, nil
}
