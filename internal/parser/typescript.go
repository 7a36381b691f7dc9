// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package parser provides TypeScript syntax tree parsing and querying.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptParser provides TypeScript/JavaScript AST parsing capabilities using tree-sitter.
type TypeScriptParser struct {
	parser *sitter.Parser
}

// NewTypeScriptParser creates a new TypeScript parser.
func NewTypeScriptParser() *TypeScriptParser {
	return &TypeScriptParser{
		parser: sitter.NewParser(),
	}
}

// ParsedFile represents a parsed TypeScript source file.
type ParsedFile struct {
	// Path is the file path
	Path string

	// Content is the original source content
	Content []byte

	// Tree is the tree-sitter parse tree
	Tree *sitter.Tree

	// RootNode is the root node of the AST
	RootNode *sitter.Node

	// Imports contains one entry per imported local binding
	Imports []ImportBinding

	// Classes contains the class declarations found anywhere in the file
	Classes []ClassDecl

	// Bindings contains top-level variable bindings
	Bindings []Binding
}

// ImportKind classifies how a module is bound to a local identifier.
type ImportKind int

const (
	// ImportNamed is `import { a } from 'm'` or `import { a as b } from 'm'`.
	ImportNamed ImportKind = iota

	// ImportNamespace is `import * as ns from 'm'`.
	ImportNamespace

	// ImportDefault is `import d from 'm'`.
	ImportDefault
)

// String returns a string representation of the ImportKind.
func (k ImportKind) String() string {
	switch k {
	case ImportNamed:
		return "named"
	case ImportNamespace:
		return "namespace"
	case ImportDefault:
		return "default"
	default:
		return "unknown"
	}
}

// ImportBinding records which local identifier stands for which module.
type ImportBinding struct {
	// Local is the identifier visible in the importing file
	Local string

	// Imported is the exported name for named imports (empty otherwise)
	Imported string

	// Module is the module specifier as written
	Module string

	// Kind is the import shape
	Kind ImportKind

	// Line is the source line number
	Line int
}

// ClassDecl represents a class declaration.
type ClassDecl struct {
	// Name is the class name
	Name string

	// Heritage lists the identifiers named in extends/implements clauses
	Heritage []string

	// Node is the class declaration node
	Node *sitter.Node

	// IsExported indicates if the class is exported
	IsExported bool

	// Line is the source line number
	Line int
}

// Extends reports whether any heritage identifier is one of the given names.
func (c ClassDecl) Extends(names ...string) bool {
	for _, h := range c.Heritage {
		for _, n := range names {
			if h == n {
				return true
			}
		}
	}
	return false
}

// Binding represents a top-level `const`/`let`/`var` binding.
type Binding struct {
	// Name is the bound identifier
	Name string

	// Value is the initializer expression, nil when absent
	Value *sitter.Node

	// IsExported indicates if the binding is exported
	IsExported bool

	// Line is the source line number
	Line int
}

// ParseSource parses TypeScript source code from a string.
func (p *TypeScriptParser) ParseSource(filename string, source string) (*ParsedFile, error) {
	return p.Parse(filename, []byte(source))
}

// Parse parses TypeScript source code from bytes.
func (p *TypeScriptParser) Parse(filename string, content []byte) (*ParsedFile, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsx", ".jsx":
		p.parser.SetLanguage(tsx.GetLanguage())
	default:
		p.parser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TypeScript: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		tree.Close()
		return nil, fmt.Errorf("failed to get root node")
	}

	pf := &ParsedFile{
		Path:     filename,
		Content:  content,
		Tree:     tree,
		RootNode: rootNode,
	}

	pf.Imports = p.ExtractImports(rootNode, content)
	pf.Classes = p.ExtractClasses(rootNode, content)
	pf.Bindings = p.ExtractBindings(rootNode, content)

	return pf, nil
}

// ParseFile parses a TypeScript source file from disk.
func (p *TypeScriptParser) ParseFile(path string) (*ParsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(path, content)
}

// ExtractImports extracts every import binding from top-level import statements.
func (p *TypeScriptParser) ExtractImports(rootNode *sitter.Node, content []byte) []ImportBinding {
	var imports []ImportBinding

	for i := 0; i < int(rootNode.ChildCount()); i++ {
		node := rootNode.Child(i)
		if node.Type() != "import_statement" {
			continue
		}

		var module string
		var clause *sitter.Node
		for j := 0; j < int(node.ChildCount()); j++ {
			child := node.Child(j)
			switch child.Type() {
			case "import_clause":
				clause = child
			case "string":
				module, _ = stringLiteralText(child, content)
			}
		}
		if module == "" || clause == nil {
			continue
		}

		line := int(node.StartPoint().Row) + 1
		for j := 0; j < int(clause.ChildCount()); j++ {
			child := clause.Child(j)
			switch child.Type() {
			case "identifier":
				imports = append(imports, ImportBinding{
					Local:  child.Content(content),
					Module: module,
					Kind:   ImportDefault,
					Line:   line,
				})
			case "namespace_import":
				for k := 0; k < int(child.ChildCount()); k++ {
					if gc := child.Child(k); gc.Type() == "identifier" {
						imports = append(imports, ImportBinding{
							Local:  gc.Content(content),
							Module: module,
							Kind:   ImportNamespace,
							Line:   line,
						})
					}
				}
			case "named_imports":
				for k := 0; k < int(child.ChildCount()); k++ {
					spec := child.Child(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					imported, local := p.parseImportSpecifier(spec, content)
					if imported == "" {
						continue
					}
					imports = append(imports, ImportBinding{
						Local:    local,
						Imported: imported,
						Module:   module,
						Kind:     ImportNamed,
						Line:     line,
					})
				}
			}
		}
	}

	return imports
}

// parseImportSpecifier returns the exported and local names of an import_specifier.
func (p *TypeScriptParser) parseImportSpecifier(node *sitter.Node, content []byte) (imported, local string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "identifier" {
			continue
		}
		if imported == "" {
			imported = child.Content(content)
		} else {
			local = child.Content(content)
		}
	}
	if local == "" {
		local = imported
	}
	return imported, local
}

// ExtractClasses extracts all class declarations from the AST.
func (p *TypeScriptParser) ExtractClasses(rootNode *sitter.Node, content []byte) []ClassDecl {
	var classes []ClassDecl

	p.walkNodes(rootNode, func(node *sitter.Node) bool {
		// the `class` keyword token shares its type name with class expressions
		if !node.IsNamed() {
			return false
		}
		switch node.Type() {
		case "class_declaration", "abstract_class_declaration", "class":
			decl := ClassDecl{
				Node:       node,
				Line:       int(node.StartPoint().Row) + 1,
				IsExported: node.Parent() != nil && node.Parent().Type() == "export_statement",
			}
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				switch child.Type() {
				case "type_identifier", "identifier":
					if decl.Name == "" {
						decl.Name = child.Content(content)
					}
				case "class_heritage":
					decl.Heritage = p.extractHeritage(child, content)
				}
			}
			classes = append(classes, decl)
		}
		return true
	})

	return classes
}

// extractHeritage collects the identifiers named in a class_heritage node.
func (p *TypeScriptParser) extractHeritage(node *sitter.Node, content []byte) []string {
	var names []string
	p.walkNodes(node, func(n *sitter.Node) bool {
		switch n.Type() {
		case "identifier", "type_identifier", "property_identifier":
			names = append(names, n.Content(content))
		case "type_arguments":
			return false
		}
		return true
	})
	return names
}

// ExtractBindings extracts top-level variable bindings, exported or not.
func (p *TypeScriptParser) ExtractBindings(rootNode *sitter.Node, content []byte) []Binding {
	var bindings []Binding

	for i := 0; i < int(rootNode.ChildCount()); i++ {
		node := rootNode.Child(i)
		exported := false
		decl := node

		if node.Type() == "export_statement" {
			exported = true
			decl = nil
			for j := 0; j < int(node.ChildCount()); j++ {
				child := node.Child(j)
				if child.Type() == "lexical_declaration" || child.Type() == "variable_declaration" {
					decl = child
					break
				}
			}
			if decl == nil {
				continue
			}
		}

		if decl.Type() != "lexical_declaration" && decl.Type() != "variable_declaration" {
			continue
		}

		for j := 0; j < int(decl.ChildCount()); j++ {
			declarator := decl.Child(j)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			nameNode := declarator.ChildByFieldName("name")
			if nameNode == nil || nameNode.Type() != "identifier" {
				continue
			}
			bindings = append(bindings, Binding{
				Name:       nameNode.Content(content),
				Value:      declarator.ChildByFieldName("value"),
				IsExported: exported,
				Line:       int(declarator.StartPoint().Row) + 1,
			})
		}
	}

	return bindings
}

// walkNodes walks all nodes in the tree, calling fn for each node.
// If fn returns false, it stops recursing into that node's children.
func (p *TypeScriptParser) walkNodes(node *sitter.Node, fn func(*sitter.Node) bool) {
	Walk(node, fn)
}

// Walk walks all nodes in the tree depth-first, calling fn for each node.
// If fn returns false, it stops recursing into that node's children.
func Walk(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !fn(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(i), fn)
	}
}

// Close cleans up parser resources.
func (p *TypeScriptParser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Close cleans up the parsed file resources.
func (pf *ParsedFile) Close() {
	if pf.Tree != nil {
		pf.Tree.Close()
	}
}

// ExportedBinding returns the exported binding with the given name.
func (pf *ParsedFile) ExportedBinding(name string) (Binding, bool) {
	for _, b := range pf.Bindings {
		if b.IsExported && b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// ImportFor returns the import binding that introduces the given local identifier.
func (pf *ParsedFile) ImportFor(local string) (ImportBinding, bool) {
	for _, imp := range pf.Imports {
		if imp.Local == local {
			return imp, true
		}
	}
	return ImportBinding{}, false
}

// stringLiteralText returns the text of a string or template node without
// its quotes.
func stringLiteralText(node *sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}

	nodeType := node.Type()
	if nodeType != "string" && nodeType != "template_string" && nodeType != "string_fragment" {
		return "", false
	}

	text := node.Content(content)

	// Remove quotes
	if len(text) >= 2 {
		if (text[0] == '"' && text[len(text)-1] == '"') ||
			(text[0] == '\'' && text[len(text)-1] == '\'') ||
			(text[0] == '`' && text[len(text)-1] == '`') {
			return text[1 : len(text)-1], true
		}
	}

	return text, true
}

// GetMemberExpressionParts returns the object and property of a member_expression.
func GetMemberExpressionParts(node *sitter.Node, content []byte) (object, property string) {
	if node == nil || node.Type() != "member_expression" {
		return "", ""
	}

	objNode := node.ChildByFieldName("object")
	if objNode == nil && node.ChildCount() > 0 {
		objNode = node.Child(0)
	}

	propNode := node.ChildByFieldName("property")
	if propNode == nil && node.ChildCount() > 2 {
		propNode = node.Child(2)
	}

	if objNode != nil {
		object = objNode.Content(content)
	}
	if propNode != nil {
		property = propNode.Content(content)
	}

	return object, property
}

// Unwrap strips type assertions and parentheses around an expression:
// `x as T`, `x satisfies T`, `(x)` and `x!`.
func Unwrap(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Type() {
		case "as_expression", "satisfies_expression", "non_null_expression", "parenthesized_expression":
			next := node.NamedChild(0)
			if next == nil {
				return node
			}
			node = next
		default:
			return node
		}
	}
	return node
}

// PairKey returns the key of a pair node with quotes removed.
func PairKey(node *sitter.Node, content []byte) string {
	if node == nil || node.Type() != "pair" {
		return ""
	}
	key := node.ChildByFieldName("key")
	if key == nil {
		key = node.Child(0)
	}
	if key == nil {
		return ""
	}
	switch key.Type() {
	case "property_identifier", "identifier", "number":
		return key.Content(content)
	case "string":
		return strings.Trim(key.Content(content), "\"'`")
	}
	return ""
}

// PairValue returns the value node of a pair.
func PairValue(node *sitter.Node) *sitter.Node {
	if node == nil || node.Type() != "pair" {
		return nil
	}
	return node.ChildByFieldName("value")
}
