// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package resolve

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/node2spec/node2spec/internal/parser"
)

// Reference is a spread expression paired with the import that binds it.
type Reference struct {
	// Qualified is the spread expression, e.g. "database.description"
	Qualified string

	// Module is the import specifier of the bound identifier
	Module string

	// Binding names the exported list to extract; empty means the whole module
	Binding string

	// Line is the line number of the spread (1-based)
	Line int
}

// FindReferences returns every spread of an imported identifier in the file.
//
// `...ns.member` refers to the whole module behind ns. A bare `...name` bound by
// a named import refers to that exported list only; bound by a default or
// namespace import it refers to the whole module.
func FindReferences(pf *parser.ParsedFile) []Reference {
	if pf == nil || pf.RootNode == nil {
		return nil
	}

	var refs []Reference
	parser.Walk(pf.RootNode, func(node *sitter.Node) bool {
		if node.Type() != "spread_element" {
			return true
		}

		arg := parser.Unwrap(node.NamedChild(0))
		if arg == nil {
			return false
		}

		line := int(node.StartPoint().Row) + 1
		switch arg.Type() {
		case "member_expression":
			object := arg.ChildByFieldName("object")
			if object == nil || object.Type() != "identifier" {
				return false
			}
			imp, ok := pf.ImportFor(object.Content(pf.Content))
			if !ok {
				return false
			}
			obj, prop := parser.GetMemberExpressionParts(arg, pf.Content)
			refs = append(refs, Reference{
				Qualified: obj + "." + prop,
				Module:    imp.Module,
				Line:      line,
			})
		case "identifier":
			name := arg.Content(pf.Content)
			imp, ok := pf.ImportFor(name)
			if !ok {
				return false
			}
			ref := Reference{Qualified: name, Module: imp.Module, Line: line}
			if imp.Kind == parser.ImportNamed {
				ref.Binding = imp.Imported
			}
			refs = append(refs, ref)
		}
		return false
	})

	return refs
}

// ResolveImports extracts the parameters behind every imported spread in the
// file. Resolved modules are extracted directly; their own spreads are not
// followed. Unresolved specifiers contribute nothing and are recorded.
func (r *Resolver) ResolveImports(pf *parser.ParsedFile) Outcome {
	var out Outcome
	for _, ref := range FindReferences(pf) {
		out.Merge(r.ResolveReference(pf.Path, ref))
	}
	return out
}

// ResolveReference extracts the parameters of one reference made from fromFile.
func (r *Resolver) ResolveReference(fromFile string, ref Reference) Outcome {
	var out Outcome

	target, ok := ModulePath(fromFile, ref.Module)
	if !ok {
		out.miss(fromFile, "unresolved import %q for %s", ref.Module, ref.Qualified)
		r.logger.Debug("unresolved import", "file", fromFile, "module", ref.Module)
		return out
	}

	contribution := r.extractFile(target, ref.Binding)
	r.logger.Debug("resolved spread", "file", fromFile, "ref", ref.Qualified, "target", target,
		"parameters", len(contribution.Parameters))
	out.Merge(contribution)
	return out
}
