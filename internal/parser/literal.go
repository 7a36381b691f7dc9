// SPDX-FileCopyrightText: 2026 node2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Interpret converts a statically visible literal expression into a Go value.
//
// Strings become string, numbers float64, booleans bool, null/undefined nil,
// arrays []any and object literals map[string]any. The second result is false
// when the expression is not a literal (identifiers, calls, template strings
// with substitutions, ...). Non-literal array elements and object members are
// dropped rather than failing the whole literal.
func Interpret(node *sitter.Node, content []byte) (any, bool) {
	node = Unwrap(node)
	if node == nil {
		return nil, false
	}

	switch node.Type() {
	case "string":
		return interpretString(node, content), true
	case "template_string":
		return interpretTemplate(node, content)
	case "number":
		return interpretNumber(node.Content(content))
	case "true":
		return true, true
	case "false":
		return false, true
	case "null", "undefined":
		return nil, true
	case "unary_expression":
		return interpretUnary(node, content)
	case "binary_expression":
		return interpretConcat(node, content)
	case "array":
		return interpretArray(node, content), true
	case "object":
		return interpretObject(node, content), true
	}

	return nil, false
}

// InterpretString interprets node and returns it only if it is a string.
func InterpretString(node *sitter.Node, content []byte) (string, bool) {
	v, ok := Interpret(node, content)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// InterpretNumber interprets node and returns it only if it is a number.
func InterpretNumber(node *sitter.Node, content []byte) (float64, bool) {
	v, ok := Interpret(node, content)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func interpretString(node *sitter.Node, content []byte) string {
	if node.NamedChildCount() == 0 {
		text, _ := stringLiteralText(node, content)
		return text
	}

	var sb strings.Builder
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "string_fragment":
			sb.WriteString(child.Content(content))
		case "escape_sequence":
			sb.WriteString(unescape(child.Content(content)))
		}
	}
	return sb.String()
}

// interpretTemplate accepts template strings without substitutions only.
func interpretTemplate(node *sitter.Node, content []byte) (any, bool) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if node.NamedChild(i).Type() == "template_substitution" {
			return nil, false
		}
	}
	text, _ := stringLiteralText(node, content)
	return text, true
}

func unescape(seq string) string {
	switch seq {
	case `\'`:
		return "'"
	case "\\`":
		return "`"
	}
	if s, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return s
	}
	return strings.TrimPrefix(seq, `\`)
}

func interpretNumber(text string) (any, bool) {
	text = strings.ReplaceAll(text, "_", "")
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, true
	}
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(i), true
	}
	return nil, false
}

func interpretUnary(node *sitter.Node, content []byte) (any, bool) {
	op := node.ChildByFieldName("operator")
	arg := node.ChildByFieldName("argument")
	if op == nil || arg == nil {
		return nil, false
	}
	v, ok := Interpret(arg, content)
	if !ok {
		return nil, false
	}
	switch op.Type() {
	case "-":
		if f, isNum := v.(float64); isNum {
			return -f, true
		}
	case "+":
		if f, isNum := v.(float64); isNum {
			return f, true
		}
	case "!":
		if b, isBool := v.(bool); isBool {
			return !b, true
		}
	}
	return nil, false
}

// interpretConcat folds `'a' + 'b'` string concatenation.
func interpretConcat(node *sitter.Node, content []byte) (any, bool) {
	op := node.ChildByFieldName("operator")
	if op == nil || op.Type() != "+" {
		return nil, false
	}
	left, ok := InterpretString(node.ChildByFieldName("left"), content)
	if !ok {
		return nil, false
	}
	right, ok := InterpretString(node.ChildByFieldName("right"), content)
	if !ok {
		return nil, false
	}
	return left + right, true
}

func interpretArray(node *sitter.Node, content []byte) []any {
	values := []any{}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" || child.Type() == "spread_element" {
			continue
		}
		if v, ok := Interpret(child, content); ok {
			values = append(values, v)
		}
	}
	return values
}

func interpretObject(node *sitter.Node, content []byte) map[string]any {
	obj := make(map[string]any)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "pair" {
			continue
		}
		key := PairKey(child, content)
		if key == "" {
			continue
		}
		if v, ok := Interpret(PairValue(child), content); ok {
			obj[key] = v
		}
	}
	return obj
}
