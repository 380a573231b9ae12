package chunker

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/dastbal/codekb/pkg/types"
)

// parseSource parses src as TypeScript and returns the syntax tree.
// Callers must call tree.Close() when done with it.
func parseSource(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParse, err)
	}
	return tree, nil
}

// classDecl pairs a class_declaration node with the statement node that
// actually sits in the program body (itself, or its enclosing
// export_statement) — decorators and ordering are anchored to the
// statement, not the bare class node.
type classDecl struct {
	stmt *sitter.Node
	node *sitter.Node
}

// topLevelClasses returns every class_declaration directly under root's
// program body, unwrapping export_statement.
func topLevelClasses(root *sitter.Node) []classDecl {
	var out []classDecl
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		stmt := root.Child(i)
		if stmt == nil {
			continue
		}
		if cls := classNodeOf(stmt); cls != nil {
			out = append(out, classDecl{stmt: stmt, node: cls})
		}
	}
	return out
}

// classNodeOf returns n itself if it is a class_declaration, or the
// class_declaration wrapped by an export_statement / export default
// statement, else nil.
func classNodeOf(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "class_declaration" {
		return n
	}
	if n.Type() == "export_statement" {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child != nil && child.Type() == "class_declaration" {
				return child
			}
		}
	}
	return nil
}

// topLevelImports returns every import_statement directly under root's
// program body, in source order.
func topLevelImports(root *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child != nil && child.Type() == "import_statement" {
			out = append(out, child)
		}
	}
	return out
}

// importSpecifier extracts the quoted module specifier text from an
// import_statement node, with the surrounding quotes stripped.
func importSpecifier(imp *sitter.Node, src []byte) string {
	source := imp.ChildByFieldName("source")
	if source == nil {
		return ""
	}
	raw := source.Content(src)
	return strings.Trim(raw, `"'`)
}

// decoratorsOf collects the decorators attached to stmt, in source
// order: the contiguous run of decorator siblings that immediately
// precede it within parent (how a method's decorators sit in a
// class_body), then any decorator children of stmt itself and of the
// class_declaration it wraps (how a top-level class's decorators sit
// in an export_statement or class_declaration).
func decoratorsOf(stmt *sitter.Node, src []byte) []string {
	parent := stmt.Parent()
	if parent == nil {
		return nil
	}

	index := -1
	for i := 0; i < int(parent.ChildCount()); i++ {
		if parent.Child(i) == stmt {
			index = i
			break
		}
	}
	if index < 0 {
		return nil
	}

	var names []string
	start := index
	for start > 0 {
		prev := parent.Child(start - 1)
		if prev == nil || prev.Type() != "decorator" {
			break
		}
		start--
	}
	for i := start; i < index; i++ {
		d := parent.Child(i)
		if d != nil {
			names = append(names, strings.TrimSpace(d.Content(src)))
		}
	}
	collect := func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			if d := n.Child(i); d != nil && d.Type() == "decorator" {
				names = append(names, strings.TrimSpace(d.Content(src)))
			}
		}
	}
	collect(stmt)
	if cls := classNodeOf(stmt); cls != nil && cls != stmt {
		collect(cls)
	}
	return names
}

// classBody returns cls's class_body node, or nil.
func classBody(cls *sitter.Node) *sitter.Node {
	return cls.ChildByFieldName("body")
}

// classMembers classifies the direct children of a class_body into
// property declarations, the constructor method (if any), and the
// remaining (non-constructor) methods, each preserving source order.
func classMembers(body *sitter.Node, src []byte) (properties []*sitter.Node, constructor *sitter.Node, methods []*sitter.Node) {
	if body == nil {
		return nil, nil, nil
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member == nil {
			continue
		}
		switch member.Type() {
		case "public_field_definition":
			properties = append(properties, member)
		case "method_definition":
			if methodName(member, src) == "constructor" && constructor == nil {
				constructor = member
			} else {
				methods = append(methods, member)
			}
		}
	}
	return properties, constructor, methods
}

// methodName returns a method_definition's name text.
func methodName(m *sitter.Node, src []byte) string {
	name := m.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return name.Content(src)
}

// className returns a class_declaration's name text.
func className(cls *sitter.Node, src []byte) string {
	name := cls.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return name.Content(src)
}

// line1 converts a tree-sitter zero-based row to a 1-based line number.
func line1(row uint32) int {
	return int(row) + 1
}
