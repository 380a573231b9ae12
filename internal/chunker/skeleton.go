package chunker

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dastbal/codekb/pkg/types"
)

// buildSkeleton walks every top-level class declaration and produces
// the structured summary: raw import text verbatim, and one class
// descriptor per class listing every method's signature string.
func buildSkeleton(root *sitter.Node, src []byte) *types.Skeleton {
	skel := &types.Skeleton{Kind: types.SkeletonStructured}

	for _, imp := range topLevelImports(root) {
		skel.Imports = append(skel.Imports, imp.Content(src))
	}

	for _, decl := range topLevelClasses(root) {
		body := classBody(decl.node)
		_, constructor, methods := classMembers(body, src)

		var sigs []string
		if constructor != nil {
			sigs = append(sigs, methodSignature(constructor, src))
		}
		for _, m := range methods {
			sigs = append(sigs, methodSignature(m, src))
		}

		skel.Classes = append(skel.Classes, types.ClassSkeleton{
			Name:    className(decl.node, src),
			Methods: sigs,
		})
	}

	return skel
}

// methodSignature renders "name(param-text, …): return-type-text;" by
// reading the method's name, parameter list, and return-type fields
// directly from the AST — not by lexing the source text.
func methodSignature(m *sitter.Node, src []byte) string {
	name := methodName(m, src)

	paramsText := ""
	if params := m.ChildByFieldName("parameters"); params != nil {
		paramsText = strings.TrimSuffix(strings.TrimPrefix(params.Content(src), "("), ")")
		paramsText = strings.TrimSpace(paramsText)
	}

	returnType := "void"
	if ret := m.ChildByFieldName("return_type"); ret != nil {
		returnType = strings.TrimSpace(strings.TrimPrefix(ret.Content(src), ":"))
	}

	return name + "(" + paramsText + "): " + returnType + ";"
}
