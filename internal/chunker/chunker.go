package chunker

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/google/uuid"

	"github.com/dastbal/codekb/internal/paths"
	"github.com/dastbal/codekb/pkg/types"
)

// sentinelComment marks, in a reconstructed class-signature chunk,
// where the class's methods were cut out to become their own chunks.
const sentinelComment = "// Methods are indexed as separate chunks."

// Chunker analyzes one file at a time, producing the chunks, edges,
// and skeleton the indexer needs to persist for that file.
type Chunker struct {
	root string
}

// New returns a Chunker rooted at root, used to resolve relative
// import specifiers against the project tree.
func New(root string) *Chunker {
	return &Chunker{root: root}
}

// Analyze classifies path and dispatches to the atomic or logic/config
// strategy, returning the file's complete analysis result. hash is
// carried through verbatim; Analyze does not recompute it.
func (c *Chunker) Analyze(ctx context.Context, relPath string, content []byte, hash string) (types.FileAnalysisResult, error) {
	switch classify(relPath) {
	case kindAtomic:
		return c.analyzeAtomic(ctx, relPath, content, hash), nil
	default:
		return c.analyzeLogic(ctx, relPath, content, hash)
	}
}

// analyzeAtomic emits exactly one file-typed chunk holding the full
// text. The skeleton is the fixed "full" marker; there are no edges —
// atomic files are data shapes and do not import collaborators that
// matter to the graph in this version.
func (c *Chunker) analyzeAtomic(ctx context.Context, relPath string, content []byte, hash string) types.FileAnalysisResult {
	text := string(content)
	meta := types.ChunkMetadata{
		StartLine: 1,
		EndLine:   strings.Count(text, "\n") + 1,
	}

	// Best-effort class name for metadata; a parse failure here doesn't
	// invalidate the atomic chunk, since the whole point of this
	// classification is to retain the file regardless of parse success.
	if tree, err := parseSource(ctx, content); err == nil {
		defer tree.Close()
		classes := topLevelClasses(tree.RootNode())
		if len(classes) > 0 {
			meta.ClassName = className(classes[0].node, content)
		}
	}

	chunk := types.Chunk{
		ID:       uuid.NewString(),
		FilePath: relPath,
		Type:     types.ChunkFile,
		Content:  text,
		Metadata: meta,
	}

	return types.FileAnalysisResult{
		Path:     relPath,
		Hash:     hash,
		Chunks:   []types.Chunk{chunk},
		Skeleton: &types.Skeleton{Kind: types.SkeletonFull},
	}
}

// analyzeLogic applies the parent-child strategy: one class_signature
// chunk per top-level class plus one method chunk per non-constructor
// method, and extracts import edges and the structural skeleton.
// Config files (module/bootstrap) take this same path; only their
// classification label differs.
func (c *Chunker) analyzeLogic(ctx context.Context, relPath string, content []byte, hash string) (types.FileAnalysisResult, error) {
	tree, err := parseSource(ctx, content)
	if err != nil {
		return types.FileAnalysisResult{}, err
	}
	defer tree.Close()

	root := tree.RootNode()

	result := types.FileAnalysisResult{
		Path:     relPath,
		Hash:     hash,
		Skeleton: buildSkeleton(root, content),
	}

	for _, imp := range topLevelImports(root) {
		specifier := importSpecifier(imp, content)
		if specifier == "" {
			continue
		}
		target, ok := paths.ResolveImport(c.root, relPath, specifier, SourceExtension)
		if !ok {
			continue
		}
		result.Edges = append(result.Edges, types.Edge{
			Source:   relPath,
			Target:   target,
			Relation: types.RelationImport,
		})
	}

	for _, decl := range topLevelClasses(root) {
		parent, children := c.chunksForClass(decl, content, relPath)
		result.Chunks = append(result.Chunks, parent)
		result.Chunks = append(result.Chunks, children...)
	}

	return result, nil
}

// chunksForClass reconstructs the class_signature parent chunk and
// builds one method chunk per non-constructor method, per spec.md
// section 4.2's exact reconstruction order.
func (c *Chunker) chunksForClass(decl classDecl, src []byte, relPath string) (types.Chunk, []types.Chunk) {
	name := className(decl.node, src)
	decorators := decoratorsOf(decl.stmt, src)
	body := classBody(decl.node)
	properties, constructor, methods := classMembers(body, src)

	var b strings.Builder
	for _, imp := range topLevelImports(rootOf(decl.node)) {
		b.WriteString(imp.Content(src))
		b.WriteByte('\n')
	}
	for _, d := range decorators {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString("class " + name + " {\n")
	for _, p := range properties {
		b.WriteString(p.Content(src))
		b.WriteByte('\n')
	}
	if constructor != nil {
		b.WriteString(constructor.Content(src))
		b.WriteByte('\n')
	}
	b.WriteString(sentinelComment + "\n")
	b.WriteString("}")

	parentID := uuid.NewString()
	parent := types.Chunk{
		ID:       parentID,
		FilePath: relPath,
		Type:     types.ChunkClassSignature,
		Content:  b.String(),
		Metadata: types.ChunkMetadata{
			StartLine:  line1(decl.node.StartPoint().Row),
			EndLine:    line1(decl.node.EndPoint().Row),
			ClassName:  name,
			Decorators: decorators,
		},
	}

	var children []types.Chunk
	for _, m := range methods {
		children = append(children, c.chunkForMethod(m, src, relPath, name, parentID))
	}

	return parent, children
}

// chunkForMethod builds a method chunk whose content is the method's
// raw text including its own decorators, and whose parent_id links it
// to the owning class_signature chunk.
func (c *Chunker) chunkForMethod(m *sitter.Node, src []byte, relPath, className, parentID string) types.Chunk {
	decorators := decoratorsOf(m, src)

	var b strings.Builder
	for _, d := range decorators {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString(m.Content(src))

	startRow := m.StartPoint().Row
	if len(decorators) > 0 {
		if first := firstDecoratorNode(m, src); first != nil {
			startRow = first.StartPoint().Row
		}
	}

	return types.Chunk{
		ID:       uuid.NewString(),
		FilePath: relPath,
		Type:     types.ChunkMethod,
		Content:  b.String(),
		ParentID: &parentID,
		Metadata: types.ChunkMetadata{
			StartLine:  line1(startRow),
			EndLine:    line1(m.EndPoint().Row),
			ClassName:  className,
			MethodName: methodName(m, src),
			Decorators: decorators,
		},
	}
}

// firstDecoratorNode returns the first decorator sibling immediately
// preceding m, if any, for line-range computation.
func firstDecoratorNode(m *sitter.Node, src []byte) *sitter.Node {
	parent := m.Parent()
	if parent == nil {
		return nil
	}
	index := -1
	for i := 0; i < int(parent.ChildCount()); i++ {
		if parent.Child(i) == m {
			index = i
			break
		}
	}
	if index <= 0 {
		return nil
	}
	start := index
	for start > 0 {
		prev := parent.Child(start - 1)
		if prev == nil || prev.Type() != "decorator" {
			break
		}
		start--
	}
	if start == index {
		return nil
	}
	return parent.Child(start)
}

// rootOf walks up from n to the program root, so the parent-chunk
// reconstruction can read the file's import block regardless of
// whether the class itself is wrapped in an export_statement.
func rootOf(n *sitter.Node) *sitter.Node {
	cur := n
	for cur.Parent() != nil {
		cur = cur.Parent()
	}
	return cur
}
