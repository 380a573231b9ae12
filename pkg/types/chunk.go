package types

// ChunkType is the kind of code chunk produced by the chunker.
type ChunkType string

const (
	// ChunkFile is a whole-file chunk: atomic data-shape files (DTOs,
	// entities, interfaces, enums, type aliases) that lose meaning split.
	ChunkFile ChunkType = "file"
	// ChunkClassSignature is the parent chunk of a logic file's class:
	// imports, decorators, the class header, properties, and the first
	// constructor — methods are indexed as separate child chunks.
	ChunkClassSignature ChunkType = "class_signature"
	// ChunkMethod is a child chunk: one method's raw text (with its
	// decorators), parented to its class's ChunkClassSignature chunk.
	ChunkMethod ChunkType = "method"
	// ChunkConfig marks chunks from module/bootstrap files. These are
	// chunked as logic files today; the type exists so edge extraction
	// and retrieval can distinguish them later without a schema change.
	ChunkConfig ChunkType = "config"
)

// ChunkMetadata is the JSON-serialized metadata stored alongside a chunk:
// its source line range and, where applicable, the class/method it came
// from and the decorators attached to it.
type ChunkMetadata struct {
	StartLine  int      `json:"startLine"`
	EndLine    int      `json:"endLine"`
	ClassName  string   `json:"className,omitempty"`
	MethodName string   `json:"methodName,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
}

// Chunk is a semantically meaningful code fragment: the unit the
// embedder embeds and the retriever scores.
type Chunk struct {
	// ID is a 128-bit random identifier, regenerated on every re-index;
	// callers must not rely on it being stable across runs.
	ID       string
	FilePath string
	Type     ChunkType
	Content  string
	// ParentID is set only when Type == ChunkMethod, referencing the
	// ChunkClassSignature chunk of the same file and class.
	ParentID *string
	Metadata ChunkMetadata
	// Vector is the dense embedding, nil until the embedding pass runs.
	Vector []float32
}

// EmbeddingInput builds the text that gets embedded for this chunk: a
// "Method: <name>" or "Class: <name>" metadata prefix followed by the
// raw content, so queries describing *what* is sought score against
// terse method bodies that never mention it themselves.
func (c *Chunk) EmbeddingInput() string {
	switch {
	case c.Metadata.MethodName != "":
		return "Method: " + c.Metadata.MethodName + "\n" + c.Content
	case c.Metadata.ClassName != "":
		return "Class: " + c.Metadata.ClassName + "\n" + c.Content
	default:
		return c.Content
	}
}
