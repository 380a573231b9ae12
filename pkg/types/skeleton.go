package types

import "strings"

// SkeletonKind distinguishes a full-file marker skeleton (atomic files)
// from a structured one (logic files walked class by class).
type SkeletonKind string

const (
	// SkeletonFull marks an atomic file: the skeleton is the file itself.
	SkeletonFull SkeletonKind = "full"
	// SkeletonStructured marks a logic file: imports plus class/method
	// signatures extracted by the chunker's AST walk.
	SkeletonStructured SkeletonKind = "structured"
)

// ClassSkeleton is one class's exported shape: its name and the signature
// string of each of its methods, the constructor (if any) first and the
// rest in declaration order.
type ClassSkeleton struct {
	Name    string   `json:"name"`
	Methods []string `json:"methods"`
}

// Skeleton is the structured summary FileRegistry.Skeleton returns.
// For atomic files it carries only Kind == SkeletonFull; Imports and
// Classes are only populated for SkeletonStructured.
type Skeleton struct {
	Kind    SkeletonKind    `json:"kind"`
	Imports []string        `json:"imports,omitempty"`
	Classes []ClassSkeleton `json:"classes,omitempty"`
}

// String renders the skeleton exactly as it should appear under the
// context report's "FILE SKELETON (MAP)" heading: the literal marker for
// atomic files, or a readable imports-then-classes listing for logic
// files. This is the "skeleton-as-stored" text spec.md's report format
// refers to.
func (s *Skeleton) String() string {
	if s == nil {
		return "full"
	}
	if s.Kind == SkeletonFull {
		return "full"
	}

	var b strings.Builder
	if len(s.Imports) > 0 {
		b.WriteString("imports:\n")
		for _, imp := range s.Imports {
			b.WriteString("  ")
			b.WriteString(imp)
			b.WriteString("\n")
		}
	}
	for _, cls := range s.Classes {
		b.WriteString("class ")
		b.WriteString(cls.Name)
		b.WriteString(" {\n")
		for _, m := range cls.Methods {
			b.WriteString("  ")
			b.WriteString(m)
			b.WriteString("\n")
		}
		b.WriteString("}\n")
	}
	if b.Len() == 0 {
		return "full"
	}
	return strings.TrimRight(b.String(), "\n")
}
