package types

// EdgeRelation is the kind of dependency relation an edge represents.
// The chunker's import resolver only ever emits Import edges today;
// Extends, Implements, and Injects are reserved columns in the schema
// that callers must tolerate the absence of.
type EdgeRelation string

const (
	RelationImport     EdgeRelation = "import"
	RelationExtends    EdgeRelation = "extends"
	RelationImplements EdgeRelation = "implements"
	RelationInjects    EdgeRelation = "injects"
)

// Edge is a directed dependency relation between two project-relative,
// forward-slash-normalized file paths. Edges are additive: duplicates
// of (Source, Target, Relation) are silently ignored on insert.
type Edge struct {
	Source   string
	Target   string
	Relation EdgeRelation
}

// Direction selects which side of an Edge GraphQuery matches on.
type Direction string

const (
	// Outbound matches edges where Source == the queried path.
	Outbound Direction = "outbound"
	// Inbound matches edges where Target == the queried path.
	Inbound Direction = "inbound"
)

// DependencyRef is one hop of a graph query result: the path on the
// other end of the edge and the relation that connects them.
type DependencyRef struct {
	Other    string
	Relation EdgeRelation
}
