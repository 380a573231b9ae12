// Package retriever fuses vector search with graph and skeleton
// context: it embeds a query, scans every stored chunk's vector,
// scores by cosine similarity, groups hits by file, and formats the
// deterministic context report spec.md section 6 specifies.
package retriever
