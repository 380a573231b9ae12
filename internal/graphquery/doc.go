// Package graphquery answers 1-hop dependency-edge lookups by path and
// direction over internal/store, per spec.md section 4.9. Dependency
// edges may form cycles; this package imposes no acyclicity invariant
// and never walks beyond one hop.
package graphquery
