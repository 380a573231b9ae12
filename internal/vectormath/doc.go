// Package vectormath provides the cosine similarity scoring used by the
// retriever's linear scan over stored chunk vectors.
package vectormath
