// Package mcpserver exposes the core's five narrow operations —
// index_project, query, context_report, analyze_structure, and
// dependencies_of — over the Model Context Protocol, standing in for
// the "external collaborators" spec.md section 1 explicitly keeps out
// of the core. No editor, shell, or test-runner tools are implemented
// here; those belong to a caller, not to this wrapper.
package mcpserver
