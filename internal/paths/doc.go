// Package paths normalizes OS-native paths to the forward-slash form the
// store records everything in, enforces project-root containment for
// any path a caller supplies, and resolves relative import specifiers
// against the file/extension/barrel-index convention described in
// spec.md section 4.10.
package paths
