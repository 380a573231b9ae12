// Package hasher computes the content fingerprint used for change
// detection across the file registry. The digest is a 128-bit
// collision-resistant fingerprint, not a cryptographic authentication
// primitive; its value never leaves the store.
package hasher
