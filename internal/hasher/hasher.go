package hasher

import (
	"crypto/md5" //nolint:gosec // used only for change detection, never authentication
	"encoding/hex"
)

// Hash returns the hex-encoded 128-bit content fingerprint of content.
// Any 128-bit non-cryptographic digest would satisfy the change-
// detection contract (spec: "the choice is local"); MD5 is reused here
// purely for its digest size, not its cryptographic properties.
func Hash(content []byte) string {
	sum := md5.Sum(content) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// HashString is a convenience wrapper over Hash for string content.
func HashString(content string) string {
	return Hash([]byte(content))
}
