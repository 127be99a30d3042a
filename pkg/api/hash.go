package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashBytes returns the hex BLAKE3 digest of b.
func HashBytes(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Hash returns a deterministic BLAKE3 hash of the attachment content.
// Two uploads of the same bytes hash identically regardless of file name.
func (a Attachment) Hash() string {
	return HashBytes(a.Data)
}
