package envelope

import (
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest returns the hex blake3 hash of a raw tool payload. It identifies
// the input a result was produced from in logs and CLI output.
func Digest(raw []byte) string {
	hasher := blake3.New()
	_, _ = hasher.Write(raw)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// ShortDigest returns the first 12 hex characters of Digest.
func ShortDigest(raw []byte) string {
	return Digest(raw)[:12]
}
