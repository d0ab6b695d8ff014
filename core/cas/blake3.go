// Package cas computes content fingerprints. Docuverse content and the
// blobs persisted by the SQLite format are keyed by their BLAKE3 digest.
package cas

import (
	"encoding/hex"
	"io"
	"regexp"

	"github.com/zeebo/blake3"
)

var blake3Pattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Blake3Hash computes the BLAKE3 hash of the given data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Blake3String computes the BLAKE3 hash of s.
func Blake3String(s string) string {
	return Blake3Hash([]byte(s))
}

// Blake3Reader hashes everything read from r.
func Blake3Reader(r io.Reader) (string, int64, error) {
	h := blake3.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// IsValidHash reports whether hash is a lowercase hex BLAKE3-256 digest.
func IsValidHash(hash string) bool {
	return blake3Pattern.MatchString(hash)
}
