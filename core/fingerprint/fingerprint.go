package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Size is the length of a fingerprint in hex characters.
const Size = sha256.Size * 2

// Sum returns the hex SHA-256 digest of data. Empty input is valid.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Reader hashes everything read from r and returns the digest together with
// the number of bytes consumed. Read failures are returned as-is so the caller
// can attribute them to the file being walked.
func Reader(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Valid reports whether s looks like a fingerprint produced by this package.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
