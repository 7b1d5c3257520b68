package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainModel is the domain prefix for model fingerprints. The version
// suffix leaves room for algorithm migration.
const DomainModel = "forma/model/v1"

// Fingerprint computes the content-addressed identity of a document:
// SHA-256 over the domain prefix, a null separator, and the canonical JSON
// encoding. Two documents with the same declarations produce the same
// fingerprint regardless of parse count or rendering format.
func Fingerprint(d *Document) (string, error) {
	canonical, err := MarshalCanonical(d.CanonicalValue())
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainModel))
	h.Write([]byte{0x00}) // separator prevents domain/data boundary ambiguity
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
