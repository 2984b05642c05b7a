// Package crypto provides cryptographic primitives for the validator:
// SHA-256 hashing and secp256k1 signing/verification.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// Hash computes the SHA-256 digest of data.
func Hash(data []byte) types.Hash {
	return sha256.Sum256(data)
}

// HashHex computes the SHA-256 digest of data and returns it hex-encoded.
func HashHex(data []byte) string {
	h := Hash(data)
	return hex.EncodeToString(h[:])
}

// HashConcat hashes the concatenation of two hex-encoded Merkle node
// values, as a plain byte string rather than decoding them first. The
// source protocol uses string-concatenated hex as the hashing input, and
// internal/merkle matches it exactly for root interoperability.
func HashConcat(a, b string) string {
	return HashHex([]byte(a + b))
}
