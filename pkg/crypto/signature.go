package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signer signs messages with a private key using ECDSA/secp256k1.
type Signer interface {
	// Sign produces a DER-encoded ECDSA signature over a 32-byte hash.
	Sign(hash []byte) ([]byte, error)
	// PublicKey returns the compressed 33-byte public key.
	PublicKey() []byte
}

// Verifier verifies ECDSA/secp256k1 signatures.
type Verifier interface {
	// Verify checks a DER signature against a hash and compressed public key.
	Verify(hash, signature, publicKey []byte) bool
}

// PrivateKey wraps a secp256k1 private key for ECDSA signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	key := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromHex parses a hex-encoded 32-byte secret into a PrivateKey.
// This is how the launcher supplies the externally-managed private key
// (spec §6 Environment); key management itself stays out of scope.
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode private key hex: %w", err)
	}
	return PrivateKeyFromBytes(b)
}

// Sign produces a DER-encoded ECDSA signature over a 32-byte hash.
func (pk *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	sig := ecdsa.Sign(pk.key, hash)
	return sig.Serialize(), nil
}

// SignHex signs a hash and returns the DER signature hex-encoded, matching
// the envelope wire format's "sign: derHex" field (spec §6).
func (pk *PrivateKey) SignHex(hash []byte) (string, error) {
	sig, err := pk.Sign(hash)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// PublicKeyHex returns the compressed public key hex-encoded, the form
// used everywhere on the wire and in account maps (spec §3: "from"/"to").
func (pk *PrivateKey) PublicKeyHex() string {
	return hex.EncodeToString(pk.PublicKey())
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// VerifySignature checks a DER-encoded ECDSA signature against a 32-byte
// hash and a compressed public key. Returns false on any malformed input
// rather than an error, matching the "malformed/forged -> drop" handling
// policy callers apply (spec §7).
func VerifySignature(hash, signature, publicKey []byte) bool {
	pubKey, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}

// VerifySignatureHex is VerifySignature with hex-encoded signature and
// public key, the form the envelope and transaction wire types carry.
func VerifySignatureHex(hash []byte, signatureHex, publicKeyHex string) bool {
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false
	}
	return VerifySignature(hash, sig, pub)
}

// ECDSAVerifier implements the Verifier interface.
type ECDSAVerifier struct{}

// Verify checks a DER signature against a hash and compressed public key.
func (v ECDSAVerifier) Verify(hash, signature, publicKey []byte) bool {
	return VerifySignature(hash, signature, publicKey)
}
