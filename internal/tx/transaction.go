// Package tx defines the transaction type, its canonical serialization,
// and signature verification.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// GenesisFrom is the literal sender of a bootstrap transaction. It is not
// a public key and never debited (spec §3, §4.1).
const GenesisFrom = "GENESIS"

// StakeTo is the literal recipient that routes a transaction's amount
// into the sender's stake rather than crediting a balance (spec §4.3).
const StakeTo = "stake"

// GenesisBody marks a transaction as part of the genesis window bootstrap.
const GenesisBody = "GENESIS"

// Transaction is one candidate or committed ledger entry.
//
// From/To are public-key hex, or the literals GenesisFrom/StakeTo.
// Amount and Nonce are non-negative; Timestamp is seconds since epoch.
// Signature is a hex-encoded DER ECDSA signature over Hash(false).
type Transaction struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Nonce     uint64 `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
	Body      string `json:"body"`
	Signature string `json:"signature"`
}

// signingBytes returns the canonical byte representation of the
// transaction in the stable field order (from, to, amount, nonce,
// timestamp, body[, signature]). Every string field is length-prefixed
// and every integer is a fixed-width 8-byte little-endian value, so the
// encoding is unambiguous, and every node must produce byte-identical
// output for the same transaction (spec §4.1).
func (t *Transaction) signingBytes(includeSignature bool) []byte {
	var buf []byte
	buf = appendString(buf, t.From)
	buf = appendString(buf, t.To)
	buf = binary.LittleEndian.AppendUint64(buf, t.Amount)
	buf = binary.LittleEndian.AppendUint64(buf, t.Nonce)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(t.Timestamp))
	buf = appendString(buf, t.Body)
	if includeSignature {
		buf = appendString(buf, t.Signature)
	}
	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// Hash returns the SHA-256 hash of the canonical serialization, with or
// without the signature field. The unsigned hash (includeSignature=false)
// identifies a transaction for vote-matching (spec §3, invariant I5).
func (t *Transaction) Hash(includeSignature bool) types.Hash {
	return crypto.Hash(t.signingBytes(includeSignature))
}

// HashHex is Hash as a hex string, the form the Merkle tree and the
// consensus slot compare against.
func (t *Transaction) HashHex(includeSignature bool) string {
	h := t.Hash(includeSignature)
	return hex.EncodeToString(h[:])
}

// IsGenesis reports whether this transaction is a genesis bootstrap entry.
func (t *Transaction) IsGenesis() bool {
	return t.Body == GenesisBody
}

// Verify reports whether the signature is a valid secp256k1 signature
// over Hash(false) under the public key named by From. GENESIS
// transactions are not signed by a real key and always fail Verify; the
// genesis window bypasses this check explicitly rather than special
// casing it here (spec §4.1).
func (t *Transaction) Verify() bool {
	if t.From == GenesisFrom || t.Signature == "" {
		return false
	}
	hash := t.Hash(false)
	return crypto.VerifySignatureHex(hash[:], t.Signature, t.From)
}

// Sign signs the transaction's unsigned hash with key and sets Signature.
// The signer's compressed public key hex must already be set as From.
func (t *Transaction) Sign(key *crypto.PrivateKey) error {
	hash := t.Hash(false)
	sig, err := key.SignHex(hash[:])
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	t.Signature = sig
	return nil
}
