// Package gossip implements the signed-envelope flood-fill transport:
// dedup, identity binding, and peer reconnection (spec §4.4). It carries
// no protocol semantics of its own — VALIDATOR/sync/vote handling lives
// in the node package, which is the sole owner of that state (spec §5).
package gossip

import (
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/google/uuid"
)

// Message types (spec §6).
const (
	TypeGetChain        = "GET_CHAIN"
	TypeChain           = "CHAIN"
	TypeValidators      = "VALIDATORS"
	TypeValidator       = "VALIDATOR"
	TypeHelloValidator  = "HELLO_VALIDATOR"
	TypeNewTransaction  = "NEW_TRANSACTION"
	TypeTransaction     = "TRANSACTION"
)

// Envelope is the signed JSON wrapper carrying one protocol message
// (spec §6). Sign is a hex-encoded DER ECDSA signature over SHA-256 of
// the envelope with Sign cleared.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	For  string          `json:"for,omitempty"`
	ID   string          `json:"id"`
	Key  string          `json:"key"`
	Sign string          `json:"sign"`
}

// signingView fixes the exact field order and omission rules used to
// compute and verify an envelope's signature: Sign is always present as
// an explicit null, never omitted, so the signer and the verifier agree
// byte-for-byte regardless of whether the envelope under test carries a
// signature yet (spec §9, "envelope signature canonicalization").
type signingView struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	For  string          `json:"for,omitempty"`
	ID   string          `json:"id"`
	Key  string          `json:"key"`
	Sign *string         `json:"sign"`
}

func (e Envelope) signingBytes() ([]byte, error) {
	view := signingView{Type: e.Type, Data: e.Data, For: e.For, ID: e.ID, Key: e.Key, Sign: nil}
	b, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope for signing: %w", err)
	}
	return b, nil
}

// NewEnvelope builds an envelope of the given type and payload, assigns
// it a fresh id, and signs it with key.
func NewEnvelope(msgType string, data any, forKey string, key *crypto.PrivateKey) (Envelope, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal envelope data: %w", err)
		}
		raw = b
	}

	env := Envelope{
		Type: msgType,
		Data: raw,
		For:  forKey,
		ID:   uuid.NewString(),
		Key:  key.PublicKeyHex(),
	}

	hash := crypto.Hash(mustBytes(env.signingBytes()))
	sig, err := key.SignHex(hash[:])
	if err != nil {
		return Envelope{}, fmt.Errorf("sign envelope: %w", err)
	}
	env.Sign = sig
	return env, nil
}

func mustBytes(b []byte, err error) []byte {
	if err != nil {
		return nil
	}
	return b
}

// Verify reports whether the envelope has the required fields and a
// valid signature over itself (with Sign cleared) under Key (spec §4.4
// step 1).
func (e Envelope) Verify() bool {
	if e.Key == "" || e.Sign == "" || e.ID == "" {
		return false
	}
	b, err := e.signingBytes()
	if err != nil {
		return false
	}
	hash := crypto.Hash(b)
	return crypto.VerifySignatureHex(hash[:], e.Sign, e.Key)
}

// Unmarshal decodes the envelope's Data payload into v.
func (e Envelope) Unmarshal(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data")
	}
	return json.Unmarshal(e.Data, v)
}
