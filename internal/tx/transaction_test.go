package tx

import (
	"testing"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
)

func newSignedTx(t *testing.T, key *crypto.PrivateKey, amount uint64) *Transaction {
	t.Helper()
	transaction := &Transaction{
		From:      key.PublicKeyHex(),
		To:        "deadbeef",
		Amount:    amount,
		Nonce:     1,
		Timestamp: 1700000000,
		Body:      "",
	}
	if err := transaction.Sign(key); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return transaction
}

func TestSignAndVerify(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	transaction := newSignedTx(t, key, 1000)

	if !transaction.Verify() {
		t.Fatal("signed transaction should verify")
	}
}

func TestVerifyFailsOnTamper(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	transaction := newSignedTx(t, key, 1000)
	transaction.Amount = 9999

	if transaction.Verify() {
		t.Fatal("tampered transaction should not verify")
	}
}

func TestHashExcludesOrIncludesSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	transaction := newSignedTx(t, key, 1000)

	unsigned := transaction.Hash(false)
	signed := transaction.Hash(true)
	if unsigned == signed {
		t.Fatal("hash with and without signature should differ once signed")
	}

	clone := *transaction
	clone.Signature = ""
	if clone.Hash(false) != unsigned {
		t.Fatal("unsigned hash must not depend on the signature field")
	}
}

func TestGenesisNeverVerifies(t *testing.T) {
	transaction := &Transaction{From: GenesisFrom, To: "someone", Amount: 100, Body: GenesisBody}
	if transaction.Verify() {
		t.Fatal("GENESIS transactions must not verify; the genesis window bypasses Verify explicitly")
	}
	if !transaction.IsGenesis() {
		t.Fatal("IsGenesis should be true for body == GENESIS")
	}
}

func TestHashDeterministicAcrossInstances(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	a := newSignedTx(t, key, 500)
	b := *a

	if a.HashHex(true) != b.HashHex(true) {
		t.Fatal("identical transactions must hash identically (byte-for-byte canonical serialization)")
	}
}
