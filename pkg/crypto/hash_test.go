package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestHashMatchesSHA256(t *testing.T) {
	tests := [][]byte{
		[]byte(""),
		[]byte("hello"),
		[]byte("klingnet-validator"),
	}
	for _, in := range tests {
		want := sha256.Sum256(in)
		got := Hash(in)
		if got != want {
			t.Errorf("Hash(%q) = %x, want %x", in, got, want)
		}
	}
}

func TestHashHexMatchesHash(t *testing.T) {
	data := []byte("transaction bytes")
	h := Hash(data)
	if HashHex(data) != hex.EncodeToString(h[:]) {
		t.Error("HashHex does not match hex.EncodeToString(Hash(...))")
	}
}

func TestHashDeterministic(t *testing.T) {
	data := []byte("deterministic test input")
	if Hash(data) != Hash(data) {
		t.Error("Hash is not deterministic")
	}
}

func TestHashDifferentInputs(t *testing.T) {
	if Hash([]byte("input A")) == Hash([]byte("input B")) {
		t.Error("different inputs produced the same hash")
	}
}

func TestHashConcatMatchesManualConcat(t *testing.T) {
	a := HashHex([]byte("left"))
	b := HashHex([]byte("right"))

	want := HashHex([]byte(a + b))
	got := HashConcat(a, b)
	if got != want {
		t.Errorf("HashConcat = %s, want %s", got, want)
	}

	reversed := HashConcat(b, a)
	if got == reversed {
		t.Error("HashConcat(a,b) should differ from HashConcat(b,a)")
	}
}
