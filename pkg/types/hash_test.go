package types

import (
	"encoding/json"
	"testing"
)

func TestHashRoundTrip(t *testing.T) {
	h, err := HexToHash("a3f1c9b2d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8")
	if err == nil {
		t.Fatalf("expected odd-length hex to fail, got %v", h)
	}

	want := Hash{1, 2, 3, 4}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Hash
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %v want %v", got, want)
	}
}

func TestHashIsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero value should report IsZero")
	}
	h[0] = 1
	if h.IsZero() {
		t.Fatal("non-zero value should not report IsZero")
	}
}

func TestHexToHashWrongLength(t *testing.T) {
	if _, err := HexToHash("abcd"); err == nil {
		t.Fatal("expected error for short hex")
	}
}
