package state

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Klingon-tech/klingnet-chain/internal/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
)

// Record is one committed slot: a transaction together with the
// per-validator vote recorded when it committed (spec §3).
type Record struct {
	Transaction    *tx.Transaction `json:"transaction"`
	Validators     map[string]bool `json:"validators"`
	ValidatorsRoot string          `json:"validatorsRoot"`
}

// ComputeValidatorsRoot hashes the validator vote map as
// sha256(sortedKeys joined by ':' + ':' + sortedValues joined by ':'),
// the exact form spec §3 specifies.
func ComputeValidatorsRoot(validators map[string]bool) string {
	keys := make([]string, 0, len(validators))
	for k := range validators {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, strconv.FormatBool(validators[k]))
	}

	input := strings.Join(keys, ":") + ":" + strings.Join(values, ":")
	return crypto.HashHex([]byte(input))
}

// NewRecord builds a Record and stamps its ValidatorsRoot.
func NewRecord(transaction *tx.Transaction, validators map[string]bool) *Record {
	return &Record{
		Transaction:    transaction,
		Validators:     validators,
		ValidatorsRoot: ComputeValidatorsRoot(validators),
	}
}

// rootMatches reports whether the record's stored root still matches a
// fresh recomputation, guarding the validator-reward step (spec §4.3
// step 4) against a tampered or stale validators map.
func (r *Record) rootMatches() bool {
	return r.ValidatorsRoot == ComputeValidatorsRoot(r.Validators)
}
