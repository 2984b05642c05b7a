package merkle

import (
	"testing"

	"github.com/Klingon-tech/klingnet-chain/internal/tx"
)

func mkTx(body string, amount uint64) *tx.Transaction {
	return &tx.Transaction{From: "a", To: "b", Amount: amount, Body: body}
}

func TestEmptyTreeRoot(t *testing.T) {
	tree := New()
	if tree.Root() != emptyRoot {
		t.Fatalf("empty tree root = %s, want sha256(\"0\") = %s", tree.Root(), emptyRoot)
	}
	if tree.Len() != 0 {
		t.Fatalf("empty tree len = %d, want 0", tree.Len())
	}
}

func TestSingleLeafRootIsDeterministic(t *testing.T) {
	a := New()
	a.Add(mkTx("x", 1))
	b := New()
	b.Add(mkTx("x", 1))
	if a.Root() != b.Root() {
		t.Fatal("identical single-leaf trees must produce identical roots")
	}
	if a.Len() != 1 {
		t.Fatalf("len = %d, want 1", a.Len())
	}
}

func TestRootChangesWithOrder(t *testing.T) {
	txs := []*tx.Transaction{mkTx("1", 1), mkTx("2", 2), mkTx("3", 3)}

	forward := New()
	for _, transaction := range txs {
		forward.Add(transaction)
	}

	reversed := New()
	for i := len(txs) - 1; i >= 0; i-- {
		reversed.Add(txs[i])
	}

	if forward.Root() == reversed.Root() {
		t.Fatal("changing leaf order should change the root")
	}
}

func TestRootMatchesAcrossIncrementalAndBatch(t *testing.T) {
	txs := []*tx.Transaction{mkTx("1", 1), mkTx("2", 2), mkTx("3", 3), mkTx("4", 4), mkTx("5", 5)}

	incremental := New()
	for _, transaction := range txs {
		incremental.Add(transaction)
	}

	batch := FromTransactions(txs)

	if incremental.Root() != batch.Root() {
		t.Fatal("incrementally built and batch-built trees over the same sequence must agree")
	}
}

func TestEvenLeafCountCascades(t *testing.T) {
	tree := New()
	for i := 0; i < 4; i++ {
		tree.Add(mkTx("x", uint64(i)))
	}
	// 4 leaves cascades fully into one level-2 node: levels[0] and
	// levels[1] should both be empty, levels[2] should hold one node.
	if len(tree.levels[0]) != 0 || len(tree.levels[1]) != 0 {
		t.Fatalf("expected levels 0 and 1 empty after 4 leaves, got %v", tree.levels)
	}
	if len(tree.levels[2]) != 1 {
		t.Fatalf("expected level 2 to hold exactly one pending root, got %v", tree.levels[2])
	}
}

func TestLenTracksAdds(t *testing.T) {
	tree := New()
	for i := 0; i < 7; i++ {
		tree.Add(mkTx("x", uint64(i)))
		if tree.Len() != i+1 {
			t.Fatalf("after %d adds, Len() = %d", i+1, tree.Len())
		}
	}
}
