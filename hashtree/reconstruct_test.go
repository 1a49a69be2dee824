package hashtree

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/certen/ic-cert-core/internal/domainsep"
)

func TestReconstructEmpty(t *testing.T) {
	got := Reconstruct(Empty())
	want := sha256.Sum256(domainsep.Tag(domainsep.HashTreeEmpty))
	if got != want {
		t.Errorf("Reconstruct(Empty) = %x, want %x", got, want)
	}
}

// TestReconstructLeaf is spec.md §8 scenario 2.
func TestReconstructLeaf(t *testing.T) {
	leaf := NewLeaf([]byte{0x01, 0x02, 0x03})
	got := Reconstruct(leaf)

	buf := append([]byte{byte(len(domainsep.HashTreeLeaf))}, domainsep.HashTreeLeaf...)
	buf = append(buf, 0x01, 0x02, 0x03)
	want := sha256.Sum256(buf)

	if got != want {
		t.Errorf("Reconstruct(Leaf) = %x, want %x", got, want)
	}
}

// TestReconstructPrunedPassthrough is spec.md §8 scenario 3.
func TestReconstructPrunedPassthrough(t *testing.T) {
	var d [32]byte
	for i := range d {
		d[i] = byte(i)
	}
	got := Reconstruct(NewPruned(d))
	if got != d {
		t.Errorf("Reconstruct(Pruned) = %x, want %x", got, d)
	}
}

func TestReconstructLabeledAndFork(t *testing.T) {
	leafA := NewLeaf([]byte("a-value"))
	leafB := NewLeaf([]byte("b-value"))
	tree := NewFork(NewLabeled([]byte("a"), leafA), NewLabeled([]byte("b"), leafB))

	lh := Reconstruct(NewLabeled([]byte("a"), leafA))
	rh := Reconstruct(NewLabeled([]byte("b"), leafB))
	forkBuf := append([]byte{byte(len(domainsep.HashTreeFork))}, domainsep.HashTreeFork...)
	forkBuf = append(forkBuf, lh[:]...)
	forkBuf = append(forkBuf, rh[:]...)
	want := sha256.Sum256(forkBuf)

	got := Reconstruct(tree)
	if got != want {
		t.Errorf("Reconstruct(Fork) = %x, want %x", got, want)
	}
}

// TestReconstructLookupConsistency exercises spec.md §8's
// reconstruct-lookup consistency property: pruning a sibling subtree must
// preserve both the root hash and the lookup result for the surviving
// path.
func TestReconstructLookupConsistency(t *testing.T) {
	leafA := NewLeaf([]byte("a-value"))
	leafB := NewLeaf([]byte("b-value"))
	full := NewFork(NewLabeled([]byte("a"), leafA), NewLabeled([]byte("b"), leafB))

	prunedLeftDigest := Reconstruct(NewLabeled([]byte("a"), leafA))
	pruned := NewFork(NewPruned(prunedLeftDigest), NewLabeled([]byte("b"), leafB))

	if Reconstruct(full) != Reconstruct(pruned) {
		t.Fatalf("pruning changed the root hash: %x != %x", Reconstruct(full), Reconstruct(pruned))
	}

	res := LookupPath(pruned, [][]byte{[]byte("b")})
	got, ok := res.AsBytes()
	if !ok || !bytes.Equal(got, []byte("b-value")) {
		t.Errorf("lookup on pruned tree = %v, %v, want b-value, true", got, ok)
	}
}

func TestFlattenForks(t *testing.T) {
	leafA := NewLeaf([]byte("a"))
	leafB := NewLeaf([]byte("b"))
	leafC := NewLeaf([]byte("c"))
	tree := NewFork(NewFork(leafA, leafB), leafC)

	got := FlattenForks(tree)
	if len(got) != 3 {
		t.Fatalf("FlattenForks returned %d nodes, want 3", len(got))
	}
	if got[0] != leafA || got[1] != leafB || got[2] != leafC {
		t.Errorf("FlattenForks returned nodes out of order")
	}
}

func TestFlattenForksNonFork(t *testing.T) {
	leaf := NewLeaf([]byte("solo"))
	got := FlattenForks(leaf)
	if len(got) != 1 || got[0] != leaf {
		t.Errorf("FlattenForks(non-fork) = %v, want [leaf]", got)
	}
}
