package hashtree

import (
	"crypto/sha256"

	"github.com/certen/ic-cert-core/internal/bytesutil"
	"github.com/certen/ic-cert-core/internal/domainsep"
)

// Reconstruct recomputes the root hash of t by structural recursion
// (spec.md §4.2). A Pruned node returns its carried digest verbatim: it
// supplies its own hash rather than having one computed over it.
func Reconstruct(t *Tree) [32]byte {
	switch {
	case t.IsEmpty():
		return sha256.Sum256(domainsep.Tag(domainsep.HashTreeEmpty))

	case t.IsLeaf():
		contents := t.Leaf()
		buf := bytesutil.Concat(domainsep.Tag(domainsep.HashTreeLeaf), contents)
		return sha256.Sum256(buf)

	case t.IsLabeled():
		label, subtree := t.Labeled()
		sub := Reconstruct(subtree)
		buf := bytesutil.Concat(domainsep.Tag(domainsep.HashTreeLabeled), label, sub[:])
		return sha256.Sum256(buf)

	case t.IsFork():
		left, right := t.Fork()
		lh := Reconstruct(left)
		rh := Reconstruct(right)
		buf := bytesutil.Concat(domainsep.Tag(domainsep.HashTreeFork), lh[:], rh[:])
		return sha256.Sum256(buf)

	case t.IsPruned():
		return t.Pruned()

	default:
		panic("hashtree: Reconstruct encountered a node of unknown kind")
	}
}
