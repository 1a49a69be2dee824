// Package hashtree implements the pruned Merkle hash-tree model of
// spec.md §3/§4.2/§4.3: a five-constructor tagged union, root-hash
// reconstruction, and tri-valued path lookup under pruning.
package hashtree

import "fmt"

// kind discriminates the five Tree constructors.
type kind uint8

const (
	kindEmpty kind = iota
	kindFork
	kindLabeled
	kindLeaf
	kindPruned
)

// Tree is the tagged-variant hash tree. It is constructed exclusively
// through the Empty/NewFork/NewLabeled/NewLeaf/NewPruned functions below and is
// immutable once built; callers never mutate a Tree's fields directly.
type Tree struct {
	kind kind

	// Fork
	left, right *Tree

	// Labeled
	label   []byte
	subtree *Tree

	// Leaf
	contents []byte

	// Pruned
	digest [32]byte
}

// Empty constructs the empty tree.
func Empty() *Tree {
	return &Tree{kind: kindEmpty}
}

// NewFork constructs a Fork of left and right.
func NewFork(left, right *Tree) *Tree {
	return &Tree{kind: kindFork, left: left, right: right}
}

// NewLabeled constructs a Labeled node. label is copied so the returned
// Tree is independent of the caller's buffer.
func NewLabeled(label []byte, subtree *Tree) *Tree {
	cp := make([]byte, len(label))
	copy(cp, label)
	return &Tree{kind: kindLabeled, label: cp, subtree: subtree}
}

// NewLeaf constructs a Leaf holding contents. contents is copied.
func NewLeaf(contents []byte) *Tree {
	cp := make([]byte, len(contents))
	copy(cp, contents)
	return &Tree{kind: kindLeaf, contents: cp}
}

// NewPruned constructs a Pruned node carrying a precomputed digest.
func NewPruned(digest [32]byte) *Tree {
	return &Tree{kind: kindPruned, digest: digest}
}

// IsEmpty, IsFork, IsLabeled, IsLeaf, IsPruned report the node's kind.
func (t *Tree) IsEmpty() bool   { return t.kind == kindEmpty }
func (t *Tree) IsFork() bool    { return t.kind == kindFork }
func (t *Tree) IsLabeled() bool { return t.kind == kindLabeled }
func (t *Tree) IsLeaf() bool    { return t.kind == kindLeaf }
func (t *Tree) IsPruned() bool  { return t.kind == kindPruned }

// Fork returns the two children of a Fork node; it panics if t is not a
// Fork, since every call site first checks IsFork or is already in a
// context where the kind is known.
func (t *Tree) Fork() (left, right *Tree) {
	if t.kind != kindFork {
		panic("hashtree: Fork called on non-Fork node")
	}
	return t.left, t.right
}

// Labeled returns the label and subtree of a Labeled node; it panics if t
// is not Labeled.
func (t *Tree) Labeled() (label []byte, subtree *Tree) {
	if t.kind != kindLabeled {
		panic("hashtree: Labeled called on non-Labeled node")
	}
	return t.label, t.subtree
}

// Leaf returns the contents of a Leaf node; it panics if t is not a Leaf.
func (t *Tree) Leaf() []byte {
	if t.kind != kindLeaf {
		panic("hashtree: Leaf called on non-Leaf node")
	}
	return t.contents
}

// Pruned returns the precomputed digest of a Pruned node; it panics if t
// is not Pruned.
func (t *Tree) Pruned() [32]byte {
	if t.kind != kindPruned {
		panic("hashtree: Pruned called on non-Pruned node")
	}
	return t.digest
}

// String renders a Tree for diagnostics (the exposed "hashTreeToString").
// It is not meant to round-trip; it exists for logs and test failures.
func (t *Tree) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.kind {
	case kindEmpty:
		return "Empty"
	case kindFork:
		return fmt.Sprintf("Fork(%s, %s)", t.left, t.right)
	case kindLabeled:
		return fmt.Sprintf("Labeled(%x, %s)", t.label, t.subtree)
	case kindLeaf:
		return fmt.Sprintf("Leaf(%x)", t.contents)
	case kindPruned:
		return fmt.Sprintf("Pruned(%x)", t.digest)
	default:
		return "<invalid>"
	}
}

// FlattenForks walks every nested Fork node, left and right children alike,
// and returns the left-to-right ordered list of non-Fork subtrees it
// bottoms out at. A tree with no Fork
// at all returns a single-element slice containing itself. This mirrors
// the teacher's flatten-forks diagnostic helper used to enumerate the
// Labeled children of a Fork chain without manual recursion at call sites.
func FlattenForks(t *Tree) []*Tree {
	if t == nil || !t.IsFork() {
		return []*Tree{t}
	}
	left, right := t.Fork()
	return append(FlattenForks(left), FlattenForks(right)...)
}
