package hashtree

import "github.com/certen/ic-cert-core/internal/bytesutil"

// LookupStatus is the tri-valued outcome of a path lookup under pruning
// (spec.md §4.3).
type LookupStatus uint8

const (
	// StatusUnknown means a Pruned subtree hides whether the path might
	// exist.
	StatusUnknown LookupStatus = iota
	// StatusAbsent means the tree proves no such path exists.
	StatusAbsent
	// StatusFound means the path resolved to a subtree.
	StatusFound
)

// LookupResult is the outcome of LookupPath/LookupLabel. Subtree is set
// only when Status is StatusFound.
type LookupResult struct {
	Status  LookupStatus
	Subtree *Tree
}

func foundResult(t *Tree) LookupResult  { return LookupResult{Status: StatusFound, Subtree: t} }
func absentResult() LookupResult        { return LookupResult{Status: StatusAbsent} }
func unknownResult() LookupResult       { return LookupResult{Status: StatusUnknown} }

// AsBytes returns the Leaf contents of a Found result. Per spec.md §4.3's
// convenience coercion, a Found result whose subtree is not a Leaf is
// treated as "no value" rather than Found, so callers never mistake a
// subtree for a leaf payload.
func (r LookupResult) AsBytes() ([]byte, bool) {
	if r.Status != StatusFound || r.Subtree == nil || !r.Subtree.IsLeaf() {
		return nil, false
	}
	return r.Subtree.Leaf(), true
}

// labelOutcomeKind is the internal five-way result of comparing a query
// label against a subtree, used only while combining Fork children.
type labelOutcomeKind uint8

const (
	labelFound labelOutcomeKind = iota
	labelGreater
	labelLess
	labelUnknown
	labelAbsent
)

type labelOutcome struct {
	kind    labelOutcomeKind
	subtree *Tree
}

// findLabel searches t for label, implementing spec.md §4.3's single-step
// helper exactly: Labeled nodes compare directly; Fork nodes combine their
// children's outcomes; Pruned is Unknown; Empty and Leaf are Absent.
func findLabel(t *Tree, label []byte) labelOutcome {
	switch {
	case t.IsLabeled():
		l, sub := t.Labeled()
		switch bytesutil.Compare(label, l) {
		case 0:
			return labelOutcome{kind: labelFound, subtree: sub}
		case 1:
			return labelOutcome{kind: labelGreater}
		default:
			return labelOutcome{kind: labelLess}
		}

	case t.IsFork():
		left, right := t.Fork()
		lo := findLabel(left, label)
		switch lo.kind {
		case labelFound:
			return lo
		case labelLess:
			// The left child proves the label would sort before it, but
			// that tells us nothing about the right child: propagate
			// labelLess rather than collapsing to labelAbsent, so a
			// labelUnknown/labelGreater combinator above us in the tree
			// still sees the "less" it needs (LookupPath's top-level
			// switch maps a bare labelLess to Absent, so this only
			// matters to an enclosing Fork).
			return labelOutcome{kind: labelLess}
		case labelGreater:
			ro := findLabel(right, label)
			if ro.kind == labelLess {
				return labelOutcome{kind: labelAbsent}
			}
			return ro
		case labelUnknown:
			ro := findLabel(right, label)
			if ro.kind == labelLess {
				return labelOutcome{kind: labelUnknown}
			}
			return ro
		default:
			return lo
		}

	case t.IsPruned():
		return labelOutcome{kind: labelUnknown}

	default: // Empty, Leaf
		return labelOutcome{kind: labelAbsent}
	}
}

// LookupPath resolves path against t, each segment already reduced to
// bytes by the caller (spec.md §4.3 says text segments are UTF-8 encoded
// before comparison; that encoding happens at the call site so this
// function deals only in bytes).
func LookupPath(t *Tree, path [][]byte) LookupResult {
	if len(path) == 0 {
		return foundResult(t)
	}

	outcome := findLabel(t, path[0])
	switch outcome.kind {
	case labelFound:
		return LookupPath(outcome.subtree, path[1:])
	case labelUnknown:
		return unknownResult()
	default: // greater, less, absent
		return absentResult()
	}
}

// LookupLabel is the single-segment convenience wrapper around LookupPath.
func LookupLabel(t *Tree, label []byte) LookupResult {
	return LookupPath(t, [][]byte{label})
}
