package rih

import (
	"crypto/sha256"
	"sort"

	"github.com/certen/ic-cert-core/certerr"
	"github.com/certen/ic-cert-core/internal/bytesutil"
	"github.com/certen/ic-cert-core/leb128"
)

// maxProjectionDepth bounds the recursion depth of Hash. Every recursive
// step counts toward it: re-entry through a Tagged or Projectable wrapper,
// and descent into a Seq element or a Map value. The universe in §3 is
// structurally tree-shaped and terminates on its own; this is a backstop
// against a self-referential value (such as a Projectable that projects
// back onto itself), which would otherwise recurse forever instead of
// failing fast (spec.md §9). A value nested more than this many levels
// deep fails with UnsupportedHashValue.
const maxProjectionDepth = 64

// Hash computes the representation-independent digest of v, following the
// exact detection order from spec.md §4.1: tagged wrapper → text → number
// → byte string/view → sequence → principal → hashable projection →
// mapping → big-integer (number and big-integer share one Go type, Uint,
// so they are a single case here).
func Hash(v Value) ([32]byte, error) {
	return hashDepth(v, 0)
}

func hashDepth(v Value, depth int) ([32]byte, error) {
	if depth > maxProjectionDepth {
		return [32]byte{}, certerr.New(certerr.KindUnsupportedHashValue,
			"projection depth exceeded").WithDetail("depth", depth)
	}

	switch x := v.(type) {
	case Tagged:
		return hashDepth(x.Inner, depth+1)

	case Text:
		return sha256.Sum256([]byte(x)), nil

	case Uint:
		if x.N == nil || x.N.Sign() < 0 {
			return [32]byte{}, certerr.New(certerr.KindUnsupportedHashValue,
				"Uint must be non-negative").WithDetail("value", x)
		}
		return sha256.Sum256(leb128.EncodeUint(x.N)), nil

	case Bytes:
		return sha256.Sum256([]byte(x)), nil

	case []byte:
		return sha256.Sum256(x), nil

	case Seq:
		h := sha256.New()
		for _, elem := range x {
			eh, err := hashDepth(elem, depth+1)
			if err != nil {
				return [32]byte{}, err
			}
			h.Write(eh[:])
		}
		var out [32]byte
		copy(out[:], h.Sum(nil))
		return out, nil

	case Principal:
		return sha256.Sum256(x.PrincipalBytes()), nil

	case Projectable:
		return hashDepth(x.HashableProjection(), depth+1)

	case Map:
		return hashMap(x, depth)

	default:
		return [32]byte{}, certerr.New(certerr.KindUnsupportedHashValue,
			"value does not match any member of the hash universe").
			WithDetail("value", v)
	}
}

// hashMap implements §4.1's mapping rule: drop absent entries, hash each
// key and value independently, sort the (H(key), H(value)) pairs by H(key)
// in unsigned byte-lex order, then hash the concatenation.
func hashMap(m Map, depth int) ([32]byte, error) {
	type entry struct {
		keyHash, valHash [32]byte
	}
	entries := make([]entry, 0, len(m))
	for key, val := range m {
		if isAbsent(val) {
			continue
		}
		kh := sha256.Sum256([]byte(key))
		vh, err := hashDepth(val, depth+1)
		if err != nil {
			return [32]byte{}, err
		}
		entries = append(entries, entry{keyHash: kh, valHash: vh})
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytesutil.Less(entries[i].keyHash[:], entries[j].keyHash[:])
	})

	h := sha256.New()
	for _, e := range entries {
		h.Write(e.keyHash[:])
		h.Write(e.valHash[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}
