// Package rowset provides the two interchangeable row-set backends of the
// engine: compressed Roaring bitmaps and sorted uint32 arrays.
//
// Both backends expose the same algebra (And, Or, Len) and must produce
// identical query results for any input. The bitmap backend is the default;
// the sorted-array backend uses merge-based set operations, which can win
// for low member cardinality or very skewed set sizes. The choice is a
// tunable exposed to the caller, not an implementation detail.
package rowset

import (
	"fmt"
	"strings"
)

// Kind selects the row-set backend. It is fixed at build time and recorded
// in snapshot headers.
type Kind uint8

const (
	// KindInvalid represents an invalid backend.
	KindInvalid Kind = iota
	// KindBitmap stores row sets as compressed Roaring bitmaps.
	KindBitmap
	// KindSortedArray stores row sets as sorted uint32 arrays.
	KindSortedArray
)

// String returns the stable name of the backend.
func (k Kind) String() string {
	switch k {
	case KindBitmap:
		return "bitmap"
	case KindSortedArray:
		return "sorted"
	default:
		return "invalid"
	}
}

// ParseKind resolves a backend name. "roaring" is accepted as an alias for
// the bitmap backend for compatibility with snapshots written by the
// original implementation.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bitmap", "roaring":
		return KindBitmap, nil
	case "sorted", "sorted-array", "numpy":
		return KindSortedArray, nil
	default:
		return KindInvalid, fmt.Errorf("unknown row set backend %q", s)
	}
}

// Set is an immutable set of row ordinals.
//
// Sets produced by the same engine always share one Kind; And and Or are
// only defined between sets of the same kind.
type Set interface {
	// Kind returns the backend the set belongs to.
	Kind() Kind
	// Len returns the number of rows in the set.
	Len() int
	// Contains reports whether the row ordinal is in the set.
	Contains(id uint32) bool
	// ToArray returns the row ordinals in ascending order.
	ToArray() []uint32
	// And returns the intersection with another set of the same kind.
	And(other Set) Set
	// Or returns the union with another set of the same kind.
	Or(other Set) Set
	// Marshal serializes the set. Both backends emit the Roaring wire
	// format, so snapshots are portable across backends.
	Marshal() ([]byte, error)
}

// Builder accumulates row ordinals during the index build pass. Ordinals
// must be added in ascending order (the build pass is monotonic in row
// index, so this holds by construction).
type Builder interface {
	Add(id uint32)
	Build() Set
}

// NewBuilder returns a builder for the given backend.
func NewBuilder(kind Kind) Builder {
	if kind == KindSortedArray {
		return &sortedBuilder{}
	}
	return &bitmapBuilder{}
}

// Empty returns the empty set for the given backend.
func Empty(kind Kind) Set {
	if kind == KindSortedArray {
		return &SortedSet{}
	}
	return newBitmapSet()
}

// FromArray builds a set from ascending row ordinals.
func FromArray(kind Kind, ids []uint32) Set {
	if kind == KindSortedArray {
		return &SortedSet{ids: ids}
	}
	return bitmapFromArray(ids)
}

// Unmarshal deserializes a set written by Marshal into the given backend.
func Unmarshal(kind Kind, data []byte) (Set, error) {
	bs, err := unmarshalBitmap(data)
	if err != nil {
		return nil, err
	}
	if kind == KindSortedArray {
		return &SortedSet{ids: bs.ToArray()}, nil
	}
	return bs, nil
}
