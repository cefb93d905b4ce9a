package rowset

import "sort"

// gallopThreshold is the size ratio above which intersection switches from
// a linear merge to binary-search probing of the larger side.
const gallopThreshold = 32

// SortedSet stores row ordinals as a sorted uint32 array. Set operations
// are merge-based, akin to sorted-list merge/intersect.
type SortedSet struct {
	ids []uint32
}

// Kind implements Set.
func (s *SortedSet) Kind() Kind { return KindSortedArray }

// Len implements Set.
func (s *SortedSet) Len() int { return len(s.ids) }

// Contains implements Set.
func (s *SortedSet) Contains(id uint32) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

// ToArray implements Set. The returned slice must be treated as read-only.
func (s *SortedSet) ToArray() []uint32 { return s.ids }

// And implements Set.
func (s *SortedSet) And(other Set) Set {
	return &SortedSet{ids: intersectSorted(s.ids, other.ToArray())}
}

// Or implements Set.
func (s *SortedSet) Or(other Set) Set {
	return &SortedSet{ids: unionSorted(s.ids, other.ToArray())}
}

// Marshal implements Set. Sorted arrays serialize through the Roaring wire
// format so that snapshots stay portable across backends.
func (s *SortedSet) Marshal() ([]byte, error) {
	return bitmapFromArray(s.ids).Marshal()
}

// intersectSorted intersects two ascending arrays. When one side is much
// smaller it probes the larger side by binary search instead of merging,
// which is the winning strategy for highly selective filters.
func intersectSorted(a, b []uint32) []uint32 {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return nil
	}

	out := make([]uint32, 0, len(a))

	if len(b)/len(a) >= gallopThreshold {
		lo := 0
		for _, v := range a {
			i := lo + sort.Search(len(b)-lo, func(i int) bool { return b[lo+i] >= v })
			if i < len(b) && b[i] == v {
				out = append(out, v)
				lo = i + 1
			} else {
				lo = i
			}
			if lo >= len(b) {
				break
			}
		}
		return out
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// unionSorted merges two ascending arrays, dropping duplicates.
func unionSorted(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

type sortedBuilder struct {
	ids []uint32
}

func (b *sortedBuilder) Add(id uint32) { b.ids = append(b.ids, id) }

func (b *sortedBuilder) Build() Set { return &SortedSet{ids: b.ids} }

type bitmapBuilder struct {
	ids []uint32
}

func (b *bitmapBuilder) Add(id uint32) { b.ids = append(b.ids, id) }

// Build converts the accumulated ordinals into a Roaring bitmap in one
// shot; AddMany on a sorted slice is cheaper than per-row Add calls.
func (b *bitmapBuilder) Build() Set { return bitmapFromArray(b.ids) }
