package rowset

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// BitmapSet wraps a 32-bit Roaring bitmap.
type BitmapSet struct {
	rb *roaring.Bitmap
}

func newBitmapSet() *BitmapSet {
	return &BitmapSet{rb: roaring.New()}
}

func bitmapFromArray(ids []uint32) *BitmapSet {
	rb := roaring.New()
	rb.AddMany(ids)
	return &BitmapSet{rb: rb}
}

func unmarshalBitmap(data []byte) (*BitmapSet, error) {
	rb := roaring.New()
	if err := rb.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("row set decode: %w", err)
	}
	return &BitmapSet{rb: rb}, nil
}

// Kind implements Set.
func (s *BitmapSet) Kind() Kind { return KindBitmap }

// Len implements Set.
func (s *BitmapSet) Len() int { return int(s.rb.GetCardinality()) }

// Contains implements Set.
func (s *BitmapSet) Contains(id uint32) bool { return s.rb.Contains(id) }

// ToArray implements Set.
func (s *BitmapSet) ToArray() []uint32 { return s.rb.ToArray() }

// And implements Set. The operands are not modified.
func (s *BitmapSet) And(other Set) Set {
	o, ok := other.(*BitmapSet)
	if !ok {
		return FromArray(KindBitmap, intersectSorted(s.ToArray(), other.ToArray()))
	}
	return &BitmapSet{rb: roaring.And(s.rb, o.rb)}
}

// Or implements Set. The operands are not modified.
func (s *BitmapSet) Or(other Set) Set {
	o, ok := other.(*BitmapSet)
	if !ok {
		return FromArray(KindBitmap, unionSorted(s.ToArray(), other.ToArray()))
	}
	return &BitmapSet{rb: roaring.Or(s.rb, o.rb)}
}

// Marshal implements Set.
func (s *BitmapSet) Marshal() ([]byte, error) {
	return s.rb.MarshalBinary()
}
