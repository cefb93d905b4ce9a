package rowset

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kinds = []Kind{KindBitmap, KindSortedArray}

func buildSet(t *testing.T, kind Kind, ids ...uint32) Set {
	t.Helper()
	b := NewBuilder(kind)
	for _, id := range ids {
		b.Add(id)
	}
	return b.Build()
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"bitmap", KindBitmap, false},
		{"roaring", KindBitmap, false},
		{"sorted", KindSortedArray, false},
		{"sorted-array", KindSortedArray, false},
		{"numpy", KindSortedArray, false},
		{" Bitmap ", KindBitmap, false},
		{"btree", KindInvalid, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSetBasics(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			s := buildSet(t, kind, 1, 5, 9, 100000)

			assert.Equal(t, kind, s.Kind())
			assert.Equal(t, 4, s.Len())
			assert.True(t, s.Contains(5))
			assert.True(t, s.Contains(100000))
			assert.False(t, s.Contains(6))
			assert.Equal(t, []uint32{1, 5, 9, 100000}, s.ToArray())
		})
	}
}

func TestEmpty(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			e := Empty(kind)
			assert.Equal(t, 0, e.Len())
			assert.False(t, e.Contains(0))

			s := buildSet(t, kind, 1, 2, 3)
			assert.Equal(t, 0, e.And(s).Len())
			assert.Equal(t, 3, e.Or(s).Len())
		})
	}
}

func TestAndOr(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			a := buildSet(t, kind, 1, 2, 3, 4, 5)
			b := buildSet(t, kind, 4, 5, 6, 7)

			assert.Equal(t, []uint32{4, 5}, a.And(b).ToArray())
			assert.Equal(t, []uint32{1, 2, 3, 4, 5, 6, 7}, a.Or(b).ToArray())

			// Inputs are not mutated.
			assert.Equal(t, 5, a.Len())
			assert.Equal(t, 4, b.Len())
		})
	}
}

func TestIntersectGallop(t *testing.T) {
	// Large size ratio forces the binary-search probe path.
	large := make([]uint32, 10000)
	for i := range large {
		large[i] = uint32(i * 3)
	}
	small := []uint32{0, 2999 * 3, 9999 * 3, 50000}

	got := intersectSorted(small, large)
	assert.Equal(t, []uint32{0, 8997, 29997}, got)

	// Symmetric call order gives the same result.
	assert.Equal(t, got, intersectSorted(large, small))
}

func TestBackendEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	randomIDs := func(n int) []uint32 {
		seen := map[uint32]bool{}
		for len(seen) < n {
			seen[uint32(rng.Intn(200000))] = true
		}
		out := make([]uint32, 0, n)
		for id := range seen {
			out = append(out, id)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	}

	for trial := 0; trial < 20; trial++ {
		idsA := randomIDs(500)
		idsB := randomIDs(800)

		bmA, bmB := FromArray(KindBitmap, idsA), FromArray(KindBitmap, idsB)
		saA, saB := FromArray(KindSortedArray, idsA), FromArray(KindSortedArray, idsB)

		assert.Equal(t, bmA.And(bmB).ToArray(), saA.And(saB).ToArray())
		assert.Equal(t, bmA.Or(bmB).ToArray(), saA.Or(saB).ToArray())
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	ids := []uint32{0, 17, 42, 65536, 1 << 20}

	for _, src := range kinds {
		data, err := FromArray(src, ids).Marshal()
		require.NoError(t, err)

		// Marshaled sets restore into either backend.
		for _, dst := range kinds {
			got, err := Unmarshal(dst, data)
			require.NoError(t, err)
			assert.Equal(t, dst, got.Kind())
			assert.Equal(t, ids, got.ToArray())
		}
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal(KindBitmap, []byte("not a bitmap"))
	assert.Error(t, err)
}
