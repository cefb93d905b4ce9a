package index

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/nanocube/member"
	"github.com/hupe1980/nanocube/resource"
	"github.com/hupe1980/nanocube/rowset"
	"github.com/hupe1980/nanocube/table"
)

func TestBuildDimension(t *testing.T) {
	for _, kind := range []rowset.Kind{rowset.KindBitmap, rowset.KindSortedArray} {
		t.Run(kind.String(), func(t *testing.T) {
			col := table.NewStringColumn("customer", []string{"A", "B", "A", "C", "B", "A"})

			d, err := BuildDimension(col, 0, kind)
			require.NoError(t, err)

			assert.Equal(t, "customer", d.Name())
			assert.Equal(t, kind, d.Kind())
			assert.Equal(t, 3, d.Cardinality())

			assert.Equal(t, []uint32{0, 2, 5}, d.RowsFor(member.String("A")).ToArray())
			assert.Equal(t, []uint32{1, 4}, d.RowsFor(member.String("B")).ToArray())
			assert.Equal(t, []uint32{3}, d.RowsFor(member.String("C")).ToArray())
		})
	}
}

func TestBuildDimensionRejectsFloat(t *testing.T) {
	col := table.NewFloatColumn("price", []float64{1.0})
	_, err := BuildDimension(col, 0, rowset.KindBitmap)
	assert.Error(t, err)
}

func TestDimensionPartition(t *testing.T) {
	// Member row sets are pairwise disjoint and together cover every row,
	// including rows with missing values.
	col := table.NewStringColumn("c", []string{"A", "", "B", "A"}).
		WithNulls([]bool{false, true, false, false})

	d, err := BuildDimension(col, 0, rowset.KindBitmap)
	require.NoError(t, err)

	seen := map[uint32]int{}
	for _, v := range d.Members() {
		for _, row := range d.RowsFor(v).ToArray() {
			seen[row]++
		}
	}
	require.Len(t, seen, 4)
	for row, count := range seen {
		assert.Equal(t, 1, count, "row %d appears in %d buckets", row, count)
	}

	// The missing value landed in the null bucket.
	assert.Equal(t, []uint32{1}, d.RowsFor(member.Null()).ToArray())
}

func TestMembersOrdered(t *testing.T) {
	col := table.NewStringColumn("c", []string{"pear", "apple", "fig"}).
		WithNulls([]bool{false, false, true})

	d, err := BuildDimension(col, 0, rowset.KindBitmap)
	require.NoError(t, err)

	members := d.Members()
	require.Len(t, members, 3)
	assert.True(t, members[0].IsNull())
	assert.Equal(t, "apple", members[1].StringValue())
	assert.Equal(t, "pear", members[2].StringValue())
}

func TestRowsForUnknownMember(t *testing.T) {
	col := table.NewStringColumn("c", []string{"A"})
	d, err := BuildDimension(col, 0, rowset.KindSortedArray)
	require.NoError(t, err)

	s := d.RowsFor(member.String("nope"))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, rowset.KindSortedArray, s.Kind())
}

func TestRowsForAny(t *testing.T) {
	col := table.NewStringColumn("c", []string{"A", "B", "C", "A"})
	d, err := BuildDimension(col, 0, rowset.KindBitmap)
	require.NoError(t, err)

	got := d.RowsForAny([]member.Value{member.String("A"), member.String("C"), member.String("nope")})
	assert.Equal(t, []uint32{0, 2, 3}, got.ToArray())

	// All-unknown resolves to the empty set, not an error.
	assert.Equal(t, 0, d.RowsForAny([]member.Value{member.String("x")}).Len())
}

func TestBuildAll(t *testing.T) {
	cols := []*table.Column{
		table.NewStringColumn("a", []string{"x", "y"}),
		table.NewBoolColumn("b", []bool{true, false}),
		table.NewIntColumn("c", []int64{1, 1}),
	}
	rc := resource.NewController(resource.Config{MaxBuildWorkers: 4})

	dims, err := BuildAll(context.Background(), cols, rowset.KindBitmap, rc)
	require.NoError(t, err)
	require.Len(t, dims, 3)
	for i, d := range dims {
		assert.Equal(t, cols[i].Name(), d.Name())
		assert.Equal(t, i, d.Ordinal())
	}
}

func TestBuildAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cols := []*table.Column{table.NewStringColumn("a", []string{"x"})}
	_, err := BuildAll(ctx, cols, rowset.KindBitmap, resource.NewController(resource.Config{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractMeasure(t *testing.T) {
	t.Run("float", func(t *testing.T) {
		m, err := ExtractMeasure(table.NewFloatColumn("price", []float64{1.5, 2.5}))
		require.NoError(t, err)
		assert.Equal(t, Float64, m.Kind())
		assert.Equal(t, []float64{1.5, 2.5}, m.Float64s())
		assert.Equal(t, 2.5, m.At(1))
	})

	t.Run("int", func(t *testing.T) {
		m, err := ExtractMeasure(table.NewIntColumn("qty", []int64{3, 4}))
		require.NoError(t, err)
		assert.Equal(t, Int64, m.Kind())
		assert.Equal(t, []int64{3, 4}, m.Int64s())
		assert.Equal(t, 3.0, m.At(0))
	})

	t.Run("int with nulls widens", func(t *testing.T) {
		col := table.NewIntColumn("qty", []int64{3, 0}).WithNulls([]bool{false, true})
		m, err := ExtractMeasure(col)
		require.NoError(t, err)
		assert.Equal(t, Float64, m.Kind())
		require.Len(t, m.Float64s(), 2)
		assert.Equal(t, 3.0, m.Float64s()[0])
		assert.True(t, math.IsNaN(m.Float64s()[1]))
	})

	t.Run("non-numeric", func(t *testing.T) {
		_, err := ExtractMeasure(table.NewStringColumn("s", []string{"x"}))
		assert.Error(t, err)
	})
}
