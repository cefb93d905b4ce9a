// Package index builds and serves the per-dimension member indexes: for
// every dimension column, a mapping from each distinct member value to the
// set of row ordinals holding that value.
package index

import (
	"fmt"
	"sort"

	"github.com/hupe1980/nanocube/member"
	"github.com/hupe1980/nanocube/rowset"
	"github.com/hupe1980/nanocube/table"
)

// Dimension is one indexed categorical column.
//
// Invariant: the row sets of all members are pairwise disjoint and their
// union covers every row. Missing values occupy the null member bucket,
// so the invariant holds for columns with gaps too.
type Dimension struct {
	name    string
	ordinal int
	kind    rowset.Kind
	sets    map[string]rowset.Set    // member key -> row set
	values  map[string]member.Value  // member key -> value, for enumeration
}

// BuildDimension indexes a column in a single pass: for each row, the
// member's bucket is looked up or created and the row ordinal appended.
// Ordinals arrive in ascending order, so sorted-array buckets need no sort.
func BuildDimension(col *table.Column, ordinal int, kind rowset.Kind) (*Dimension, error) {
	if col.Type() == table.TypeFloat {
		return nil, fmt.Errorf("dimension %q: float columns cannot be indexed", col.Name())
	}

	builders := make(map[string]rowset.Builder)
	values := make(map[string]member.Value)

	n := col.Len()
	for row := 0; row < n; row++ {
		v := col.Member(row)
		key := v.Key()
		b, ok := builders[key]
		if !ok {
			b = rowset.NewBuilder(kind)
			builders[key] = b
			values[key] = v
		}
		b.Add(uint32(row))
	}

	sets := make(map[string]rowset.Set, len(builders))
	for key, b := range builders {
		sets[key] = b.Build()
	}

	return &Dimension{
		name:    col.Name(),
		ordinal: ordinal,
		kind:    kind,
		sets:    sets,
		values:  values,
	}, nil
}

// RestoreDimension reassembles a dimension from snapshot parts.
func RestoreDimension(name string, ordinal int, kind rowset.Kind, members []member.Value, sets []rowset.Set) (*Dimension, error) {
	if len(members) != len(sets) {
		return nil, fmt.Errorf("dimension %q: %d members but %d row sets", name, len(members), len(sets))
	}
	d := &Dimension{
		name:    name,
		ordinal: ordinal,
		kind:    kind,
		sets:    make(map[string]rowset.Set, len(members)),
		values:  make(map[string]member.Value, len(members)),
	}
	for i, v := range members {
		key := v.Key()
		d.sets[key] = sets[i]
		d.values[key] = v
	}
	return d, nil
}

// Name returns the dimension name.
func (d *Dimension) Name() string { return d.name }

// Ordinal returns the dimension's position in the schema.
func (d *Dimension) Ordinal() int { return d.ordinal }

// Kind returns the row-set backend the dimension was built with.
func (d *Dimension) Kind() rowset.Kind { return d.kind }

// Cardinality returns the number of distinct members.
func (d *Dimension) Cardinality() int { return len(d.sets) }

// Members returns all distinct members in their total order. This is the
// enumeration surface consumed by higher-level navigation layers.
func (d *Dimension) Members() []member.Value {
	out := make([]member.Value, 0, len(d.values))
	for _, v := range d.values {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// RowsFor returns the row set of a single member. An unknown member
// resolves to the empty set; "no rows match" is a valid, silent outcome.
func (d *Dimension) RowsFor(v member.Value) rowset.Set {
	if s, ok := d.sets[v.Key()]; ok {
		return s
	}
	return rowset.Empty(d.kind)
}

// RowsForAny returns the union of the row sets of the given members.
func (d *Dimension) RowsForAny(vs []member.Value) rowset.Set {
	var acc rowset.Set
	for _, v := range vs {
		s, ok := d.sets[v.Key()]
		if !ok {
			continue
		}
		if acc == nil {
			acc = s
		} else {
			acc = acc.Or(s)
		}
	}
	if acc == nil {
		return rowset.Empty(d.kind)
	}
	return acc
}
