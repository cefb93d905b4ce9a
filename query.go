package nanocube

import (
	"context"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/nanocube/aggregate"
	"github.com/hupe1980/nanocube/index"
	"github.com/hupe1980/nanocube/member"
	"github.com/hupe1980/nanocube/rowset"
)

// FilterValue is a per-dimension filter: either a single member or a list
// of members meaning OR within that dimension. The zero value matches no
// rows, like Many with no arguments.
type FilterValue struct {
	members []member.Value
	many    bool
}

// One filters a dimension to a single member.
func One(v member.Value) FilterValue {
	return FilterValue{members: []member.Value{v}}
}

// Many filters a dimension to any of the given members (OR).
func Many(vs ...member.Value) FilterValue {
	return FilterValue{members: vs, many: true}
}

// Filters maps dimension names to filter values. Filters on different
// dimensions are ANDed. Iteration order never affects results.
type Filters map[string]FilterValue

// Result is the outcome of a point query. Exactly one field is populated,
// depending on how many measures were requested: one measure fills
// Scalar, several fill Vector (request order preserved), none fills
// Measures with every defined measure.
type Result struct {
	Scalar   float64
	Vector   []float64
	Measures map[string]float64
}

type queryOptions struct {
	agg aggregate.Kind
}

// QueryOption configures a single Get call.
type QueryOption func(*queryOptions)

// WithAggregate selects the aggregation function. Default: Sum.
func WithAggregate(k aggregate.Kind) QueryOption {
	return func(o *queryOptions) {
		o.agg = k
	}
}

// Get answers a filtered aggregation query.
//
// Every filter resolves to a row set (union over Many members); the sets
// are intersected smallest-first and the requested measures aggregated
// over the surviving rows. No filters means every row participates.
//
// An unknown dimension or measure name is an error; an unknown member of
// a known dimension silently yields the aggregate's identity value.
func (nc *NanoCube) Get(measures []string, filters Filters, optFns ...QueryOption) (Result, error) {
	return nc.GetContext(context.Background(), measures, filters, optFns...)
}

// GetContext is Get with a context for logging. Queries never block on
// IO, so the context does not cancel evaluation.
func (nc *NanoCube) GetContext(ctx context.Context, measures []string, filters Filters, optFns ...QueryOption) (Result, error) {
	start := time.Now()

	o := queryOptions{agg: aggregate.Sum}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	res, cacheHit, err := nc.get(o, measures, filters)

	nc.metrics.RecordQuery(time.Since(start), cacheHit, err)
	nc.logger.LogQuery(ctx, len(filters), cacheHit, time.Since(start), err)
	return res, err
}

func (nc *NanoCube) get(o queryOptions, measures []string, filters Filters) (Result, bool, error) {
	// Validate names before consulting the cache so that schema errors
	// surface even for repeated queries.
	selected, err := nc.resolveMeasures(measures)
	if err != nil {
		return Result{}, false, err
	}
	for name := range filters {
		if _, ok := nc.dimByName[name]; !ok {
			return Result{}, false, &ErrUnknownDimension{Name: name}
		}
	}

	var key string
	if nc.cache != nil {
		key = signature(o.agg, measures, filters)
		if v, ok := nc.cache.Get(key); ok {
			return v.(Result).clone(), true, nil
		}
	}

	sets := make([]rowset.Set, 0, len(filters))
	for name, fv := range filters {
		d := nc.dimByName[name]
		switch {
		case fv.many:
			sets = append(sets, d.RowsForAny(fv.members))
		case len(fv.members) == 1:
			sets = append(sets, d.RowsFor(fv.members[0]))
		default:
			// Zero-value FilterValue: no members, nothing matches.
			sets = append(sets, rowset.Empty(nc.backend))
		}
	}

	// Selectivity ordering: fold smallest-first so the cheapest set
	// drives the first intersection and candidates only shrink.
	sort.Slice(sets, func(i, j int) bool { return sets[i].Len() < sets[j].Len() })

	var rows []uint32 // nil means unfiltered: all rows participate
	if len(sets) > 0 {
		acc := sets[0]
		for _, s := range sets[1:] {
			if acc.Len() == 0 {
				break
			}
			acc = acc.And(s)
		}
		rows = acc.ToArray()
		if rows == nil {
			rows = []uint32{}
		}
	}

	res := Result{}
	switch len(measures) {
	case 0:
		res.Measures = make(map[string]float64, len(selected))
		for _, m := range selected {
			res.Measures[m.Name()] = aggregate.Apply(o.agg, m, rows)
		}
	case 1:
		res.Scalar = aggregate.Apply(o.agg, selected[0], rows)
	default:
		res.Vector = make([]float64, len(selected))
		for i, m := range selected {
			res.Vector[i] = aggregate.Apply(o.agg, m, rows)
		}
	}

	if nc.cache != nil {
		nc.cache.Set(key, res, resultSize(key, res))
		return res.clone(), false, nil
	}
	return res, false, nil
}

// clone deep-copies the mutable parts so that callers never share state
// with the cached entry.
func (r Result) clone() Result {
	out := r
	if r.Vector != nil {
		out.Vector = append([]float64(nil), r.Vector...)
	}
	if r.Measures != nil {
		out.Measures = maps.Clone(r.Measures)
	}
	return out
}

func (nc *NanoCube) resolveMeasures(names []string) ([]*index.Measure, error) {
	if len(names) == 0 {
		// No measures requested means all defined measures.
		return nc.measures, nil
	}
	out := make([]*index.Measure, len(names))
	for i, name := range names {
		m, ok := nc.measByName[name]
		if !ok {
			return nil, &ErrUnknownMeasure{Name: name}
		}
		out[i] = m
	}
	return out, nil
}

// signature builds the canonical cache key: dimension names sorted,
// member lists sorted, measures kept in request order because they shape
// the result. Equivalent queries always collide, regardless of map
// iteration or argument order.
func signature(agg aggregate.Kind, measures []string, filters Filters) string {
	var sb strings.Builder
	sb.WriteString(agg.String())
	sb.WriteByte(0)
	for _, m := range measures {
		sb.WriteString(m)
		sb.WriteByte(0x1f)
	}
	sb.WriteByte(0)

	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fv := filters[name]
		keys := make([]string, len(fv.members))
		for i, v := range fv.members {
			keys[i] = v.Key()
		}
		if fv.many {
			sort.Strings(keys)
		}
		sb.WriteString(name)
		sb.WriteByte(0x1e)
		for _, k := range keys {
			sb.WriteString(k)
			sb.WriteByte(0x1f)
		}
		sb.WriteByte(0)
	}
	return sb.String()
}

// resultSize approximates the memory footprint of one cache entry.
func resultSize(key string, res Result) int64 {
	size := int64(len(key)) + 16
	size += int64(len(res.Vector)) * 8
	for name := range res.Measures {
		size += int64(len(name)) + 8
	}
	return size
}
