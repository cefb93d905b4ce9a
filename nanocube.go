package nanocube

import (
	"context"
	"time"

	"github.com/hupe1980/nanocube/cache"
	"github.com/hupe1980/nanocube/index"
	"github.com/hupe1980/nanocube/resource"
	"github.com/hupe1980/nanocube/rowset"
	"github.com/hupe1980/nanocube/table"
)

// NanoCube is the engine instance: the per-dimension member indexes, the
// raw measure vectors, and an optional result cache. It does not retain
// the source table, and it is immutable after Build.
type NanoCube struct {
	backend    rowset.Kind
	rows       int
	dimensions []*index.Dimension
	dimByName  map[string]*index.Dimension
	measures   []*index.Measure
	measByName map[string]*index.Measure

	cache   *cache.Cache // nil when caching is disabled
	opts    options
	rc      *resource.Controller
	logger  *Logger
	metrics MetricsCollector
}

// Build constructs an engine over the table. Columns are split into
// dimensions and measures by simple type predicates unless explicit lists
// are supplied; each dimension is then indexed in a single pass. The
// table is not retained.
func Build(ctx context.Context, t *table.Table, optFns ...Option) (*NanoCube, error) {
	start := time.Now()
	o := applyOptions(optFns)

	nc, err := build(ctx, t, o)

	var dims, meas int
	if nc != nil {
		dims, meas = len(nc.dimensions), len(nc.measures)
	}
	o.metrics.RecordBuild(t.Rows(), time.Since(start), err)
	o.logger.LogBuild(ctx, t.Rows(), dims, meas, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return nc, nil
}

func build(ctx context.Context, t *table.Table, o options) (*NanoCube, error) {
	schema, err := table.Classify(t, o.dimensions, o.measures)
	if err != nil {
		return nil, &BuildError{cause: err}
	}

	rc := o.rc
	if rc == nil {
		rc = resource.NewController(resource.Config{})
	}

	dims, err := index.BuildAll(ctx, schema.Dimensions, o.backend, rc)
	if err != nil {
		return nil, &BuildError{cause: err}
	}

	measures := make([]*index.Measure, 0, len(schema.Measures))
	for _, col := range schema.Measures {
		m, err := index.ExtractMeasure(col)
		if err != nil {
			return nil, &BuildError{Column: col.Name(), cause: err}
		}
		measures = append(measures, m)
	}

	return assemble(o, rc, o.backend, t.Rows(), dims, measures), nil
}

func assemble(o options, rc *resource.Controller, backend rowset.Kind, rows int, dims []*index.Dimension, measures []*index.Measure) *NanoCube {
	nc := &NanoCube{
		backend:    backend,
		rows:       rows,
		dimensions: dims,
		dimByName:  make(map[string]*index.Dimension, len(dims)),
		measures:   measures,
		measByName: make(map[string]*index.Measure, len(measures)),
		opts:       o,
		rc:         rc,
		logger:     o.logger,
		metrics:    o.metrics,
	}
	for _, d := range dims {
		nc.dimByName[d.Name()] = d
	}
	for _, m := range measures {
		nc.measByName[m.Name()] = m
	}
	if o.caching {
		nc.cache = cache.New(o.cacheCapacity, rc)
	}
	return nc
}

// Rows returns the number of rows the engine was built over.
func (nc *NanoCube) Rows() int { return nc.rows }

// Backend returns the row-set backend the engine was built with.
func (nc *NanoCube) Backend() rowset.Kind { return nc.backend }

// Dimensions returns the indexed dimensions in schema order.
func (nc *NanoCube) Dimensions() []*index.Dimension { return nc.dimensions }

// Dimension returns the named dimension. This, together with
// Dimension.Members and Dimension.RowsFor, is the entire surface the
// higher-level navigation layer needs from the engine.
func (nc *NanoCube) Dimension(name string) (*index.Dimension, error) {
	d, ok := nc.dimByName[name]
	if !ok {
		return nil, &ErrUnknownDimension{Name: name}
	}
	return d, nil
}

// Measures returns the measure vectors in schema order.
func (nc *NanoCube) Measures() []*index.Measure { return nc.measures }

// Measure returns the named raw measure vector.
func (nc *NanoCube) Measure(name string) (*index.Measure, error) {
	m, ok := nc.measByName[name]
	if !ok {
		return nil, &ErrUnknownMeasure{Name: name}
	}
	return m, nil
}

// CacheStats returns result-cache hit/miss counters. Zeroes when caching
// is disabled.
func (nc *NanoCube) CacheStats() (hits, misses int64) {
	if nc.cache == nil {
		return 0, 0
	}
	return nc.cache.Stats()
}
