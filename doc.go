// Package nanocube provides an in-memory, read-mostly OLAP engine for
// fast point queries over tabular data.
//
// At build time the engine indexes, per categorical column ("dimension"),
// every distinct value ("member") to the set of rows holding it. Filtered
// aggregation queries then resolve by set intersection instead of table
// scans: union within a dimension, intersection across dimensions,
// smallest set first.
//
// # Quick Start
//
//	tbl, _ := table.New(
//	    table.NewStringColumn("customer", []string{"A", "B", "A", "B", "A"}),
//	    table.NewStringColumn("product", []string{"P1", "P2", "P3", "P1", "P2"}),
//	    table.NewIntColumn("sales", []int64{100, 200, 300, 400, 500}),
//	)
//
//	nc, _ := nanocube.Build(ctx, tbl)
//
//	// sum of sales where customer = "A" and product = "P1"
//	res, _ := nc.Get([]string{"sales"}, nanocube.Filters{
//	    "customer": nanocube.One(member.String("A")),
//	    "product":  nanocube.One(member.String("P1")),
//	})
//	fmt.Println(res.Scalar) // 100
//
// # Row-Set Backends
//
// Two interchangeable backends answer "which rows hold this member":
// compressed Roaring bitmaps (default) and sorted integer arrays with
// merge-based set algebra. Both return bit-for-bit identical results;
// pick with WithBackend depending on member cardinality and distribution.
//
// # Immutability
//
// The engine is immutable after Build and safe for unbounded concurrent
// Get calls. The result cache is internally synchronized. There are no
// writes, no invalidation, and no partial teardown.
//
// # Persistence
//
// Save writes a single self-describing compressed snapshot that Load can
// restore without the original table. SaveTo/LoadFrom do the same against
// a blob store (local directory, memory, S3, MinIO).
package nanocube
