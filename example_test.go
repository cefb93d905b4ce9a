package nanocube_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/nanocube"
	"github.com/hupe1980/nanocube/aggregate"
	"github.com/hupe1980/nanocube/member"
	"github.com/hupe1980/nanocube/rowset"
	"github.com/hupe1980/nanocube/table"
)

func Example() {
	tbl, err := table.New(
		table.NewStringColumn("customer", []string{"A", "B", "A", "B", "A"}),
		table.NewStringColumn("product", []string{"P1", "P2", "P3", "P1", "P2"}),
		table.NewIntColumn("sales", []int64{100, 200, 300, 400, 500}),
	)
	if err != nil {
		log.Fatal(err)
	}

	nc, err := nanocube.Build(context.Background(), tbl)
	if err != nil {
		log.Fatal(err)
	}

	res, err := nc.Get([]string{"sales"}, nanocube.Filters{
		"customer": nanocube.One(member.String("A")),
		"product":  nanocube.One(member.String("P1")),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Scalar)
	// Output: 100
}

func ExampleMany() {
	tbl, err := table.New(
		table.NewStringColumn("product", []string{"P1", "P2", "P3", "P1", "P2"}),
		table.NewIntColumn("sales", []int64{100, 200, 300, 400, 500}),
	)
	if err != nil {
		log.Fatal(err)
	}

	nc, err := nanocube.Build(context.Background(), tbl)
	if err != nil {
		log.Fatal(err)
	}

	// OR within a dimension: sales where product is P1 or P2.
	res, err := nc.Get([]string{"sales"}, nanocube.Filters{
		"product": nanocube.Many(member.String("P1"), member.String("P2")),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Scalar)
	// Output: 1200
}

func ExampleWithAggregate() {
	tbl, err := table.New(
		table.NewStringColumn("customer", []string{"A", "B", "A"}),
		table.NewIntColumn("sales", []int64{100, 200, 300}),
	)
	if err != nil {
		log.Fatal(err)
	}

	nc, err := nanocube.Build(context.Background(), tbl)
	if err != nil {
		log.Fatal(err)
	}

	res, err := nc.Get([]string{"sales"},
		nanocube.Filters{"customer": nanocube.One(member.String("A"))},
		nanocube.WithAggregate(aggregate.Mean),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Scalar)
	// Output: 200
}

func ExampleWithBackend() {
	tbl, err := table.New(
		table.NewStringColumn("customer", []string{"A", "B"}),
		table.NewIntColumn("sales", []int64{100, 200}),
	)
	if err != nil {
		log.Fatal(err)
	}

	nc, err := nanocube.Build(context.Background(), tbl,
		nanocube.WithBackend(rowset.KindSortedArray),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(nc.Backend())
	// Output: sorted
}
