package index

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/nanocube/resource"
	"github.com/hupe1980/nanocube/rowset"
	"github.com/hupe1980/nanocube/table"
)

// BuildAll indexes all dimension columns. Dimensions share no mutable
// state during build, so they are indexed concurrently; the resource
// controller bounds the number of in-flight build workers.
func BuildAll(ctx context.Context, cols []*table.Column, kind rowset.Kind, rc *resource.Controller) ([]*Dimension, error) {
	dims := make([]*Dimension, len(cols))

	g, ctx := errgroup.WithContext(ctx)
	for i, col := range cols {
		g.Go(func() error {
			if err := rc.AcquireWorker(ctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			d, err := BuildDimension(col, i, kind)
			if err != nil {
				return err
			}
			dims[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dims, nil
}
