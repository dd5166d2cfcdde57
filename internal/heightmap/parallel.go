package heightmap

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many points are binned between context checks.
const ctxCheckInterval = 4096

// AggregateParallel is Aggregate split across workers. Each worker groups a
// contiguous slice of points into its own map; the maps are merged in slice
// order, so the result is bit-identical to Aggregate. workers <= 1 runs the
// sequential path, which still honours ctx.
func AggregateParallel(ctx context.Context, points []Point3D, size, workers int) (AveragedGrid, error) {
	if workers <= 1 || len(points) < 2*workers {
		return aggregate(ctx, points, size)
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}
	b, err := prepareBounds(points)
	if err != nil {
		return nil, err
	}

	chunk := (len(points) + workers - 1) / workers
	parts := make([]cellGroups, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(points))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			local := make(cellGroups)
			for i, p := range points[lo:hi] {
				if i%ctxCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				local.add(b.Cell(p, size), p.Y)
			}
			parts[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(cellGroups)
	for _, part := range parts {
		merged.merge(part)
	}
	return merged.average(), nil
}

// FillParallel is Fill with output rows split across workers.
func FillParallel(ctx context.Context, sparse AveragedGrid, size, neighborhood, workers int) (HeightGrid, error) {
	out, _, err := fillGrid(ctx, sparse, size, neighborhood, workers)
	return out, err
}

func fillGrid(ctx context.Context, sparse AveragedGrid, size, neighborhood, workers int) (HeightGrid, fillCounts, error) {
	if err := validateSize(size); err != nil {
		return nil, fillCounts{}, err
	}
	if err := ValidateLookAround(neighborhood); err != nil {
		return nil, fillCounts{}, err
	}
	out := make(HeightGrid, size*size)
	if workers <= 1 || size < workers {
		counts, err := fillRows(ctx, out, sparse, size, neighborhood, 0, size)
		if err != nil {
			return nil, fillCounts{}, err
		}
		return out, counts, nil
	}

	rowsPer := (size + workers - 1) / workers
	partial := make([]fillCounts, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * rowsPer
		hi := min(lo+rowsPer, size)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			counts, err := fillRows(gctx, out, sparse, size, neighborhood, lo, hi)
			partial[w] = counts
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fillCounts{}, err
	}

	var total fillCounts
	for _, c := range partial {
		total.add(c)
	}
	return out, total, nil
}
