package heightmap

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Bounds is the horizontal extent of a point cloud.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// ComputeBounds returns the component-wise X/Z extent of points in a single pass.
// Non-finite coordinates are rejected since they would poison the normalisation.
func ComputeBounds(points []Point3D) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, ErrEmptyInput
	}
	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinZ: math.Inf(1), MaxZ: math.Inf(-1),
	}
	for i, p := range points {
		if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.Z) {
			return Bounds{}, fmt.Errorf("%w: point %d has non-finite coordinates (%g, %g, %g)", ErrInvalidArgument, i, p.X, p.Y, p.Z)
		}
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinZ = math.Min(b.MinZ, p.Z)
		b.MaxZ = math.Max(b.MaxZ, p.Z)
	}
	return b, nil
}

// checkExtent fails when either horizontal axis has collapsed to a single
// value, or spans more than float64 can represent as a width.
func (b Bounds) checkExtent(n int) error {
	if b.MaxX == b.MinX {
		return &DegenerateInputError{Axis: "x", Value: b.MinX, Points: n}
	}
	if b.MaxZ == b.MinZ {
		return &DegenerateInputError{Axis: "z", Value: b.MinZ, Points: n}
	}
	if math.IsInf(b.MaxX-b.MinX, 0) {
		return fmt.Errorf("%w: x extent [%g, %g] overflows float64", ErrInvalidArgument, b.MinX, b.MaxX)
	}
	if math.IsInf(b.MaxZ-b.MinZ, 0) {
		return fmt.Errorf("%w: z extent [%g, %g] overflows float64", ErrInvalidArgument, b.MinZ, b.MaxZ)
	}
	return nil
}

// Cell maps a point to its grid cell. Points on the upper boundary are clamped
// into the last column/row so every returned coordinate lies in [0, size).
func (b Bounds) Cell(p Point3D, size int) GridCoord {
	return GridCoord{
		Col: binIndex(p.X, b.MinX, b.MaxX, size),
		Row: binIndex(p.Z, b.MinZ, b.MaxZ, size),
	}
}

func binIndex(v, lo, hi float64, size int) int {
	idx := int(math.Floor((v - lo) / (hi - lo) * float64(size)))
	if idx >= size {
		return size - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}

// cellGroups collects raw height samples per cell during aggregation.
type cellGroups map[GridCoord][]float64

func (g cellGroups) add(c GridCoord, y float64) {
	g[c] = append(g[c], y)
}

// merge appends other's samples after g's, so merging partitions in input
// order reproduces the sequential sample order exactly.
func (g cellGroups) merge(other cellGroups) {
	for c, ys := range other {
		g[c] = append(g[c], ys...)
	}
}

func (g cellGroups) average() AveragedGrid {
	out := make(AveragedGrid, len(g))
	for c, ys := range g {
		out[c] = stat.Mean(ys, nil)
	}
	return out
}

// Aggregate bins points into a size x size grid by their X/Z position and
// returns the mean Y of every occupied cell.
func Aggregate(points []Point3D, size int) (AveragedGrid, error) {
	return aggregate(context.Background(), points, size)
}

func aggregate(ctx context.Context, points []Point3D, size int) (AveragedGrid, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}
	b, err := prepareBounds(points)
	if err != nil {
		return nil, err
	}

	groups := make(cellGroups)
	for i, p := range points {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		groups.add(b.Cell(p, size), p.Y)
	}
	return groups.average(), nil
}

func prepareBounds(points []Point3D) (Bounds, error) {
	b, err := ComputeBounds(points)
	if err != nil {
		return Bounds{}, err
	}
	if err := b.checkExtent(len(points)); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
