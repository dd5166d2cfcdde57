package heightmap

import "context"

// fillCounts tallies how each output cell was produced.
type fillCounts struct {
	occupied     int // copied from the sparse grid
	interpolated int // averaged from neighbours
	empty        int // no neighbour in reach, left at 0
}

func (c *fillCounts) add(o fillCounts) {
	c.occupied += o.occupied
	c.interpolated += o.interpolated
	c.empty += o.empty
}

// Fill expands sparse into a dense size x size grid. Occupied cells keep their
// value; every other cell takes the mean of the occupied cells in the square
// window [-n/2, n/2] around it (inclusive, so n+1 cells per axis). Cells with
// no occupied neighbour are 0.
func Fill(sparse AveragedGrid, size, neighborhood int) (HeightGrid, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}
	if err := ValidateLookAround(neighborhood); err != nil {
		return nil, err
	}
	out := make(HeightGrid, size*size)
	if _, err := fillRows(context.Background(), out, sparse, size, neighborhood, 0, size); err != nil {
		return nil, err
	}
	return out, nil
}

// fillRows writes rows [rowLo, rowHi) of out. It only reads sparse, so
// disjoint row ranges can be filled concurrently. ctx is checked per row.
func fillRows(ctx context.Context, out HeightGrid, sparse AveragedGrid, size, neighborhood, rowLo, rowHi int) (fillCounts, error) {
	var counts fillCounts
	for row := rowLo; row < rowHi; row++ {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		for col := 0; col < size; col++ {
			idx := Index(col, row, size)
			if v, ok := sparse[GridCoord{Col: col, Row: row}]; ok {
				out[idx] = v
				counts.occupied++
				continue
			}
			v, found := lookAround(sparse, col, row, neighborhood)
			out[idx] = v
			if found {
				counts.interpolated++
			} else {
				counts.empty++
			}
		}
	}
	return counts, nil
}

// lookAround averages the occupied cells around (col, row). Coordinates
// outside the grid are simply absent from sparse.
func lookAround(sparse AveragedGrid, col, row, neighborhood int) (float64, bool) {
	half := neighborhood / 2
	var sum float64
	n := 0
	for dc := -half; dc <= half; dc++ {
		for dr := -half; dr <= half; dr++ {
			if v, ok := sparse[GridCoord{Col: col + dc, Row: row + dr}]; ok {
				sum += v
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
