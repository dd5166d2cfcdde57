package heightmap

// Point3D is a single mesh vertex. Y is the vertical axis; X and Z span the
// horizontal plane that is binned into the grid.
type Point3D struct {
	X, Y, Z float64
}

// GridCoord is a discrete (column, row) address in the output grid.
// Column follows X, row follows Z.
type GridCoord struct {
	Col int
	Row int
}

// AveragedGrid maps every occupied cell to the mean height of its samples.
// Cells that received no samples are absent.
type AveragedGrid map[GridCoord]float64

// HeightGrid is a dense row-major grid of heights, indexed col + row*size.
type HeightGrid []float64

// Index returns the flat offset of (col, row) in a grid with the given edge length.
func Index(col, row, size int) int {
	return col + row*size
}

// State describes whether a MeshHeightMap holds computed data.
type State int

const (
	// Unloaded means the height data is still zero-filled.
	Unloaded State = iota
	// Loaded means one aggregate+fill pass has completed.
	Loaded
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// PointSource supplies the vertex positions of a mesh. Implementations live in
// internal/meshio; StaticPoints covers the in-memory case.
type PointSource interface {
	Points() ([]Point3D, error)
}

// StaticPoints is a PointSource over an in-memory slice.
type StaticPoints []Point3D

// Points returns the slice itself. Callers must not mutate it.
func (s StaticPoints) Points() ([]Point3D, error) {
	return s, nil
}
