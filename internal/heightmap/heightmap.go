package heightmap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/meshheight/internal/timeutil"
)

// DefaultLookAround is the look-around matrix width used when none is configured.
const DefaultLookAround = 4

// LoadStats describes the most recent successful load.
type LoadStats struct {
	Points       int           // vertices read from the source
	Occupied     int           // cells with at least one vertex
	Interpolated int           // empty cells filled from neighbours
	Empty        int           // cells with no neighbour in reach, left at 0
	LookAround   int           // look-around width used by the load
	Duration     time.Duration // wall time of aggregate+fill
}

// Summary is a statistical description of a loaded grid.
type Summary struct {
	Min, Max     float64
	Mean, StdDev float64
}

// Result is the grid of one load together with the stats and summary
// describing that same grid.
type Result struct {
	Grid    HeightGrid
	Stats   LoadStats
	Summary Summary
}

// MeshHeightMap turns the vertices of a mesh into a size x size height grid.
// It starts Unloaded with zero-filled data; each Load recomputes the whole grid
// and replaces it only when every step succeeded.
type MeshHeightMap struct {
	source PointSource
	size   int
	clock  timeutil.Clock

	mu         sync.RWMutex
	lookAround int
	workers    int
	heightData HeightGrid
	state      State
	stats      LoadStats
}

// Option configures a MeshHeightMap at construction.
type Option func(*MeshHeightMap) error

// WithLookAround sets the look-around matrix width. It must be a positive even number.
func WithLookAround(n int) Option {
	return func(m *MeshHeightMap) error {
		if err := ValidateLookAround(n); err != nil {
			return err
		}
		m.lookAround = n
		return nil
	}
}

// WithWorkers sets how many goroutines each pass may use. 0 or 1 runs sequentially.
func WithWorkers(n int) Option {
	return func(m *MeshHeightMap) error {
		if n < 0 {
			return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidArgument, n)
		}
		m.workers = n
		return nil
	}
}

// WithClock replaces the clock used to time loads.
func WithClock(c timeutil.Clock) Option {
	return func(m *MeshHeightMap) error {
		if c == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidArgument)
		}
		m.clock = c
		return nil
	}
}

// New creates an unloaded height map of edge length size over source.
func New(source PointSource, size int, opts ...Option) (*MeshHeightMap, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: nil point source", ErrInvalidArgument)
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}
	m := &MeshHeightMap{
		source:     source,
		size:       size,
		clock:      timeutil.RealClock{},
		lookAround: DefaultLookAround,
		heightData: make(HeightGrid, size*size),
		state:      Unloaded,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Size returns the edge length of the grid.
func (m *MeshHeightMap) Size() int {
	return m.size
}

// SetLookAroundMatrixSize changes the gap-filling window for the next Load.
// Odd or non-positive widths are rejected and leave the current value in place.
func (m *MeshHeightMap) SetLookAroundMatrixSize(n int) error {
	if err := ValidateLookAround(n); err != nil {
		return err
	}
	m.mu.Lock()
	m.lookAround = n
	m.mu.Unlock()
	diagf("look-around matrix size set to %d", n)
	return nil
}

// LookAroundMatrixSize returns the configured gap-filling window width.
func (m *MeshHeightMap) LookAroundMatrixSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookAround
}

// Load runs the aggregate and fill passes over the source's points.
func (m *MeshHeightMap) Load() (bool, error) {
	return m.LoadContext(context.Background())
}

// LoadContext is Load with a context that can abandon the parallel passes.
// On error the previously loaded grid, state and stats are untouched.
func (m *MeshHeightMap) LoadContext(ctx context.Context) (bool, error) {
	m.mu.RLock()
	lookAround, workers := m.lookAround, m.workers
	m.mu.RUnlock()

	start := m.clock.Now()
	points, err := m.source.Points()
	if err != nil {
		opsf("load failed reading points: %v", err)
		return false, fmt.Errorf("read mesh points: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	sparse, err := AggregateParallel(ctx, points, m.size, workers)
	if err != nil {
		var degenerate *DegenerateInputError
		if errors.As(err, &degenerate) {
			opsf("load rejected: %v", degenerate)
		} else {
			opsf("load failed aggregating %d points: %v", len(points), err)
		}
		return false, fmt.Errorf("aggregate: %w", err)
	}
	tracef("aggregated %d points into %d cells in %v", len(points), len(sparse), m.clock.Since(start))

	grid, counts, err := fillGrid(ctx, sparse, m.size, lookAround, workers)
	if err != nil {
		opsf("load failed filling grid: %v", err)
		return false, fmt.Errorf("fill: %w", err)
	}

	stats := LoadStats{
		Points:       len(points),
		Occupied:     counts.occupied,
		Interpolated: counts.interpolated,
		Empty:        counts.empty,
		LookAround:   lookAround,
		Duration:     m.clock.Since(start),
	}

	m.mu.Lock()
	m.heightData = grid
	m.state = Loaded
	m.stats = stats
	m.mu.Unlock()

	diagf("loaded %dx%d grid from %d points: occupied=%d interpolated=%d empty=%d lookaround=%d took=%v",
		m.size, m.size, stats.Points, stats.Occupied, stats.Interpolated, stats.Empty, lookAround, stats.Duration)
	return true, nil
}

// State reports whether a load has completed.
func (m *MeshHeightMap) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Stats returns the statistics of the last successful load.
func (m *MeshHeightMap) Stats() LoadStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// HeightData returns a copy of the row-major grid (index col + row*size).
func (m *MeshHeightMap) HeightData() HeightGrid {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(HeightGrid, len(m.heightData))
	copy(out, m.heightData)
	return out
}

// Height returns the height at (col, row). ok is false outside the grid.
func (m *MeshHeightMap) Height(col, row int) (h float64, ok bool) {
	if col < 0 || row < 0 || col >= m.size || row >= m.size {
		return 0, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.heightData[Index(col, row, m.size)], true
}

// Summary computes the height range and distribution of the current grid.
func (m *MeshHeightMap) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return summarize(m.heightData)
}

// Result copies the grid, stats and summary under a single lock, so the three
// always describe the same load. ok is false until a load has succeeded.
func (m *MeshHeightMap) Result() (r Result, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Loaded {
		return Result{}, false
	}
	grid := make(HeightGrid, len(m.heightData))
	copy(grid, m.heightData)
	return Result{Grid: grid, Stats: m.stats, Summary: summarize(m.heightData)}, true
}

func summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{
		Min: floats.Min(data),
		Max: floats.Max(data),
	}
	if len(data) == 1 {
		s.Mean = data[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	return s
}
