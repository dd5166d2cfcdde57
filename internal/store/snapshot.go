package store

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/banshee-data/meshheight/internal/heightmap"
)

// ErrNotLoaded is returned when snapshotting a height map that has no data yet.
var ErrNotLoaded = errors.New("height map is not loaded")

// Snapshot matches the heightmap_snapshot table.
type Snapshot struct {
	SnapshotID       string // uuid, assigned on insert when empty
	MeshID           string
	CreatedUnixNanos int64 // set on insert when zero
	Size             int
	LookAround       int
	PointCount       int
	OccupiedCells    int
	EmptyCells       int
	MinHeight        float64
	MaxHeight        float64
	GridBlob         []byte // gob+gzip heightmap.HeightGrid
}

// NewSnapshot captures the current grid of a loaded height map.
func NewSnapshot(meshID string, m *heightmap.MeshHeightMap) (*Snapshot, error) {
	if m == nil {
		return nil, ErrNotLoaded
	}
	res, ok := m.Result()
	if !ok {
		return nil, ErrNotLoaded
	}
	blob, err := serializeGrid(res.Grid)
	if err != nil {
		return nil, fmt.Errorf("serialize grid: %w", err)
	}
	return &Snapshot{
		MeshID:        meshID,
		Size:          m.Size(),
		LookAround:    res.Stats.LookAround,
		PointCount:    res.Stats.Points,
		OccupiedCells: res.Stats.Occupied,
		EmptyCells:    res.Stats.Empty,
		MinHeight:     res.Summary.Min,
		MaxHeight:     res.Summary.Max,
		GridBlob:      blob,
	}, nil
}

// Grid decodes the stored heights and checks them against Size.
func (s *Snapshot) Grid() (heightmap.HeightGrid, error) {
	grid, err := deserializeGrid(s.GridBlob)
	if err != nil {
		return nil, err
	}
	if want := s.Size * s.Size; len(grid) != want {
		return nil, fmt.Errorf("grid has %d cells, want %d for size %d", len(grid), want, s.Size)
	}
	return grid, nil
}

// serializeGrid compresses the grid using gob encoding and gzip compression.
func serializeGrid(grid heightmap.HeightGrid) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(grid); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeGrid decompresses and decodes a gob+gzip grid blob.
func deserializeGrid(blob []byte) (heightmap.HeightGrid, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty grid blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var grid heightmap.HeightGrid
	if err := gob.NewDecoder(gz).Decode(&grid); err != nil {
		return nil, fmt.Errorf("failed to decode grid: %w", err)
	}
	return grid, nil
}
